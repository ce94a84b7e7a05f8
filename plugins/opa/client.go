package opa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/internal/quoting"
)

// Client communicates with an OPA server's Compile API.
type Client struct {
	baseURL    string
	policyPath string
	input      map[string]any
	httpClient *http.Client
}

// NewClient creates an OPA Client with the given base URL, policy path, and input.
// The policy path is normalized to include the "data." prefix if not already present.
//
// SECURITY: The baseURL is used as-is for HTTP requests. In production, use HTTPS
// to prevent policy decisions and input data from being transmitted in plain text.
func NewClient(baseURL, policyPath string, input map[string]any) *Client {
	if !strings.HasPrefix(policyPath, "data.") {
		policyPath = "data." + policyPath
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		baseURL:    baseURL,
		policyPath: policyPath,
		input:      input,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// postJSON sends a POST request with JSON body to the given path and returns
// the response body. Returns an error if the request fails or returns a
// non-200 status code.
func (c *Client) postJSON(path string, reqBody []byte) ([]byte, error) {
	resp, err := c.httpClient.Post(c.baseURL+path, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// --- Compile API response types ---

type compileResponse struct {
	Result compileResult `json:"result"`
}

type compileResult struct {
	Queries [][]compileExpression `json:"queries"`
}

type compileExpression struct {
	Index int           `json:"index"`
	Terms []compileTerm `json:"terms"`
}

type compileTerm struct {
	Type  string `json:"type"`
	Value any    // string, int, float64, bool, or []compileTerm (for ref)
}

// UnmarshalJSON handles polymorphic deserialization of compileTerm.Value
// based on the Type field.
func (ct *compileTerm) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ct.Type = raw.Type

	switch raw.Type {
	case "string", "var":
		var s string
		if err := json.Unmarshal(raw.Value, &s); err != nil {
			return fmt.Errorf("opa: failed to unmarshal %s value: %w", raw.Type, err)
		}
		ct.Value = s
	case "number":
		var f float64
		if err := json.Unmarshal(raw.Value, &f); err != nil {
			return fmt.Errorf("opa: failed to unmarshal number value: %w", err)
		}
		// Store whole numbers as int.
		if f == math.Trunc(f) && !math.IsInf(f, 0) && !math.IsNaN(f) {
			ct.Value = int(f)
		} else {
			ct.Value = f
		}
	case "boolean":
		var b bool
		if err := json.Unmarshal(raw.Value, &b); err != nil {
			return fmt.Errorf("opa: failed to unmarshal boolean value: %w", err)
		}
		ct.Value = b
	case "ref":
		var terms []compileTerm
		if err := json.Unmarshal(raw.Value, &terms); err != nil {
			return fmt.Errorf("opa: failed to unmarshal ref value: %w", err)
		}
		ct.Value = terms
	default:
		return fmt.Errorf("opa: unknown term type %q", raw.Type)
	}
	return nil
}

// parseCompileResponse parses a raw JSON body from the OPA Compile API.
func parseCompileResponse(data []byte) (*compileResponse, error) {
	var resp compileResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("opa: failed to parse compile response: %w", err)
	}
	return &resp, nil
}

// --- Expression translation ---

// extractOperator pulls the operator name from the first term of an expression,
// which is expected to be a ref containing a single var.
func extractOperator(term compileTerm) (string, error) {
	if term.Type != "ref" {
		return "", fmt.Errorf("opa: operator term must be ref, got %s", term.Type)
	}
	parts, ok := term.Value.([]compileTerm)
	if !ok || len(parts) == 0 {
		return "", errors.New("opa: operator ref has no parts")
	}
	if parts[0].Type != "var" {
		return "", fmt.Errorf("opa: operator ref[0] must be var, got %s", parts[0].Type)
	}
	name, ok := parts[0].Value.(string)
	if !ok {
		return "", errors.New("opa: operator var value is not a string")
	}
	return name, nil
}

// extractColumnName pulls the column name from a data ref term.
// The column name is the last string-typed element in the ref.
func extractColumnName(term compileTerm) (string, error) {
	if term.Type != "ref" {
		return "", fmt.Errorf("opa: column term must be ref, got %s", term.Type)
	}
	parts, ok := term.Value.([]compileTerm)
	if !ok || len(parts) == 0 {
		return "", errors.New("opa: column ref has no parts")
	}
	// Walk backwards to find the last string-typed element.
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i].Type == "string" {
			s, ok := parts[i].Value.(string)
			if !ok {
				return "", errors.New("opa: column ref string value is not a string")
			}
			return s, nil
		}
	}
	return "", errors.New("opa: column ref has no string-typed element")
}

// isDataRef returns true if the term is a ref starting with var "data".
func isDataRef(term compileTerm) bool {
	if term.Type != "ref" {
		return false
	}
	parts, ok := term.Value.([]compileTerm)
	if !ok || len(parts) == 0 {
		return false
	}
	if parts[0].Type != "var" {
		return false
	}
	name, ok := parts[0].Value.(string)
	return ok && name == "data"
}

// translateExpression converts an OPA compile expression into a condition
// node using the given table for column references. OPA does not guarantee
// operand order, so we identify the data ref and value term by type rather
// than position.
func translateExpression(expr compileExpression, table *criteria.Table) (criteria.Node, error) {
	if len(expr.Terms) < 3 {
		return nil, fmt.Errorf("opa: expression has %d terms, need at least 3", len(expr.Terms))
	}

	op, err := extractOperator(expr.Terms[0])
	if err != nil {
		return nil, err
	}

	// Determine which term is the column ref and which is the value.
	var colTerm, valTerm compileTerm
	switch {
	case isDataRef(expr.Terms[1]):
		colTerm, valTerm = expr.Terms[1], expr.Terms[2]
	case isDataRef(expr.Terms[2]):
		colTerm, valTerm = expr.Terms[2], expr.Terms[1]
	default:
		return nil, errors.New("opa: expression has no data ref term")
	}

	colName, err := extractColumnName(colTerm)
	if err != nil {
		return nil, err
	}

	attr := table.Col(colName)
	val := valTerm.Value

	switch op {
	case "eq", "equal":
		return attr.Eq(val), nil
	case "neq":
		return attr.NotEq(val), nil
	case "lt":
		return attr.Lt(val), nil
	case "lte":
		return attr.LtEq(val), nil
	case "gt":
		return attr.Gt(val), nil
	case "gte":
		return attr.GtEq(val), nil
	case "startswith":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("opa: startswith requires string value, got %T", val)
		}
		return attr.Like(quoting.EscapeLikePattern(s) + "%"), nil
	case "endswith":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("opa: endswith requires string value, got %T", val)
		}
		return attr.Like("%" + quoting.EscapeLikePattern(s)), nil
	case "contains":
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("opa: contains requires string value, got %T", val)
		}
		return attr.Like("%" + quoting.EscapeLikePattern(s) + "%"), nil
	default:
		return nil, fmt.Errorf("opa: unsupported operator %q", op)
	}
}

// --- Query set translation ---

// translateQueries converts the full query set from an OPA Compile response
// into condition nodes suitable for conjoining with a restriction.
//
// Semantics:
//   - nil or empty queries = access denied (error)
//   - [[]] = unconditional allow (nil conditions, no error)
//   - Single query with expressions = each expression returned separately (caller ANDs)
//   - Multiple queries = each query AND'd internally, then OR'd together
func translateQueries(queries [][]compileExpression, table *criteria.Table) ([]criteria.Node, error) {
	if len(queries) == 0 {
		return nil, errors.New("opa: access denied")
	}

	// Check for unconditional allow: single empty query.
	if len(queries) == 1 && len(queries[0]) == 0 {
		return nil, nil
	}

	// Single query: return each expression as a separate condition.
	if len(queries) == 1 {
		var conditions []criteria.Node
		for _, expr := range queries[0] {
			node, err := translateExpression(expr, table)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, node)
		}
		return conditions, nil
	}

	// Multiple queries: each query AND'd internally, then OR'd together.
	groups := make([]criteria.Node, len(queries))
	for i, query := range queries {
		if len(query) == 0 {
			// An empty query in a multi-query set means unconditional allow
			// for that branch. Since it's OR'd, the entire result is allow.
			return nil, nil
		}
		first, err := translateExpression(query[0], table)
		if err != nil {
			return nil, err
		}
		group := first
		for j := 1; j < len(query); j++ {
			node, err := translateExpression(query[j], table)
			if err != nil {
				return nil, err
			}
			group = criteria.And(group, node)
		}
		groups[i] = group
	}

	// OR all groups together.
	result := groups[0]
	for i := 1; i < len(groups); i++ {
		result = criteria.Or(result, groups[i])
	}
	return []criteria.Node{result}, nil
}

// --- Compile API request ---

type compileRequest struct {
	Query    string   `json:"query"`
	Input    any      `json:"input,omitempty"`
	Unknowns []string `json:"unknowns"`
}

// Compile calls the OPA Compile API for the given table and returns
// condition nodes that can be conjoined with a restriction.
func (c *Client) Compile(tableName string) ([]criteria.Node, error) {
	reqBody := compileRequest{
		Query:    c.policyPath + " == true",
		Input:    c.input,
		Unknowns: []string{"data." + tableName},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("opa: failed to marshal compile request: %w", err)
	}

	body, err := c.postJSON("/v1/compile", data)
	if err != nil {
		return nil, fmt.Errorf("opa: compile request failed: %w", err)
	}

	parsed, err := parseCompileResponse(body)
	if err != nil {
		return nil, err
	}

	return translateQueries(parsed.Result.Queries, criteria.NewTable(tableName))
}
