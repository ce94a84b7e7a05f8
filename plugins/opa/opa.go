// Package opa provides a Transformer that enforces Open Policy Agent
// policies on queries by injecting policy-derived restrictions.
//
// You supply a [PolicyFunc] that is called once per table the query
// draws from. The function inspects the table name and returns zero or
// more condition nodes to conjoin with the restriction. If the function
// returns an error the query is rejected entirely, which is how hard
// "access denied" rules surface.
//
// # Basic usage
//
//	policy := func(table string) ([]criteria.Node, error) {
//	    if table == "secrets" {
//	        return nil, errors.New("access denied")
//	    }
//	    // Restrict "users" to tenant_id = 42
//	    if table == "users" {
//	        t := criteria.NewTable(table)
//	        cond := t.Col("tenant_id").Eq(42)
//	        return []criteria.Node{cond}, nil
//	    }
//	    return nil, nil // no extra conditions
//	}
//
//	o := opa.New(policy)
//	stream := streams.From(sess, users).Use(o)
//	// SELECT "users".* FROM "users" WHERE "users"."tenant_id" = 42
//
// # Combining with other plugins
//
// OPA composes with any other Transformer. Register multiple plugins
// with successive Use calls and they are applied in order:
//
//	stream.Use(softdelete.New()).Use(opa.New(policy))
//
// # Design notes
//
// The OPA plugin is code-only — it requires a [PolicyFunc] or a server
// client at construction time, so it is not exposed in the interactive
// REPL. For REPL-friendly plugins see the softdelete package.
package opa

import (
	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// PolicyFunc evaluates a policy for the given table name and returns
// conditions to conjoin with the query's restriction. Returning a non-nil
// error rejects the query entirely (e.g., "access denied").
type PolicyFunc func(tableName string) ([]criteria.Node, error)

// OPA is a Transformer that evaluates a policy against every table in
// the query and conjoins the resulting conditions. It supports two modes:
//   - PolicyFunc mode (via [New]): calls a Go function to evaluate policy
//   - Server mode (via [NewFromServer]): calls an OPA server's Compile API
type OPA struct {
	plugins.BaseTransformer
	evalPolicy PolicyFunc
	client     *Client
}

// New creates an OPA transformer with the given policy function.
func New(policy PolicyFunc) *OPA {
	return &OPA{evalPolicy: policy}
}

// NewFromServer creates an OPA transformer that calls an OPA server's
// Compile API to evaluate policies. The url is the base URL of the OPA
// server (e.g., "http://localhost:8181"), policyPath is the Rego policy
// path (e.g., "data.authz.allow"), and input is the input document to
// send with each request.
func NewFromServer(url, policyPath string, input map[string]any) *OPA {
	return &OPA{client: NewClient(url, policyPath, input)}
}

// conditionsFor evaluates the policy for one table.
func (o *OPA) conditionsFor(tableName string) ([]criteria.Node, error) {
	if o.client != nil {
		return o.client.Compile(tableName)
	}
	return o.evalPolicy(tableName)
}

// TransformSelect evaluates the policy for each root the query draws
// from and conjoins any returned conditions with the restriction. If the
// policy returns an error for any table, the query is rejected.
func (o *OPA) TransformSelect(q *criteria.SelectQuery) (*criteria.SelectQuery, error) {
	for _, ref := range plugins.CollectRoots(q) {
		conditions, err := o.conditionsFor(ref.Name)
		if err != nil {
			return nil, err
		}
		for _, cond := range conditions {
			q.Where = criteria.And(q.Where, cond)
		}
	}
	return q, nil
}

// TransformUpdate evaluates the policy for the update target.
func (o *OPA) TransformUpdate(q *criteria.UpdateQuery) (*criteria.UpdateQuery, error) {
	if q.Target == nil {
		return q, nil
	}
	conditions, err := o.conditionsFor(q.Target.Table.Name)
	if err != nil {
		return nil, err
	}
	for _, cond := range conditions {
		q.Where = criteria.And(q.Where, cond)
	}
	return q, nil
}

// TransformDelete evaluates the policy for the delete target.
func (o *OPA) TransformDelete(q *criteria.DeleteQuery) (*criteria.DeleteQuery, error) {
	if q.Target == nil {
		return q, nil
	}
	conditions, err := o.conditionsFor(q.Target.Table.Name)
	if err != nil {
		return nil, err
	}
	for _, cond := range conditions {
		q.Where = criteria.And(q.Where, cond)
	}
	return q, nil
}
