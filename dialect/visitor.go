// Package dialect provides SQL generators that walk the criteria model.
package dialect

import (
	"fmt"
	"strings"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/internal/quoting"
)

// Operator SQL strings for ComparisonOp values.
var comparisonOpSQL = [...]string{
	criteria.OpEq:      "=",
	criteria.OpNotEq:   "!=",
	criteria.OpGt:      ">",
	criteria.OpGtEq:    ">=",
	criteria.OpLt:      "<",
	criteria.OpLtEq:    "<=",
	criteria.OpLike:    "LIKE",
	criteria.OpNotLike: "NOT LIKE",
}

// Aggregate function SQL names.
var aggregateFuncSQL = [...]string{
	criteria.AggCount: "COUNT",
	criteria.AggSum:   "SUM",
	criteria.AggAvg:   "AVG",
	criteria.AggMin:   "MIN",
	criteria.AggMax:   "MAX",
}

// Option configures a visitor at construction time.
type Option func(*baseVisitor)

// WithoutParams disables parameterized query mode.
//
// ⚠️ WARNING: Disables SQL injection protection. Only use for debugging or
// when you're certain all values are trusted. Production code should NEVER
// use this option.
func WithoutParams() Option {
	return func(b *baseVisitor) {
		b.parameterize = false
	}
}

// baseVisitor implements the shared SQL generation logic used by all
// dialects. Dialect-specific visitors embed *baseVisitor and set the outer
// field to themselves, enabling correct virtual dispatch through the
// criteria.Visitor interface.
type baseVisitor struct {
	// outer is the concrete dialect visitor. All recursive Accept calls
	// go through outer so that dialect overrides are respected.
	outer criteria.Visitor

	// quoteIdent quotes a SQL identifier (table name, column name).
	quoteIdent func(string) string

	// parameterize enables bind-parameter mode.
	parameterize bool

	// params accumulates bind parameter values during SQL generation.
	params []any

	// paramIndex tracks the next parameter number (1-based).
	paramIndex int

	// placeholder returns the bind placeholder for a given parameter index.
	// PostgreSQL uses $1, $2; MySQL/SQLite use ?.
	placeholder func(int) string
}

// applyOptions applies functional options to the baseVisitor.
func (b *baseVisitor) applyOptions(opts []Option) {
	for _, o := range opts {
		o(b)
	}
}

// Params returns the collected bind parameters from the last SQL generation.
func (b *baseVisitor) Params() []any {
	return b.params
}

// Reset clears collected parameters for reuse.
func (b *baseVisitor) Reset() {
	b.params = nil
	b.paramIndex = 0
}

func (b *baseVisitor) VisitTable(n *criteria.Table) string {
	return b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitRoot(n *criteria.Root) string {
	return b.quoteIdent(n.Table.Name)
}

func (b *baseVisitor) VisitAttribute(n *criteria.Attribute) string {
	return b.quoteIdent(criteria.RelationName(n.Relation)) + "." + b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitLiteral(n *criteria.LiteralNode) string {
	return b.literalToSQL(n.Value)
}

func (b *baseVisitor) literalToSQL(val any) string {
	// nil always renders as NULL keyword, never parameterized.
	if val == nil {
		return "NULL"
	}

	// In parameterize mode, emit a placeholder and collect the value.
	if b.parameterize {
		b.paramIndex++
		b.params = append(b.params, val)
		return b.placeholder(b.paramIndex)
	}

	switch v := val.(type) {
	case string:
		return "'" + quoting.EscapeString(v) + "'"
	case bool:
		if v {
			return "TRUE"
		}
		return "FALSE"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%g", v)
	default:
		panic(fmt.Sprintf("streamql: unsupported literal type %T", v))
	}
}

func (b *baseVisitor) VisitBindParam(n *criteria.BindParamNode) string {
	b.paramIndex++
	b.params = append(b.params, n.Value)
	return b.placeholder(b.paramIndex)
}

func (b *baseVisitor) VisitSQLLiteral(n *criteria.SQLLiteral) string {
	return n.Raw
}

func (b *baseVisitor) VisitStar(n *criteria.StarNode) string {
	if n.Table != nil {
		return b.quoteIdent(n.Table.Name) + ".*"
	}
	return "*"
}

func (b *baseVisitor) VisitComparison(n *criteria.ComparisonNode) string {
	left := n.Left.Accept(b.outer)
	right := n.Right.Accept(b.outer)
	return left + " " + comparisonOpSQL[n.Op] + " " + right
}

func (b *baseVisitor) VisitUnary(n *criteria.UnaryNode) string {
	expr := n.Expr.Accept(b.outer)
	switch n.Op {
	case criteria.OpIsNull:
		return expr + " IS NULL"
	case criteria.OpIsNotNull:
		return expr + " IS NOT NULL"
	default:
		return expr
	}
}

func (b *baseVisitor) VisitAnd(n *criteria.AndNode) string {
	return n.Left.Accept(b.outer) + " AND " + n.Right.Accept(b.outer)
}

func (b *baseVisitor) VisitOr(n *criteria.OrNode) string {
	return n.Left.Accept(b.outer) + " OR " + n.Right.Accept(b.outer)
}

func (b *baseVisitor) VisitNot(n *criteria.NotNode) string {
	return "NOT (" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitIn(n *criteria.InNode) string {
	expr := n.Expr.Accept(b.outer)
	vals := make([]string, len(n.Vals))
	for i, v := range n.Vals {
		vals[i] = v.Accept(b.outer)
	}
	keyword := "IN"
	if n.Negate {
		keyword = "NOT IN"
	}
	return expr + " " + keyword + " (" + strings.Join(vals, ", ") + ")"
}

func (b *baseVisitor) VisitBetween(n *criteria.BetweenNode) string {
	expr := n.Expr.Accept(b.outer)
	low := n.Low.Accept(b.outer)
	high := n.High.Accept(b.outer)
	keyword := "BETWEEN"
	if n.Negate {
		keyword = "NOT BETWEEN"
	}
	return expr + " " + keyword + " " + low + " AND " + high
}

func (b *baseVisitor) VisitGrouping(n *criteria.GroupingNode) string {
	return "(" + n.Expr.Accept(b.outer) + ")"
}

func (b *baseVisitor) VisitOrdering(n *criteria.OrderingNode) string {
	expr := n.Expr.Accept(b.outer)
	if n.Direction == criteria.Desc {
		return expr + " DESC"
	}
	return expr + " ASC"
}

func (b *baseVisitor) VisitAggregate(n *criteria.AggregateNode) string {
	var sb strings.Builder
	sb.WriteString(aggregateFuncSQL[n.Func])
	sb.WriteString("(")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	if n.Expr == nil {
		sb.WriteString("*")
	} else {
		sb.WriteString(n.Expr.Accept(b.outer))
	}
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitAlias(n *criteria.AliasNode) string {
	return n.Expr.Accept(b.outer) + " AS " + b.quoteIdent(n.Name)
}

func (b *baseVisitor) VisitAssignment(n *criteria.AssignmentNode) string {
	return n.Left.Accept(b.outer) + " = " + n.Right.Accept(b.outer)
}

func (b *baseVisitor) VisitExists(n *criteria.ExistsNode) string {
	var sb strings.Builder
	if n.Negated {
		sb.WriteString("NOT ")
	}
	sb.WriteString("EXISTS (")
	sb.WriteString(n.Subquery.Accept(b.outer))
	sb.WriteString(")")
	return sb.String()
}

func (b *baseVisitor) VisitSelect(n *criteria.SelectQuery) string {
	var sb strings.Builder

	sb.WriteString("SELECT ")
	if n.Distinct {
		sb.WriteString("DISTINCT ")
	}
	b.writeProjections(&sb, n.Projections)
	b.writeFrom(&sb, n.Roots)
	b.writeNodeClause(&sb, " WHERE ", n.Where)
	b.writeClause(&sb, " GROUP BY ", n.Groups, ", ")
	b.writeNodeClause(&sb, " HAVING ", n.Having)
	b.writeClause(&sb, " ORDER BY ", n.Orders, ", ")
	b.writeNodeClause(&sb, " LIMIT ", n.Limit)
	b.writeNodeClause(&sb, " OFFSET ", n.Offset)

	return sb.String()
}

// Subqueries render like selects; enclosing predicates (EXISTS, IN)
// supply the parentheses.
func (b *baseVisitor) VisitSubquery(n *criteria.Subquery) string {
	return b.outer.VisitSelect(&n.SelectQuery)
}

func (b *baseVisitor) VisitDelete(n *criteria.DeleteQuery) string {
	var sb strings.Builder

	sb.WriteString("DELETE FROM ")
	if n.Target != nil {
		sb.WriteString(n.Target.Accept(b.outer))
	}
	b.writeNodeClause(&sb, " WHERE ", n.Where)

	return sb.String()
}

func (b *baseVisitor) VisitUpdate(n *criteria.UpdateQuery) string {
	var sb strings.Builder

	sb.WriteString("UPDATE ")
	if n.Target != nil {
		sb.WriteString(n.Target.Accept(b.outer))
	}

	if len(n.Assignments) > 0 {
		sb.WriteString(" SET ")
		assigns := make([]string, len(n.Assignments))
		for i, a := range n.Assignments {
			assigns[i] = a.Accept(b.outer)
		}
		sb.WriteString(strings.Join(assigns, ", "))
	}

	b.writeNodeClause(&sb, " WHERE ", n.Where)

	return sb.String()
}

// writeProjections writes the projection list, defaulting to * and
// rendering a root projection as a qualified star.
func (b *baseVisitor) writeProjections(sb *strings.Builder, projections []criteria.Node) {
	if len(projections) == 0 {
		sb.WriteString("*")
		return
	}
	for i, p := range projections {
		if i > 0 {
			sb.WriteString(", ")
		}
		if root, ok := p.(*criteria.Root); ok {
			sb.WriteString(b.quoteIdent(root.Table.Name) + ".*")
			continue
		}
		sb.WriteString(p.Accept(b.outer))
	}
}

// writeFrom writes the FROM clause over all non-correlated roots. A
// subquery whose only root is correlated has no FROM clause of its own;
// its column references resolve against the enclosing query.
func (b *baseVisitor) writeFrom(sb *strings.Builder, roots []*criteria.Root) {
	var rendered []string
	for _, r := range roots {
		if r.Correlated {
			continue
		}
		rendered = append(rendered, r.Accept(b.outer))
	}
	if len(rendered) == 0 {
		return
	}
	sb.WriteString(" FROM ")
	sb.WriteString(strings.Join(rendered, ", "))
}

// writeClause writes "keyword item1 sep item2 sep ..." if items is non-empty.
func (b *baseVisitor) writeClause(sb *strings.Builder, keyword string, items []criteria.Node, sep string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(keyword)
	for i, item := range items {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(item.Accept(b.outer))
	}
}

// writeNodeClause writes "keyword node" if node is non-nil.
func (b *baseVisitor) writeNodeClause(sb *strings.Builder, keyword string, n criteria.Node) {
	if n != nil {
		sb.WriteString(keyword)
		sb.WriteString(n.Accept(b.outer))
	}
}
