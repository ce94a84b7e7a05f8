// Package criteria defines the criteria model that query streams configure:
// an expression AST (tables, attributes, predicates, orderings, aggregates)
// plus the in-progress query contexts (select, subquery, bulk delete/update)
// and the Builder toolkit handed to configurers during a terminal build.
package criteria

// Node is the interface that all AST nodes implement.
type Node interface {
	Accept(visitor Visitor) string
}

// Visitor defines the interface for walking the AST and producing output.
// Concrete visitors (e.g., Postgres, MySQL) live in the dialect package.
type Visitor interface {
	VisitTable(node *Table) string
	VisitRoot(node *Root) string
	VisitAttribute(node *Attribute) string
	VisitLiteral(node *LiteralNode) string
	VisitBindParam(node *BindParamNode) string
	VisitSQLLiteral(node *SQLLiteral) string
	VisitStar(node *StarNode) string
	VisitComparison(node *ComparisonNode) string
	VisitUnary(node *UnaryNode) string
	VisitAnd(node *AndNode) string
	VisitOr(node *OrNode) string
	VisitNot(node *NotNode) string
	VisitIn(node *InNode) string
	VisitBetween(node *BetweenNode) string
	VisitGrouping(node *GroupingNode) string
	VisitOrdering(node *OrderingNode) string
	VisitAggregate(node *AggregateNode) string
	VisitAlias(node *AliasNode) string
	VisitAssignment(node *AssignmentNode) string
	VisitExists(node *ExistsNode) string
	VisitSelect(node *SelectQuery) string
	VisitSubquery(node *Subquery) string
	VisitDelete(node *DeleteQuery) string
	VisitUpdate(node *UpdateQuery) string
}

// Parameterizer is implemented by visitors that support parameterized queries.
// Callers use type assertion to extract collected parameters after SQL generation.
type Parameterizer interface {
	Params() []any
	Reset()
}

// Literal wraps a raw Go value into a LiteralNode. If val already
// implements Node, it is returned as-is.
func Literal(val any) Node {
	if n, ok := val.(Node); ok {
		return n
	}
	lit := &LiteralNode{Value: val}
	lit.Predications.self = lit
	lit.Combinable.self = lit
	return lit
}
