// Package testutil provides shared test helpers for the streamql project.
package testutil

import "github.com/bawdo/streamql/criteria"

// StubVisitor implements criteria.Visitor with minimal return values for
// testing. Methods return meaningful short strings to aid in test assertions.
type StubVisitor struct{}

var _ criteria.Visitor = StubVisitor{}

func (sv StubVisitor) VisitTable(n *criteria.Table) string         { return n.Name }
func (sv StubVisitor) VisitRoot(n *criteria.Root) string           { return n.Table.Name }
func (sv StubVisitor) VisitAttribute(n *criteria.Attribute) string { return "attr" }
func (sv StubVisitor) VisitLiteral(n *criteria.LiteralNode) string { return "lit" }
func (sv StubVisitor) VisitBindParam(n *criteria.BindParamNode) string {
	return "bind_param"
}
func (sv StubVisitor) VisitSQLLiteral(n *criteria.SQLLiteral) string { return n.Raw }
func (sv StubVisitor) VisitStar(n *criteria.StarNode) string         { return "*" }
func (sv StubVisitor) VisitComparison(n *criteria.ComparisonNode) string {
	return n.Left.Accept(sv) + "=?" + n.Right.Accept(sv)
}
func (sv StubVisitor) VisitUnary(n *criteria.UnaryNode) string           { return "unary" }
func (sv StubVisitor) VisitAnd(n *criteria.AndNode) string               { return "and" }
func (sv StubVisitor) VisitOr(n *criteria.OrNode) string                 { return "or" }
func (sv StubVisitor) VisitNot(n *criteria.NotNode) string               { return "not" }
func (sv StubVisitor) VisitIn(n *criteria.InNode) string                 { return "in" }
func (sv StubVisitor) VisitBetween(n *criteria.BetweenNode) string       { return "between" }
func (sv StubVisitor) VisitGrouping(n *criteria.GroupingNode) string     { return "grouping" }
func (sv StubVisitor) VisitOrdering(n *criteria.OrderingNode) string     { return "ordering" }
func (sv StubVisitor) VisitAggregate(n *criteria.AggregateNode) string   { return "aggregate" }
func (sv StubVisitor) VisitAlias(n *criteria.AliasNode) string           { return "alias" }
func (sv StubVisitor) VisitAssignment(n *criteria.AssignmentNode) string { return "assign" }
func (sv StubVisitor) VisitExists(n *criteria.ExistsNode) string         { return "exists" }
func (sv StubVisitor) VisitSelect(n *criteria.SelectQuery) string        { return "select" }
func (sv StubVisitor) VisitSubquery(n *criteria.Subquery) string         { return "subquery" }
func (sv StubVisitor) VisitDelete(n *criteria.DeleteQuery) string        { return "delete" }
func (sv StubVisitor) VisitUpdate(n *criteria.UpdateQuery) string        { return "update" }

// StubParamVisitor implements criteria.Visitor and criteria.Parameterizer
// for testing.
type StubParamVisitor struct {
	StubVisitor
	params []any
}

var _ criteria.Visitor = (*StubParamVisitor)(nil)
var _ criteria.Parameterizer = (*StubParamVisitor)(nil)

func (sv *StubParamVisitor) Params() []any { return sv.params }
func (sv *StubParamVisitor) Reset()        { sv.params = nil }
