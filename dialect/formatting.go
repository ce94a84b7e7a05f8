package dialect

import (
	"strings"

	"github.com/bawdo/streamql/criteria"
)

// FormattingVisitor wraps a dialect visitor and produces human-readable
// multi-line SQL. VisitSelect, VisitDelete, and VisitUpdate are real
// implementations that render each major clause on its own line; all
// expression-level methods delegate to the wrapped visitor.
type FormattingVisitor struct {
	inner criteria.Visitor
}

var _ criteria.Visitor = (*FormattingVisitor)(nil)
var _ criteria.Parameterizer = (*FormattingVisitor)(nil)

// NewFormattingVisitor constructs a FormattingVisitor wrapping the given
// dialect visitor.
func NewFormattingVisitor(inner criteria.Visitor) *FormattingVisitor {
	if inner == nil {
		panic("streamql: FormattingVisitor requires a non-nil inner visitor")
	}
	return &FormattingVisitor{inner: inner}
}

// Params delegates to the inner visitor if it implements
// criteria.Parameterizer, otherwise returns nil.
func (f *FormattingVisitor) Params() []any {
	if p, ok := f.inner.(criteria.Parameterizer); ok {
		return p.Params()
	}
	return nil
}

// Reset delegates to the inner visitor if it implements criteria.Parameterizer.
func (f *FormattingVisitor) Reset() {
	if p, ok := f.inner.(criteria.Parameterizer); ok {
		p.Reset()
	}
}

// --- Delegation methods for expression-level criteria.Visitor methods ---

func (f *FormattingVisitor) VisitTable(n *criteria.Table) string {
	return f.inner.VisitTable(n)
}

func (f *FormattingVisitor) VisitRoot(n *criteria.Root) string {
	return f.inner.VisitRoot(n)
}

func (f *FormattingVisitor) VisitAttribute(n *criteria.Attribute) string {
	return f.inner.VisitAttribute(n)
}

func (f *FormattingVisitor) VisitLiteral(n *criteria.LiteralNode) string {
	return f.inner.VisitLiteral(n)
}

func (f *FormattingVisitor) VisitBindParam(n *criteria.BindParamNode) string {
	return f.inner.VisitBindParam(n)
}

func (f *FormattingVisitor) VisitSQLLiteral(n *criteria.SQLLiteral) string {
	return f.inner.VisitSQLLiteral(n)
}

func (f *FormattingVisitor) VisitStar(n *criteria.StarNode) string {
	return f.inner.VisitStar(n)
}

func (f *FormattingVisitor) VisitComparison(n *criteria.ComparisonNode) string {
	return f.inner.VisitComparison(n)
}

func (f *FormattingVisitor) VisitUnary(n *criteria.UnaryNode) string {
	return f.inner.VisitUnary(n)
}

func (f *FormattingVisitor) VisitAnd(n *criteria.AndNode) string {
	return f.inner.VisitAnd(n)
}

func (f *FormattingVisitor) VisitOr(n *criteria.OrNode) string {
	return f.inner.VisitOr(n)
}

func (f *FormattingVisitor) VisitNot(n *criteria.NotNode) string {
	return f.inner.VisitNot(n)
}

func (f *FormattingVisitor) VisitIn(n *criteria.InNode) string {
	return f.inner.VisitIn(n)
}

func (f *FormattingVisitor) VisitBetween(n *criteria.BetweenNode) string {
	return f.inner.VisitBetween(n)
}

func (f *FormattingVisitor) VisitGrouping(n *criteria.GroupingNode) string {
	return f.inner.VisitGrouping(n)
}

func (f *FormattingVisitor) VisitOrdering(n *criteria.OrderingNode) string {
	return f.inner.VisitOrdering(n)
}

func (f *FormattingVisitor) VisitAggregate(n *criteria.AggregateNode) string {
	return f.inner.VisitAggregate(n)
}

func (f *FormattingVisitor) VisitAlias(n *criteria.AliasNode) string {
	return f.inner.VisitAlias(n)
}

func (f *FormattingVisitor) VisitAssignment(n *criteria.AssignmentNode) string {
	return f.inner.VisitAssignment(n)
}

func (f *FormattingVisitor) VisitExists(n *criteria.ExistsNode) string {
	return f.inner.VisitExists(n)
}

// --- Structural overrides ---

// VisitSelect renders a SELECT statement in multi-line formatted style.
// Projections use leading-comma continuation; all major clauses begin on a
// new line. Child expressions are rendered via f.inner (dialect-specific).
func (f *FormattingVisitor) VisitSelect(n *criteria.SelectQuery) string {
	var sb strings.Builder

	sb.WriteString("SELECT")
	if n.Distinct {
		sb.WriteString(" DISTINCT")
	}

	if len(n.Projections) == 0 {
		sb.WriteString(" *")
	} else {
		sb.WriteString(" ")
		sb.WriteString(f.renderProjection(n.Projections[0]))
		for _, p := range n.Projections[1:] {
			sb.WriteString("\n\t,")
			sb.WriteString(f.renderProjection(p))
		}
	}

	var froms []string
	for _, r := range n.Roots {
		if r.Correlated {
			continue
		}
		froms = append(froms, r.Accept(f.inner))
	}
	if len(froms) > 0 {
		sb.WriteString("\nFROM ")
		sb.WriteString(strings.Join(froms, ", "))
	}

	if n.Where != nil {
		sb.WriteString("\nWHERE ")
		sb.WriteString(n.Where.Accept(f.inner))
	}

	if len(n.Groups) > 0 {
		sb.WriteString("\nGROUP BY ")
		sb.WriteString(n.Groups[0].Accept(f.inner))
		for _, g := range n.Groups[1:] {
			sb.WriteString("\n\t,")
			sb.WriteString(g.Accept(f.inner))
		}
	}

	if n.Having != nil {
		sb.WriteString("\nHAVING ")
		sb.WriteString(n.Having.Accept(f.inner))
	}

	if len(n.Orders) > 0 {
		sb.WriteString("\nORDER BY ")
		sb.WriteString(n.Orders[0].Accept(f.inner))
		for _, o := range n.Orders[1:] {
			sb.WriteString("\n\t,")
			sb.WriteString(o.Accept(f.inner))
		}
	}

	if n.Limit != nil {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(n.Limit.Accept(f.inner))
	}

	if n.Offset != nil {
		sb.WriteString("\nOFFSET ")
		sb.WriteString(n.Offset.Accept(f.inner))
	}

	return sb.String()
}

// VisitSubquery renders the subquery as a formatted select. Enclosing
// predicates supply the parentheses.
func (f *FormattingVisitor) VisitSubquery(n *criteria.Subquery) string {
	return f.VisitSelect(&n.SelectQuery)
}

// VisitDelete renders DELETE FROM with each clause on its own line.
func (f *FormattingVisitor) VisitDelete(n *criteria.DeleteQuery) string {
	var sb strings.Builder
	sb.WriteString("DELETE FROM ")
	if n.Target != nil {
		sb.WriteString(n.Target.Accept(f.inner))
	}
	if n.Where != nil {
		sb.WriteString("\nWHERE ")
		sb.WriteString(n.Where.Accept(f.inner))
	}
	return sb.String()
}

// VisitUpdate renders UPDATE with each clause on its own line and
// leading-comma style for multiple SET assignments.
func (f *FormattingVisitor) VisitUpdate(n *criteria.UpdateQuery) string {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	if n.Target != nil {
		sb.WriteString(n.Target.Accept(f.inner))
	}

	if len(n.Assignments) > 0 {
		sb.WriteString("\nSET ")
		for i, a := range n.Assignments {
			if i == 0 {
				sb.WriteString(a.Accept(f.inner))
			} else {
				sb.WriteString("\n\t,")
				sb.WriteString(a.Accept(f.inner))
			}
		}
	}

	if n.Where != nil {
		sb.WriteString("\nWHERE ")
		sb.WriteString(n.Where.Accept(f.inner))
	}

	return sb.String()
}

func (f *FormattingVisitor) renderProjection(p criteria.Node) string {
	if root, ok := p.(*criteria.Root); ok {
		return root.Accept(f.inner) + ".*"
	}
	return p.Accept(f.inner)
}
