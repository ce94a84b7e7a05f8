package criteria

// LiteralNode wraps a raw Go value. In parameterized mode the dialect
// visitors replace it with a bind placeholder.
type LiteralNode struct {
	Predications
	Combinable
	Value any
}

func (n *LiteralNode) Accept(v Visitor) string { return v.VisitLiteral(n) }

// BindParamNode represents an explicit bind placeholder whose value is
// always collected as a parameter, regardless of visitor mode.
type BindParamNode struct {
	Predications
	Combinable
	Value any
}

// NewBindParam creates a BindParamNode for the given value.
func NewBindParam(value any) *BindParamNode {
	n := &BindParamNode{Value: value}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *BindParamNode) Accept(v Visitor) string { return v.VisitBindParam(n) }

// SQLLiteral injects a raw SQL fragment verbatim.
//
// SECURITY: The raw string is emitted without quoting or escaping.
// Never pass user-controlled input to this node.
type SQLLiteral struct {
	Predications
	Combinable
	Raw string
}

// Raw creates a SQLLiteral for a trusted SQL fragment.
func Raw(sql string) *SQLLiteral {
	n := &SQLLiteral{Raw: sql}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *SQLLiteral) Accept(v Visitor) string { return v.VisitSQLLiteral(n) }
