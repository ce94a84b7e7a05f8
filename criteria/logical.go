package criteria

// AndNode represents a logical AND between two expressions.
type AndNode struct {
	Combinable
	Left  Node
	Right Node
}

func (n *AndNode) Accept(v Visitor) string { return v.VisitAnd(n) }

// OrNode represents a logical OR between two expressions.
type OrNode struct {
	Combinable
	Left  Node
	Right Node
}

func (n *OrNode) Accept(v Visitor) string { return v.VisitOr(n) }

// NotNode represents a logical NOT of an expression.
type NotNode struct {
	Combinable
	Expr Node
}

func (n *NotNode) Accept(v Visitor) string { return v.VisitNot(n) }

// And combines two predicates with AND. Either side may be nil, in which
// case the other side is returned unchanged; this is what the restriction
// merge in the streams layer relies on for order-preserving conjunction.
func And(left, right Node) Node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	n := &AndNode{Left: left, Right: right}
	n.self = n
	return n
}

// Or combines two predicates with OR, wrapped for precedence.
func Or(left, right Node) Node {
	if left == nil {
		return right
	}
	if right == nil {
		return left
	}
	or := &OrNode{Left: left, Right: right}
	or.self = or
	g := &GroupingNode{Expr: or}
	g.self = g
	return g
}

// Not negates a predicate.
func Not(expr Node) *NotNode {
	n := &NotNode{Expr: expr}
	n.self = n
	return n
}
