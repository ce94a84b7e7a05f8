package criteria

// OrderDirection represents ASC or DESC ordering.
type OrderDirection int

const (
	Asc OrderDirection = iota
	Desc
)

// OrderingNode represents an ORDER BY expression with a direction.
type OrderingNode struct {
	Combinable
	Expr      Node
	Direction OrderDirection
}

func (n *OrderingNode) Accept(v Visitor) string { return v.VisitOrdering(n) }

// Order creates an ordering node over expr. asc selects the direction.
func Order(expr Node, asc bool) *OrderingNode {
	dir := Desc
	if asc {
		dir = Asc
	}
	n := &OrderingNode{Expr: expr, Direction: dir}
	n.self = n
	return n
}
