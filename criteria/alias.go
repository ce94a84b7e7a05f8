package criteria

// AliasNode represents "expr AS name" in a projection list.
type AliasNode struct {
	Expr Node
	Name string
}

// NewAliasNode creates an AliasNode for the given expression.
func NewAliasNode(expr Node, name string) *AliasNode {
	return &AliasNode{Expr: expr, Name: name}
}

func (n *AliasNode) Accept(v Visitor) string { return v.VisitAlias(n) }

// ExistsNode represents an EXISTS or NOT EXISTS subquery predicate.
type ExistsNode struct {
	Combinable
	Subquery *Subquery
	Negated  bool
}

func (n *ExistsNode) Accept(v Visitor) string { return v.VisitExists(n) }

// Exists creates an EXISTS(subquery) predicate.
func Exists(sub *Subquery) *ExistsNode {
	n := &ExistsNode{Subquery: sub}
	n.self = n
	return n
}

// NotExists creates a NOT EXISTS(subquery) predicate.
func NotExists(sub *Subquery) *ExistsNode {
	n := &ExistsNode{Subquery: sub, Negated: true}
	n.self = n
	return n
}
