package criteria

// AggregateFunc identifies a SQL aggregate function.
type AggregateFunc int

const (
	AggCount AggregateFunc = iota
	AggSum
	AggAvg
	AggMin
	AggMax
)

// AggregateNode represents an aggregate function call. A nil Expr renders
// as COUNT(*)-style star argument.
type AggregateNode struct {
	Predications
	Combinable
	Func     AggregateFunc
	Expr     Node
	Distinct bool
}

func newAggregate(fn AggregateFunc, expr Node) *AggregateNode {
	n := &AggregateNode{Func: fn, Expr: expr}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *AggregateNode) Accept(v Visitor) string { return v.VisitAggregate(n) }

// CountDistinct creates a COUNT(DISTINCT expr) aggregate.
func CountDistinct(expr Node) *AggregateNode {
	n := newAggregate(AggCount, expr)
	n.Distinct = true
	return n
}

// Count creates a COUNT(expr) aggregate. Pass nil for COUNT(*).
func Count(expr Node) *AggregateNode { return newAggregate(AggCount, expr) }

// Sum creates a SUM(expr) aggregate.
func Sum(expr Node) *AggregateNode { return newAggregate(AggSum, expr) }

// Avg creates an AVG(expr) aggregate.
func Avg(expr Node) *AggregateNode { return newAggregate(AggAvg, expr) }

// Min creates a MIN(expr) aggregate.
func Min(expr Node) *AggregateNode { return newAggregate(AggMin, expr) }

// Max creates a MAX(expr) aggregate.
func Max(expr Node) *AggregateNode { return newAggregate(AggMax, expr) }
