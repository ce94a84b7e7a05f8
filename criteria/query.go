package criteria

// Query is the in-progress query context a stream configurer mutates.
// Concrete contexts are *SelectQuery, *Subquery, *DeleteQuery and
// *UpdateQuery. The streams layer distinguishes them by runtime type;
// in particular a *Subquery marks nested-query position.
type Query interface {
	Node
	// Restriction returns the current WHERE predicate, nil when unrestricted.
	Restriction() Node
	// SetRestriction replaces the WHERE predicate. Restriction merging
	// (order-preserving conjunction) is the caller's responsibility.
	SetRestriction(pred Node)
	// From adds the given table as a query root and returns the root.
	From(t *Table) *Root
	// Subquery creates a nested select context attached to this query.
	Subquery() *Subquery
}

// SelectQuery is the top-level select context.
type SelectQuery struct {
	Roots       []*Root
	Projections []Node
	Where       Node
	Groups      []Node
	Having      Node
	Orders      []Node
	Distinct    bool
	Limit       Node // nil or LiteralNode, set at materialization
	Offset      Node // nil or LiteralNode, set at materialization
}

// NewSelectQuery creates an empty select context.
func NewSelectQuery() *SelectQuery {
	return &SelectQuery{}
}

func (q *SelectQuery) Accept(v Visitor) string { return v.VisitSelect(q) }

func (q *SelectQuery) Restriction() Node { return q.Where }

func (q *SelectQuery) SetRestriction(pred Node) { q.Where = pred }

// From adds a root for the given table and returns it.
func (q *SelectQuery) From(t *Table) *Root {
	r := newRoot(t)
	q.Roots = append(q.Roots, r)
	return r
}

// Select designates the projection, replacing any previous one.
func (q *SelectQuery) Select(sel Node) {
	q.Projections = []Node{sel}
}

// GroupBy replaces the group-by expression list.
func (q *SelectQuery) GroupBy(exprs ...Node) {
	q.Groups = exprs
}

// SetHaving replaces the HAVING predicate.
func (q *SelectQuery) SetHaving(pred Node) {
	q.Having = pred
}

// OrderBy replaces the ordering list.
func (q *SelectQuery) OrderBy(orders ...Node) {
	q.Orders = orders
}

// SetDistinct sets or clears the DISTINCT flag. Setting it twice is a no-op.
func (q *SelectQuery) SetDistinct(on bool) {
	q.Distinct = on
}

// Subquery creates a nested select context whose parent is this query.
func (q *SelectQuery) Subquery() *Subquery {
	return &Subquery{parent: q}
}

// Clone returns a shallow copy with its own slices, so transformers and
// bound-row application can modify it without touching the original.
func (q *SelectQuery) Clone() *SelectQuery {
	c := *q
	c.Roots = append([]*Root(nil), q.Roots...)
	c.Projections = append([]Node(nil), q.Projections...)
	c.Groups = append([]Node(nil), q.Groups...)
	c.Orders = append([]Node(nil), q.Orders...)
	return &c
}

// Subquery is a select context in nested-query position. It shares the
// select structure and adds the link to its enclosing context.
type Subquery struct {
	SelectQuery
	parent Query
}

func (q *Subquery) Accept(v Visitor) string { return v.VisitSubquery(q) }

// Parent returns the enclosing query context.
func (q *Subquery) Parent() Query { return q.parent }

// Subquery creates a further nested context whose parent is this subquery.
func (q *Subquery) Subquery() *Subquery {
	return &Subquery{parent: q}
}

// Correlate returns a root referencing the given root of an enclosing
// query. The correlated root is recorded on this subquery but excluded
// from its FROM clause; its column references resolve against the outer
// query.
func (q *Subquery) Correlate(outer *Root) *Root {
	r := newRoot(outer.Table)
	r.Correlated = true
	q.Roots = append(q.Roots, r)
	return r
}

// DeleteQuery is the bulk-delete context. Its single root is the delete
// target; From replaces it.
type DeleteQuery struct {
	Target *Root
	Where  Node
}

// NewDeleteQuery creates an empty delete context.
func NewDeleteQuery() *DeleteQuery {
	return &DeleteQuery{}
}

func (q *DeleteQuery) Accept(v Visitor) string { return v.VisitDelete(q) }

func (q *DeleteQuery) Restriction() Node { return q.Where }

func (q *DeleteQuery) SetRestriction(pred Node) { q.Where = pred }

func (q *DeleteQuery) From(t *Table) *Root {
	q.Target = newRoot(t)
	return q.Target
}

func (q *DeleteQuery) Subquery() *Subquery {
	return &Subquery{parent: q}
}

// Clone returns a shallow copy of the delete context.
func (q *DeleteQuery) Clone() *DeleteQuery {
	c := *q
	return &c
}

// AssignmentNode represents a column = value pair in an UPDATE SET clause.
type AssignmentNode struct {
	Left  Node // column (*Attribute)
	Right Node // value
}

func (n *AssignmentNode) Accept(v Visitor) string { return v.VisitAssignment(n) }

// UpdateQuery is the bulk-update context. Its single root is the update
// target; From replaces it.
type UpdateQuery struct {
	Target      *Root
	Assignments []*AssignmentNode
	Where       Node
}

// NewUpdateQuery creates an empty update context.
func NewUpdateQuery() *UpdateQuery {
	return &UpdateQuery{}
}

func (q *UpdateQuery) Accept(v Visitor) string { return v.VisitUpdate(q) }

func (q *UpdateQuery) Restriction() Node { return q.Where }

func (q *UpdateQuery) SetRestriction(pred Node) { q.Where = pred }

func (q *UpdateQuery) From(t *Table) *Root {
	q.Target = newRoot(t)
	return q.Target
}

func (q *UpdateQuery) Subquery() *Subquery {
	return &Subquery{parent: q}
}

// Set appends a column assignment. val may be a raw Go value or a Node.
func (q *UpdateQuery) Set(col *Attribute, val any) {
	q.Assignments = append(q.Assignments, &AssignmentNode{
		Left:  col,
		Right: Literal(val),
	})
}

// Clone returns a shallow copy with its own assignment slice.
func (q *UpdateQuery) Clone() *UpdateQuery {
	c := *q
	c.Assignments = append([]*AssignmentNode(nil), q.Assignments...)
	return &c
}
