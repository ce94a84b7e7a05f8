package criteria

// Table represents a table the query model can draw rows from.
type Table struct {
	Name string
}

func NewTable(name string) *Table {
	return &Table{Name: name}
}

func (t *Table) Accept(v Visitor) string { return v.VisitTable(t) }

// Col creates an Attribute (column reference) bound to this table.
func (t *Table) Col(name string) *Attribute {
	return NewAttribute(t, name)
}

// Star creates a qualified star (table.*) for this table.
func (t *Table) Star() *StarNode {
	return &StarNode{Table: t}
}

// Root is a query root: a table brought into a query context's FROM clause.
// It is the selection produced by the initial configurer of a root stream.
// A correlated root references an enclosing query's root and is not rendered
// in the FROM clause of the subquery that holds it.
type Root struct {
	Predications
	Combinable
	Table      *Table
	Correlated bool
}

func newRoot(t *Table) *Root {
	r := &Root{Table: t}
	r.Predications.self = r
	r.Combinable.self = r
	return r
}

func (r *Root) Accept(v Visitor) string { return v.VisitRoot(r) }

// Col creates an Attribute (column reference) bound to this root.
func (r *Root) Col(name string) *Attribute {
	return NewAttribute(r, name)
}

// RelationName returns the name used to qualify column references bound to
// a relation node. Roots qualify by their underlying table name.
func RelationName(n Node) string {
	switch r := n.(type) {
	case *Table:
		return r.Name
	case *Root:
		return r.Table.Name
	default:
		return ""
	}
}
