package plugins

import "github.com/bawdo/streamql/criteria"

// TableRef holds a reference to a query root and its underlying table name.
// Relation is the node used to create column references, and Name is the
// underlying table name (for matching/filtering).
type TableRef struct {
	Relation criteria.Node // *criteria.Root
	Name     string        // underlying table name
}

// CollectRoots returns the roots a select query draws from. Correlated
// roots belong to an enclosing query and are skipped.
func CollectRoots(q *criteria.SelectQuery) []TableRef {
	var refs []TableRef
	for _, r := range q.Roots {
		if r.Correlated {
			continue
		}
		refs = append(refs, TableRef{Relation: r, Name: r.Table.Name})
	}
	return refs
}
