package streams

import (
	"fmt"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// QueryKind describes how one kind of compiled query (select, bulk
// delete, bulk update) is created, restricted, projected, and turned
// into an executable. Streams call it only at terminal build time and
// inside the restriction-merge step of Filter.
type QueryKind interface {
	// Name identifies the kind in error messages.
	Name() string

	// NewQuery creates a fresh top-level query context for a terminal build.
	NewQuery(qb *criteria.Builder) criteria.Query

	// Restrict conjoins pred with the query's existing restriction,
	// preserving order: existing AND pred.
	Restrict(q criteria.Query, pred criteria.Node)

	// Select applies the final selection to the query context. A no-op
	// for kinds without a projection.
	Select(q criteria.Query, sel criteria.Node) error

	// NewExec turns a fully configured context into an executable query.
	// It works on a private clone: transformers run against the clone and
	// offset/limit (-1 = unset) are applied where the kind supports them,
	// so the stream's own context stays reusable.
	NewExec(sess *Session, q criteria.Query, ts []plugins.Transformer, offset, limit int) (*Exec, error)
}

// restrict conjoins pred into q's restriction. Shared by all kinds.
func restrict(q criteria.Query, pred criteria.Node) {
	q.SetRestriction(criteria.And(q.Restriction(), pred))
}

// SearchKind materializes select queries.
type SearchKind struct{}

func (SearchKind) Name() string { return "select" }

func (SearchKind) NewQuery(qb *criteria.Builder) criteria.Query {
	return criteria.NewSelectQuery()
}

func (SearchKind) Restrict(q criteria.Query, pred criteria.Node) {
	restrict(q, pred)
}

// Select designates the stream's final selection as the projection.
// Both top-level selects and subqueries accept one.
func (SearchKind) Select(q criteria.Query, sel criteria.Node) error {
	target, ok := q.(interface{ Select(criteria.Node) })
	if !ok {
		return fmt.Errorf("%w: %T does not accept a projection", ErrInvalidArgument, q)
	}
	if sel != nil {
		target.Select(sel)
	}
	return nil
}

func (SearchKind) NewExec(sess *Session, q criteria.Query, ts []plugins.Transformer, offset, limit int) (*Exec, error) {
	sel, ok := q.(*criteria.SelectQuery)
	if !ok {
		return nil, fmt.Errorf("%w: select kind got %T", ErrInvalidArgument, q)
	}
	clone := sel.Clone()
	for _, t := range ts {
		var err error
		clone, err = t.TransformSelect(clone)
		if err != nil {
			return nil, err
		}
	}
	if limit >= 0 {
		clone.Limit = criteria.Literal(limit)
	}
	if offset >= 0 {
		clone.Offset = criteria.Literal(offset)
	}
	return newExec(sess, clone), nil
}

// DeleteKind materializes bulk delete queries.
type DeleteKind struct{}

func (DeleteKind) Name() string { return "delete" }

func (DeleteKind) NewQuery(qb *criteria.Builder) criteria.Query {
	return criteria.NewDeleteQuery()
}

func (DeleteKind) Restrict(q criteria.Query, pred criteria.Node) {
	restrict(q, pred)
}

// Select is a no-op: delete queries have no projection.
func (DeleteKind) Select(q criteria.Query, sel criteria.Node) error {
	return nil
}

func (DeleteKind) NewExec(sess *Session, q criteria.Query, ts []plugins.Transformer, offset, limit int) (*Exec, error) {
	if offset >= 0 || limit >= 0 {
		return nil, fmt.Errorf("%w: row offset and limit do not apply to bulk deletes", ErrUnsupportedCombination)
	}
	del, ok := q.(*criteria.DeleteQuery)
	if !ok {
		return nil, fmt.Errorf("%w: delete kind got %T", ErrInvalidArgument, q)
	}
	clone := del.Clone()
	for _, t := range ts {
		var err error
		clone, err = t.TransformDelete(clone)
		if err != nil {
			return nil, err
		}
	}
	return newExec(sess, clone), nil
}

// UpdateKind materializes bulk update queries.
type UpdateKind struct{}

func (UpdateKind) Name() string { return "update" }

func (UpdateKind) NewQuery(qb *criteria.Builder) criteria.Query {
	return criteria.NewUpdateQuery()
}

func (UpdateKind) Restrict(q criteria.Query, pred criteria.Node) {
	restrict(q, pred)
}

// Select is a no-op: update queries have no projection.
func (UpdateKind) Select(q criteria.Query, sel criteria.Node) error {
	return nil
}

func (UpdateKind) NewExec(sess *Session, q criteria.Query, ts []plugins.Transformer, offset, limit int) (*Exec, error) {
	if offset >= 0 || limit >= 0 {
		return nil, fmt.Errorf("%w: row offset and limit do not apply to bulk updates", ErrUnsupportedCombination)
	}
	upd, ok := q.(*criteria.UpdateQuery)
	if !ok {
		return nil, fmt.Errorf("%w: update kind got %T", ErrInvalidArgument, q)
	}
	clone := upd.Clone()
	for _, t := range ts {
		var err error
		clone, err = t.TransformUpdate(clone)
		if err != nil {
			return nil, err
		}
	}
	return newExec(sess, clone), nil
}
