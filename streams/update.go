package streams

import (
	"context"
	"fmt"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// UpdateStream is a Stream over a bulk update query. Its selection is the
// update target root. Row offset and limit do not apply to bulk updates.
type UpdateStream struct {
	Stream[*criteria.Root]
}

// Update starts a bulk update stream over the given table. At least one
// Set or SetExpr call is needed before the query is meaningful.
func Update(sess *Session, table *criteria.Table) *UpdateStream {
	if table == nil {
		return &UpdateStream{newStream[*criteria.Root](sess, UpdateKind{}, nil).
			fail(fmt.Errorf("%w: Update requires a table", ErrInvalidArgument))}
	}
	return &UpdateStream{newStream(sess, UpdateKind{}, func(qb *criteria.Builder, q criteria.Query) (*criteria.Root, error) {
		return q.From(table), nil
	})}
}

// Set appends a column assignment. val may be a raw Go value or a
// criteria.Node.
func (s *UpdateStream) Set(column string, val any) *UpdateStream {
	if s.err != nil {
		return s
	}
	if column == "" {
		return &UpdateStream{s.Stream.fail(fmt.Errorf("%w: Set requires a column name", ErrInvalidArgument))}
	}
	return &UpdateStream{s.Stream.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel *criteria.Root) (*criteria.Root, error) {
		upd, ok := q.(*criteria.UpdateQuery)
		if !ok {
			return nil, fmt.Errorf("%w: Set on %T", ErrInvalidArgument, q)
		}
		upd.Set(sel.Col(column), val)
		return sel, nil
	}))}
}

// SetExpr appends a column assignment whose value is an expression built
// from the target root, for example another column or an aggregate.
func (s *UpdateStream) SetExpr(column string, fn func(*criteria.Root) criteria.Node) *UpdateStream {
	if s.err != nil {
		return s
	}
	if column == "" || fn == nil {
		return &UpdateStream{s.Stream.fail(fmt.Errorf("%w: SetExpr requires a column name and a function", ErrInvalidArgument))}
	}
	return &UpdateStream{s.Stream.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel *criteria.Root) (*criteria.Root, error) {
		upd, ok := q.(*criteria.UpdateQuery)
		if !ok {
			return nil, fmt.Errorf("%w: SetExpr on %T", ErrInvalidArgument, q)
		}
		expr := fn(sel)
		if expr == nil {
			return nil, fmt.Errorf("%w: SetExpr expression is nil", ErrInvalidArgument)
		}
		upd.Set(sel.Col(column), expr)
		return sel, nil
	}))}
}

// Execute materializes and runs the update, returning the number of rows
// changed.
func (s *UpdateStream) Execute(ctx context.Context) (int64, error) {
	e, err := s.ToExec()
	if err != nil {
		return 0, err
	}
	res, err := e.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- Narrowing overrides: keep chains typed as UpdateStream ---

func (s *UpdateStream) Filter(fn func(*criteria.Root) criteria.Node) *UpdateStream {
	return &UpdateStream{s.Stream.filter(fn)}
}

func (s *UpdateStream) FilterBy(column string) *UpdateStream {
	return &UpdateStream{s.Stream.filterBy(column)}
}

func (s *UpdateStream) Peek(fn func(*criteria.Root)) *UpdateStream {
	return &UpdateStream{s.Stream.peek(fn)}
}

func (s *UpdateStream) Bind(ref *Ref[*criteria.Root]) *UpdateStream {
	return &UpdateStream{s.Stream.bind(ref)}
}

func (s *UpdateStream) Use(t plugins.Transformer) *UpdateStream {
	return &UpdateStream{s.Stream.use(t)}
}
