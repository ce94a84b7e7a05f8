package streams

import (
	"context"
	"fmt"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// DeleteStream is a Stream over a bulk delete query. Its selection is the
// delete target root. Row offset and limit do not apply to bulk deletes.
type DeleteStream struct {
	Stream[*criteria.Root]
}

// DeleteFrom starts a bulk delete stream over the given table.
func DeleteFrom(sess *Session, table *criteria.Table) *DeleteStream {
	if table == nil {
		return &DeleteStream{newStream[*criteria.Root](sess, DeleteKind{}, nil).
			fail(fmt.Errorf("%w: DeleteFrom requires a table", ErrInvalidArgument))}
	}
	return &DeleteStream{newStream(sess, DeleteKind{}, func(qb *criteria.Builder, q criteria.Query) (*criteria.Root, error) {
		return q.From(table), nil
	})}
}

// Execute materializes and runs the delete, returning the number of rows
// removed.
func (s *DeleteStream) Execute(ctx context.Context) (int64, error) {
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

// --- Narrowing overrides: keep chains typed as DeleteStream ---

func (s *DeleteStream) Filter(fn func(*criteria.Root) criteria.Node) *DeleteStream {
	return &DeleteStream{s.Stream.filter(fn)}
}

func (s *DeleteStream) FilterBy(column string) *DeleteStream {
	return &DeleteStream{s.Stream.filterBy(column)}
}

func (s *DeleteStream) Peek(fn func(*criteria.Root)) *DeleteStream {
	return &DeleteStream{s.Stream.peek(fn)}
}

func (s *DeleteStream) Bind(ref *Ref[*criteria.Root]) *DeleteStream {
	return &DeleteStream{s.Stream.bind(ref)}
}

func (s *DeleteStream) Use(t plugins.Transformer) *DeleteStream {
	return &DeleteStream{s.Stream.use(t)}
}
