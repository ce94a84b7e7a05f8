// Package streams implements a fluent, immutable query builder. Each
// fluent call returns a new stream node whose configurer wraps the
// previous one; no work happens until a terminal build runs the full
// chain against a fresh builder and query context. Streams are safe to
// reuse as templates: the original node stays valid after every call.
package streams

import (
	"fmt"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// Configurer applies one increment of configuration to the query under
// construction and returns the current selection. Configurers compose by
// wrapping: the oldest configuration runs first and each newer wrapper
// runs after it, so restrictions, groupings, and orderings land on the
// query context in the order the fluent calls were written.
type Configurer[S criteria.Node] func(qb *criteria.Builder, q criteria.Query) (S, error)

// Stream is an immutable query builder node parameterized over the type
// of its current selection. It holds the session handle, the query-kind
// descriptor, the composed configurer, and offset/limit state. Every
// fluent method returns a new node; the receiver is never modified.
//
// A chain-state violation (nil argument, restructuring after Limit or
// Skip) does not panic: the violating call returns a stream carrying a
// sticky error, which every later call propagates and every terminal
// build reports. The node the violating call was made on is unaffected.
type Stream[S criteria.Node] struct {
	sess         *Session
	kind         QueryKind
	configure    Configurer[S]
	offset       int // -1 = unset
	limit        int // -1 = unset
	transformers []plugins.Transformer
	err          error
}

func newStream[S criteria.Node](sess *Session, kind QueryKind, configure Configurer[S]) Stream[S] {
	return Stream[S]{
		sess:      sess,
		kind:      kind,
		configure: configure,
		offset:    -1,
		limit:     -1,
	}
}

// fail returns a copy of the stream carrying err.
func (s Stream[S]) fail(err error) Stream[S] {
	next := s
	next.err = err
	return next
}

// withConfig returns a copy of the stream with a replacement configurer.
func (s Stream[S]) withConfig(c Configurer[S]) Stream[S] {
	next := s
	next.configure = c
	return next
}

// restructureErr reports whether op is still permitted: once offset or
// limit is set, no restructuring call may follow on that node or its
// descendants.
func (s Stream[S]) restructureErr(op string) error {
	if s.offset >= 0 || s.limit >= 0 {
		return fmt.Errorf("%w: %s after Skip or Limit", ErrUnsupportedCombination, op)
	}
	return nil
}

// compose wraps prev so that extra runs against its selection.
func compose[S criteria.Node](prev Configurer[S], extra func(qb *criteria.Builder, q criteria.Query, sel S) (S, error)) Configurer[S] {
	return func(qb *criteria.Builder, q criteria.Query) (S, error) {
		sel, err := prev(qb, q)
		if err != nil {
			var zero S
			return zero, err
		}
		return extra(qb, q, sel)
	}
}

// filter conjoins the predicate produced by fn with the query's existing
// restriction. Multiple filters accumulate as an order-preserving AND.
func (s Stream[S]) filter(fn func(S) criteria.Node) Stream[S] {
	if s.err != nil {
		return s
	}
	if err := s.restructureErr("Filter"); err != nil {
		return s.fail(err)
	}
	if fn == nil {
		return s.fail(fmt.Errorf("%w: Filter requires a predicate function", ErrInvalidArgument))
	}
	return s.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		pred := fn(sel)
		if pred == nil {
			var zero S
			return zero, fmt.Errorf("%w: Filter predicate is nil", ErrInvalidArgument)
		}
		s.kind.Restrict(q, pred)
		return sel, nil
	}))
}

// filterBy restricts on a boolean column of the current selection being
// true. Sugar for filter with a column-reading predicate.
func (s Stream[S]) filterBy(column string) Stream[S] {
	if s.err != nil {
		return s
	}
	if err := s.restructureErr("FilterBy"); err != nil {
		return s.fail(err)
	}
	if column == "" {
		return s.fail(fmt.Errorf("%w: FilterBy requires a column name", ErrInvalidArgument))
	}
	return s.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		rel, ok := any(sel).(interface {
			Col(string) *criteria.Attribute
		})
		if !ok {
			var zero S
			return zero, fmt.Errorf("%w: FilterBy needs a relation selection, have %T", ErrInvalidArgument, sel)
		}
		s.kind.Restrict(q, rel.Col(column).Eq(true))
		return sel, nil
	}))
}

// peek calls fn with the current selection at build time, passing the
// selection through unchanged.
func (s Stream[S]) peek(fn func(S)) Stream[S] {
	if s.err != nil {
		return s
	}
	if fn == nil {
		return s.fail(fmt.Errorf("%w: Peek requires a function", ErrInvalidArgument))
	}
	return s.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		fn(sel)
		return sel, nil
	}))
}

// bind captures the current selection in ref at build time. The write-once
// contract means a second build of the same chain, or any other binding of
// the same ref, fails with ErrAlreadyBound.
func (s Stream[S]) bind(ref *Ref[S]) Stream[S] {
	if s.err != nil {
		return s
	}
	if ref == nil {
		return s.fail(fmt.Errorf("%w: Bind requires a ref", ErrInvalidArgument))
	}
	if ref.IsBound() {
		return s.fail(fmt.Errorf("%w: Bind given a ref that is already bound", ErrAlreadyBound))
	}
	return s.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		if err := ref.Bind(sel); err != nil {
			var zero S
			return zero, err
		}
		return sel, nil
	}))
}

// limitTo caps the row count. Limits accumulate as a minimum:
// Limit(a).Limit(b) is Limit(min(a, b)).
func (s Stream[S]) limitTo(n int) Stream[S] {
	if s.err != nil {
		return s
	}
	if n < 0 {
		return s.fail(fmt.Errorf("%w: Limit(%d)", ErrInvalidArgument, n))
	}
	next := s
	if next.limit >= 0 {
		next.limit = min(next.limit, n)
	} else {
		next.limit = n
	}
	return next
}

// skipBy advances the row offset. Offsets accumulate additively:
// Skip(a).Skip(b) is Skip(a+b).
func (s Stream[S]) skipBy(n int) Stream[S] {
	if s.err != nil {
		return s
	}
	if n < 0 {
		return s.fail(fmt.Errorf("%w: Skip(%d)", ErrInvalidArgument, n))
	}
	next := s
	if next.offset >= 0 {
		next.offset += n
	} else {
		next.offset = n
	}
	return next
}

// use registers a transformer to run at materialization time.
func (s Stream[S]) use(t plugins.Transformer) Stream[S] {
	if s.err != nil {
		return s
	}
	if t == nil {
		return s.fail(fmt.Errorf("%w: Use requires a transformer", ErrInvalidArgument))
	}
	next := s
	next.transformers = append(append([]plugins.Transformer(nil), s.transformers...), t)
	return next
}

// Filter returns a stream that conjoins fn's predicate with the query's
// restriction. Filters accumulate in call order as an AND chain.
func (s *Stream[S]) Filter(fn func(S) criteria.Node) *Stream[S] {
	next := s.filter(fn)
	return &next
}

// FilterBy returns a stream restricted to rows where the named boolean
// column of the current selection is true.
func (s *Stream[S]) FilterBy(column string) *Stream[S] {
	next := s.filterBy(column)
	return &next
}

// Peek returns a stream that calls fn with the current selection during
// the terminal build, leaving the selection unchanged.
func (s *Stream[S]) Peek(fn func(S)) *Stream[S] {
	next := s.peek(fn)
	return &next
}

// Bind returns a stream that captures its selection in ref at build time.
func (s *Stream[S]) Bind(ref *Ref[S]) *Stream[S] {
	next := s.bind(ref)
	return &next
}

// Limit returns a stream capped to n rows.
func (s *Stream[S]) Limit(n int) *Stream[S] {
	next := s.limitTo(n)
	return &next
}

// Skip returns a stream whose results start n rows in.
func (s *Stream[S]) Skip(n int) *Stream[S] {
	next := s.skipBy(n)
	return &next
}

// Use returns a stream with t registered as a materialization-time
// transformer.
func (s *Stream[S]) Use(t plugins.Transformer) *Stream[S] {
	next := s.use(t)
	return &next
}

// Err returns the sticky chain error, if any. A stream with a non-nil
// Err fails every terminal build with that error.
func (s *Stream[S]) Err() error {
	return s.err
}

// QueryKind returns the stream's query-kind descriptor.
func (s *Stream[S]) QueryKind() QueryKind {
	return s.kind
}

// FirstResult returns the accumulated row offset, or -1 if unset.
func (s *Stream[S]) FirstResult() int {
	return s.offset
}

// MaxResults returns the accumulated row limit, or -1 if unset.
func (s *Stream[S]) MaxResults() int {
	return s.limit
}

// ToQuery runs the full configurer chain against a fresh builder and
// query context and returns the compiled context. The stream itself is
// read-only during the build and stays reusable afterward.
func (s *Stream[S]) ToQuery() (criteria.Query, error) {
	if s.err != nil {
		return nil, s.err
	}
	qb := criteria.NewBuilder()
	q := s.kind.NewQuery(qb)
	err := qb.WithFrame(q, func() error {
		sel, err := s.configure(qb, q)
		if err != nil {
			return err
		}
		return s.kind.Select(q, sel)
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ToExec compiles the chain and wraps the result in an executable query,
// running transformers and applying offset and limit.
func (s *Stream[S]) ToExec() (*Exec, error) {
	q, err := s.ToQuery()
	if err != nil {
		return nil, err
	}
	if s.sess == nil {
		return nil, fmt.Errorf("%w: stream has no session", ErrInvalidArgument)
	}
	return s.kind.NewExec(s.sess, q, s.transformers, s.offset, s.limit)
}

// SQL compiles the chain and renders it with the session's dialect,
// returning the SQL text and collected bind parameters.
func (s *Stream[S]) SQL() (string, []any, error) {
	e, err := s.ToExec()
	if err != nil {
		return "", nil, err
	}
	return e.SQL()
}
