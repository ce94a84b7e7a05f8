package streams

import (
	"fmt"

	"github.com/bawdo/streamql/criteria"
	"github.com/bawdo/streamql/plugins"
)

// SearchStream is a Stream over a select query. It adds the select-only
// operations (projection mapping, distinct, ordering, grouping, having,
// extra roots) and subquery materialization, and narrows every inherited
// fluent method to return a SearchStream so chains keep their type.
type SearchStream[S criteria.Node] struct {
	Stream[S]
}

// RootStream is a SearchStream whose selection is a query root.
type RootStream = SearchStream[*criteria.Root]

// AttrStream is a SearchStream whose selection is a single column.
type AttrStream = SearchStream[*criteria.Attribute]

// ExprStream is a SearchStream over an arbitrary expression.
type ExprStream = SearchStream[criteria.Node]

// From starts a select stream over the given table. The stream's
// selection is the query root for the table.
func From(sess *Session, table *criteria.Table) *RootStream {
	if table == nil {
		return failedSearch[*criteria.Root](sess, fmt.Errorf("%w: From requires a table", ErrInvalidArgument))
	}
	return &RootStream{newStream(sess, SearchKind{}, func(qb *criteria.Builder, q criteria.Query) (*criteria.Root, error) {
		return q.From(table), nil
	})}
}

// CorrelatedFrom starts a select stream usable only in subquery position:
// its root references outer, a root of an enclosing query, and resolves
// against the enclosing query's FROM clause. Driving it as a top-level
// stream fails with ErrNotSubquery at build time.
func CorrelatedFrom(sess *Session, outer *criteria.Root) *RootStream {
	if outer == nil {
		return failedSearch[*criteria.Root](sess, fmt.Errorf("%w: CorrelatedFrom requires an outer root", ErrInvalidArgument))
	}
	return &RootStream{newStream(sess, SearchKind{}, func(qb *criteria.Builder, q criteria.Query) (*criteria.Root, error) {
		sub, err := qb.CurrentSubquery()
		if err != nil {
			return nil, err
		}
		return sub.Correlate(outer), nil
	})}
}

func failedSearch[S criteria.Node](sess *Session, err error) *SearchStream[S] {
	return &SearchStream[S]{newStream[S](sess, SearchKind{}, nil).fail(err)}
}

// Map derives a stream whose selection is fn applied to s's selection.
// Downstream calls configure the same query; only the selection, and so
// the final projection, changes.
func Map[S, T criteria.Node](s *SearchStream[S], fn func(S) T) *SearchStream[T] {
	next := SearchStream[T]{Stream[T]{
		sess:         s.sess,
		kind:         s.kind,
		offset:       s.offset,
		limit:        s.limit,
		transformers: s.transformers,
		err:          s.err,
	}}
	if next.err != nil {
		return &next
	}
	if fn == nil {
		next.err = fmt.Errorf("%w: Map requires a function", ErrInvalidArgument)
		return &next
	}
	prev := s.configure
	next.configure = func(qb *criteria.Builder, q criteria.Query) (T, error) {
		sel, err := prev(qb, q)
		if err != nil {
			var zero T
			return zero, err
		}
		return fn(sel), nil
	}
	return &next
}

// BindAs returns a stream that captures fn(selection) in ref at build
// time, letting the caller keep a derived sub-expression rather than the
// whole selection. The selection passes through unchanged.
func BindAs[S, T criteria.Node](s *SearchStream[S], ref *Ref[T], fn func(S) T) *SearchStream[S] {
	if s.err != nil {
		return s
	}
	if ref == nil || fn == nil {
		return &SearchStream[S]{s.Stream.fail(fmt.Errorf("%w: BindAs requires a ref and a function", ErrInvalidArgument))}
	}
	if ref.IsBound() {
		return &SearchStream[S]{s.Stream.fail(fmt.Errorf("%w: BindAs given a ref that is already bound", ErrAlreadyBound))}
	}
	return &SearchStream[S]{s.Stream.withConfig(compose(s.configure, func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		if err := ref.Bind(fn(sel)); err != nil {
			var zero S
			return zero, err
		}
		return sel, nil
	}))}
}

// topLevelSelect returns the query context as a top-level select, or the
// appropriate error when the chain is being built in subquery position.
func topLevelSelect(q criteria.Query, op string) (*criteria.SelectQuery, error) {
	if _, ok := q.(*criteria.Subquery); ok {
		return nil, fmt.Errorf("%w: %s requires a top-level query", ErrUnsupportedCombination, op)
	}
	sel, ok := q.(*criteria.SelectQuery)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %T", ErrInvalidArgument, op, q)
	}
	return sel, nil
}

// restructure applies extra as a restructuring step, enforcing the
// offset/limit lock before composing.
func (s SearchStream[S]) restructure(op string, extra func(qb *criteria.Builder, q criteria.Query, sel S) (S, error)) SearchStream[S] {
	if s.err != nil {
		return s
	}
	if err := s.restructureErr(op); err != nil {
		return SearchStream[S]{s.Stream.fail(err)}
	}
	return SearchStream[S]{s.Stream.withConfig(compose(s.configure, extra))}
}

// Distinct returns a stream whose query eliminates duplicate rows.
// Calling it twice is a no-op.
func (s *SearchStream[S]) Distinct() *SearchStream[S] {
	next := s.restructure("Distinct", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, ok := q.(interface{ SetDistinct(bool) })
		if !ok {
			var zero S
			return zero, fmt.Errorf("%w: Distinct on %T", ErrInvalidArgument, q)
		}
		target.SetDistinct(true)
		return sel, nil
	})
	return &next
}

// OrderBy returns a stream ordered by fn's expression, replacing any
// previous ordering. Ordering applies only to top-level queries.
func (s *SearchStream[S]) OrderBy(fn func(S) criteria.Node, asc bool) *SearchStream[S] {
	if fn == nil {
		return s.failWith(fmt.Errorf("%w: OrderBy requires a function", ErrInvalidArgument))
	}
	next := s.restructure("OrderBy", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "sorting")
		if err != nil {
			var zero S
			return zero, err
		}
		expr := fn(sel)
		if expr == nil {
			var zero S
			return zero, fmt.Errorf("%w: OrderBy expression is nil", ErrInvalidArgument)
		}
		target.OrderBy(criteria.Order(expr, asc))
		return sel, nil
	})
	return &next
}

// OrderByAttr orders by a named column of the current selection.
func (s *SearchStream[S]) OrderByAttr(column string, asc bool) *SearchStream[S] {
	if column == "" {
		return s.failWith(fmt.Errorf("%w: OrderByAttr requires a column name", ErrInvalidArgument))
	}
	return s.OrderBy(func(sel S) criteria.Node {
		rel, ok := any(sel).(interface {
			Col(string) *criteria.Attribute
		})
		if !ok {
			return nil
		}
		return rel.Col(column)
	}, asc)
}

// OrderByRef orders by the expression a Ref resolves to. The ref must be
// bound by the time this chain's ordering step runs, normally by an
// earlier step of the same build.
func (s *SearchStream[S]) OrderByRef(ref NodeRef, asc bool) *SearchStream[S] {
	if ref == nil {
		return s.failWith(fmt.Errorf("%w: OrderByRef requires a ref", ErrInvalidArgument))
	}
	next := s.restructure("OrderByRef", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "sorting")
		if err != nil {
			var zero S
			return zero, err
		}
		expr, err := ref.Node()
		if err != nil {
			var zero S
			return zero, err
		}
		target.OrderBy(criteria.Order(expr, asc))
		return sel, nil
	})
	return &next
}

// OrderByMulti replaces the ordering with the full list fn produces.
func (s *SearchStream[S]) OrderByMulti(fn func(S) []*criteria.OrderingNode) *SearchStream[S] {
	if fn == nil {
		return s.failWith(fmt.Errorf("%w: OrderByMulti requires a function", ErrInvalidArgument))
	}
	next := s.restructure("OrderByMulti", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "sorting")
		if err != nil {
			var zero S
			return zero, err
		}
		orders := fn(sel)
		nodes := make([]criteria.Node, len(orders))
		for i, o := range orders {
			nodes[i] = o
		}
		target.OrderBy(nodes...)
		return sel, nil
	})
	return &next
}

// ThenOrderBy appends a further ordering term instead of replacing the
// existing list.
func (s *SearchStream[S]) ThenOrderBy(fn func(S) criteria.Node, asc bool) *SearchStream[S] {
	if fn == nil {
		return s.failWith(fmt.Errorf("%w: ThenOrderBy requires a function", ErrInvalidArgument))
	}
	next := s.restructure("ThenOrderBy", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "sorting")
		if err != nil {
			var zero S
			return zero, err
		}
		expr := fn(sel)
		if expr == nil {
			var zero S
			return zero, fmt.Errorf("%w: ThenOrderBy expression is nil", ErrInvalidArgument)
		}
		target.Orders = append(target.Orders, criteria.Order(expr, asc))
		return sel, nil
	})
	return &next
}

// GroupBy returns a stream grouped by fn's expression, replacing any
// previous grouping. Grouping applies only to top-level queries.
func (s *SearchStream[S]) GroupBy(fn func(S) criteria.Node) *SearchStream[S] {
	if fn == nil {
		return s.failWith(fmt.Errorf("%w: GroupBy requires a function", ErrInvalidArgument))
	}
	next := s.restructure("GroupBy", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "grouping")
		if err != nil {
			var zero S
			return zero, err
		}
		expr := fn(sel)
		if expr == nil {
			var zero S
			return zero, fmt.Errorf("%w: GroupBy expression is nil", ErrInvalidArgument)
		}
		target.GroupBy(expr)
		return sel, nil
	})
	return &next
}

// GroupByAttr groups by a named column of the current selection.
func (s *SearchStream[S]) GroupByAttr(column string) *SearchStream[S] {
	if column == "" {
		return s.failWith(fmt.Errorf("%w: GroupByAttr requires a column name", ErrInvalidArgument))
	}
	return s.GroupBy(func(sel S) criteria.Node {
		rel, ok := any(sel).(interface {
			Col(string) *criteria.Attribute
		})
		if !ok {
			return nil
		}
		return rel.Col(column)
	})
}

// GroupByRef groups by the expression a Ref resolves to.
func (s *SearchStream[S]) GroupByRef(ref NodeRef) *SearchStream[S] {
	if ref == nil {
		return s.failWith(fmt.Errorf("%w: GroupByRef requires a ref", ErrInvalidArgument))
	}
	next := s.restructure("GroupByRef", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "grouping")
		if err != nil {
			var zero S
			return zero, err
		}
		expr, err := ref.Node()
		if err != nil {
			var zero S
			return zero, err
		}
		target.GroupBy(expr)
		return sel, nil
	})
	return &next
}

// GroupByMulti replaces the grouping with the full list fn produces.
func (s *SearchStream[S]) GroupByMulti(fn func(S) []criteria.Node) *SearchStream[S] {
	if fn == nil {
		return s.failWith(fmt.Errorf("%w: GroupByMulti requires a function", ErrInvalidArgument))
	}
	next := s.restructure("GroupByMulti", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "grouping")
		if err != nil {
			var zero S
			return zero, err
		}
		target.GroupBy(fn(sel)...)
		return sel, nil
	})
	return &next
}

// Having returns a stream with fn's predicate as the HAVING clause,
// replacing any previous one.
func (s *SearchStream[S]) Having(fn func(S) criteria.Node) *SearchStream[S] {
	if fn == nil {
		return s.failWith(fmt.Errorf("%w: Having requires a function", ErrInvalidArgument))
	}
	next := s.restructure("Having", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		target, err := topLevelSelect(q, "having")
		if err != nil {
			var zero S
			return zero, err
		}
		pred := fn(sel)
		if pred == nil {
			var zero S
			return zero, fmt.Errorf("%w: Having predicate is nil", ErrInvalidArgument)
		}
		target.SetHaving(pred)
		return sel, nil
	})
	return &next
}

// AddRoot returns a stream whose query draws from an additional table,
// forming a cross join. The new root is captured in ref, if given, for
// use by later steps; the selection is unchanged.
func (s *SearchStream[S]) AddRoot(ref *Ref[*criteria.Root], table *criteria.Table) *SearchStream[S] {
	if table == nil {
		return s.failWith(fmt.Errorf("%w: AddRoot requires a table", ErrInvalidArgument))
	}
	next := s.restructure("AddRoot", func(qb *criteria.Builder, q criteria.Query, sel S) (S, error) {
		root := q.From(table)
		if ref != nil {
			if err := ref.Bind(root); err != nil {
				var zero S
				return zero, err
			}
		}
		return sel, nil
	})
	return &next
}

// AsSubquery materializes the chain as a subquery of the query currently
// under construction on qb. The subquery gets its own context frame for
// the duration of the build, so nested chains see themselves as current.
// Row offset and limit never apply in subquery position.
func (s *SearchStream[S]) AsSubquery(qb *criteria.Builder) (*criteria.Subquery, error) {
	if s.err != nil {
		return nil, s.err
	}
	if qb == nil {
		return nil, fmt.Errorf("%w: AsSubquery requires a builder", ErrInvalidArgument)
	}
	if s.offset >= 0 || s.limit >= 0 {
		return nil, fmt.Errorf("%w: row offset and limit do not apply to subqueries", ErrUnsupportedCombination)
	}
	frame, err := qb.Current()
	if err != nil {
		return nil, err
	}
	sub := frame.Query().Subquery()
	err = qb.WithFrame(sub, func() error {
		sel, err := s.configure(qb, sub)
		if err != nil {
			return err
		}
		return s.kind.Select(sub, sel)
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// Exists materializes the chain as an EXISTS predicate over a subquery
// of the query under construction.
func (s *SearchStream[S]) Exists(qb *criteria.Builder) (criteria.Node, error) {
	sub, err := s.AsSubquery(qb)
	if err != nil {
		return nil, err
	}
	return criteria.Exists(sub), nil
}

// NotExists materializes the chain as a NOT EXISTS predicate over a
// subquery of the query under construction.
func (s *SearchStream[S]) NotExists(qb *criteria.Builder) (criteria.Node, error) {
	sub, err := s.AsSubquery(qb)
	if err != nil {
		return nil, err
	}
	return criteria.NotExists(sub), nil
}

// --- Narrowing overrides: keep chains typed as SearchStream ---

func (s *SearchStream[S]) Filter(fn func(S) criteria.Node) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.filter(fn)}
}

func (s *SearchStream[S]) FilterBy(column string) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.filterBy(column)}
}

func (s *SearchStream[S]) Peek(fn func(S)) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.peek(fn)}
}

func (s *SearchStream[S]) Bind(ref *Ref[S]) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.bind(ref)}
}

func (s *SearchStream[S]) Limit(n int) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.limitTo(n)}
}

func (s *SearchStream[S]) Skip(n int) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.skipBy(n)}
}

func (s *SearchStream[S]) Use(t plugins.Transformer) *SearchStream[S] {
	return &SearchStream[S]{s.Stream.use(t)}
}

func (s *SearchStream[S]) failWith(err error) *SearchStream[S] {
	if s.err != nil {
		return s
	}
	return &SearchStream[S]{s.Stream.fail(err)}
}
