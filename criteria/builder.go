package criteria

import (
	"errors"
	"fmt"
)

// Construction-context errors. All indicate programmer error in how a
// stream was driven, never transient failure.
var (
	// ErrInvalidArgument is returned for nil or otherwise out-of-range
	// arguments to a construction operation. The streams package shares
	// this sentinel.
	ErrInvalidArgument = errors.New("streamql: invalid argument")

	// ErrNoActiveContext is returned when the construction-context stack is
	// read while no query is under construction, e.g. a subquery-only
	// stream driven outside of any enclosing terminal build.
	ErrNoActiveContext = errors.New("streamql: no query under construction")

	// ErrNotSubquery is returned when the subquery view of the current
	// frame is requested but the query under construction is top-level.
	ErrNotSubquery = errors.New("streamql: current query is not a subquery")
)

// Frame is one level of the construction-context stack: the builder and
// the (sub)query currently being configured at that nesting depth.
type Frame struct {
	builder *Builder
	query   Query
}

// Builder returns the builder that owns the frame.
func (f Frame) Builder() *Builder { return f.builder }

// Query returns the query context under construction at this level.
func (f Frame) Query() Query { return f.query }

// Builder is the construction toolkit handed to configurers. It owns the
// frame stack tracking the (sub)query currently under construction: the
// bottom frame is the outermost query and the only non-subquery.
//
// A Builder is created fresh for each terminal build and must not be
// shared across concurrently executing builds. Its stack is non-empty
// exactly while a configurer is executing.
type Builder struct {
	frames []Frame
}

// NewBuilder creates a Builder with an empty construction-context stack.
func NewBuilder() *Builder {
	return &Builder{}
}

// WithFrame pushes a frame for q, runs action, and pops the frame on every
// exit path, restoring the previous frame (which may be absent at the true
// top level).
func (b *Builder) WithFrame(q Query, action func() error) error {
	if q == nil {
		return fmt.Errorf("%w: WithFrame requires a query", ErrInvalidArgument)
	}
	if action == nil {
		return fmt.Errorf("%w: WithFrame requires an action", ErrInvalidArgument)
	}
	b.frames = append(b.frames, Frame{builder: b, query: q})
	defer func() {
		b.frames = b.frames[:len(b.frames)-1]
	}()
	return action()
}

// Current returns the top frame of the construction-context stack.
func (b *Builder) Current() (Frame, error) {
	if len(b.frames) == 0 {
		return Frame{}, fmt.Errorf("%w: stream driven outside a terminal build", ErrNoActiveContext)
	}
	return b.frames[len(b.frames)-1], nil
}

// CurrentSubquery returns the query context of the top frame if it is in
// subquery position.
func (b *Builder) CurrentSubquery() (*Subquery, error) {
	frame, err := b.Current()
	if err != nil {
		return nil, err
	}
	sub, ok := frame.Query().(*Subquery)
	if !ok {
		return nil, fmt.Errorf("%w: streams built for subquery position can only be used in subqueries", ErrNotSubquery)
	}
	return sub, nil
}

// Depth reports the current nesting depth of the stack.
func (b *Builder) Depth() int {
	return len(b.frames)
}

// Convenience constructors mirroring the node-level API, so configurers
// can build expressions from the toolkit they already hold.

// And combines two predicates; a nil side yields the other side.
func (b *Builder) And(left, right Node) Node { return And(left, right) }

// Or combines two predicates, wrapped for precedence.
func (b *Builder) Or(left, right Node) Node { return Or(left, right) }

// Not negates a predicate.
func (b *Builder) Not(expr Node) Node { return Not(expr) }

// Asc creates an ascending ordering over expr.
func (b *Builder) Asc(expr Node) *OrderingNode { return Order(expr, true) }

// Desc creates a descending ordering over expr.
func (b *Builder) Desc(expr Node) *OrderingNode { return Order(expr, false) }

// Literal wraps a raw Go value.
func (b *Builder) Literal(val any) Node { return Literal(val) }

// Param creates an explicit bind parameter.
func (b *Builder) Param(val any) *BindParamNode { return NewBindParam(val) }
