package streams

import (
	"fmt"

	"github.com/bawdo/streamql/criteria"
)

// Ref is a write-once cell that captures an expression produced during
// stream configuration for reuse outside the chain that produced it, for
// example referencing a subquery's grouping key from the outer query.
//
// A Ref is created detached and bound exactly once, normally by
// Stream.Bind at terminal build time. It is not safe for concurrent
// binding; the write-once contract assumes a single writer and readers
// that only run after the owning chain's terminal build.
type Ref[T criteria.Node] struct {
	bound bool
	value T
}

// NewRef creates an unbound Ref.
func NewRef[T criteria.Node]() *Ref[T] {
	return &Ref[T]{}
}

// Bind assigns the value. Binding twice fails with ErrAlreadyBound.
func (r *Ref[T]) Bind(value T) error {
	if r.bound {
		return fmt.Errorf("%w: ref holds %s", ErrAlreadyBound, describeNode(r.value))
	}
	r.value = value
	r.bound = true
	return nil
}

// Get returns the bound value, or ErrUnboundRef if the owning chain has
// not run yet.
func (r *Ref[T]) Get() (T, error) {
	if !r.bound {
		var zero T
		return zero, fmt.Errorf("%w: terminal build has not run", ErrUnboundRef)
	}
	return r.value, nil
}

// IsBound reports whether the Ref has been bound.
func (r *Ref[T]) IsBound() bool {
	return r.bound
}

// Node returns the bound value as a plain criteria.Node. It satisfies
// NodeRef so typed Refs can feed OrderByRef and GroupByRef.
func (r *Ref[T]) Node() (criteria.Node, error) {
	return r.Get()
}

// NodeRef is the untyped read side of a Ref.
type NodeRef interface {
	Node() (criteria.Node, error)
}

func describeNode(n criteria.Node) string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%T", n)
}
