package streams

import (
	"errors"

	"github.com/bawdo/streamql/criteria"
)

// Stream misuse errors. All of these indicate programmer error in how a
// chain was assembled or driven, never transient failure; none are
// retried or downgraded. Chain-state violations are raised at the fluent
// call that caused them and carried by the returned stream; everything
// context-dependent surfaces at terminal build time.
var (
	// ErrInvalidArgument is returned for nil, negative, or otherwise
	// out-of-range arguments to a stream or Ref operation. Shared with the
	// criteria package so the whole build path reports one sentinel.
	ErrInvalidArgument = criteria.ErrInvalidArgument

	// ErrAlreadyBound is returned when a Ref is bound a second time.
	ErrAlreadyBound = errors.New("streamql: ref already bound")

	// ErrUnboundRef is returned when a Ref is read before the chain that
	// binds it has run a terminal build.
	ErrUnboundRef = errors.New("streamql: ref not bound")

	// ErrUnsupportedCombination is returned for operations incompatible
	// with the chain's state: restructuring after Limit or Skip, or
	// sorting, grouping, offset, or limit on a subquery context.
	ErrUnsupportedCombination = errors.New("streamql: operation not supported in this chain state")
)
