package emitter

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by On and Off. All of them unwrap to
// ErrInvalidArgument so callers can match the whole family at once.
var (
	// ErrInvalidArgument is the root of every argument validation failure.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEmptySpec is returned when an event specification contains no tokens.
	ErrEmptySpec = fmt.Errorf("%w: empty event spec", ErrInvalidArgument)

	// ErrNilHandler is returned when On is called with a nil handler.
	ErrNilHandler = fmt.Errorf("%w: handler cannot be nil", ErrInvalidArgument)

	// ErrBareNamespace is returned when a token passed to On has a namespace
	// but no event name. Registration is always against a concrete event
	// name; a bare namespace is only meaningful for Off.
	ErrBareNamespace = fmt.Errorf("%w: token has a namespace but no event name", ErrInvalidArgument)
)
