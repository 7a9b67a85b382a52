package model

import "errors"

var (
	// ErrUnknownField is returned when a criterion or accessor names an
	// attribute the entity kind does not have.
	ErrUnknownField = errors.New("model: unknown field")

	// ErrKindMismatch is returned when rebinding entities of different kinds.
	ErrKindMismatch = errors.New("model: entity kind mismatch")

	// ErrNoSource is returned when a lazy field needs a provider but the
	// entity was built without one.
	ErrNoSource = errors.New("model: entity has no source")

	// ErrMissingIdentity is returned when the identity field is unset.
	ErrMissingIdentity = errors.New("model: identity field unset")
)
