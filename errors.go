package rowfilter

import "errors"

// Sentinel errors surfaced by the schema binder. Callers should use
// errors.Is against these when they need to distinguish failure modes;
// the wrapped detail (field name, type, etc.) is only for humans.
var (
	// ErrMissingField is returned when an unbound reference names a field
	// that does not exist in the logical schema.
	ErrMissingField = errors.New("rowfilter: missing field")

	// ErrTypeMismatch is returned when a predicate's literal cannot be
	// safely coerced to the logical type of the field it is compared
	// against.
	ErrTypeMismatch = errors.New("rowfilter: type mismatch")

	// ErrInvalidLiteral is returned (from predicate constructors, as a
	// panic wrapping this error) when a comparison predicate is built
	// with a nil literal.
	ErrInvalidLiteral = errors.New("rowfilter: invalid literal")

	// ErrInvalidArgument covers other constructor misuse (nil terms,
	// wrong operation group, etc.).
	ErrInvalidArgument = errors.New("rowfilter: invalid argument")

	// ErrNotImplemented is raised by the generic visitor dispatch when it
	// encounters an expression node it doesn't know how to handle.
	ErrNotImplemented = errors.New("rowfilter: not implemented")
)
