package domain

import "errors"

// Domain errors represent failures of the documentation core.
// They are wrapped with context and matched with errors.Is.
var (
	// ErrContent indicates a malformed or schema-violating content document,
	// or an unexpected declaration kind met during traversal.
	ErrContent = errors.New("content error")

	// ErrIdentifierCollision indicates two distinct paths mapped to the same
	// short identifier.
	ErrIdentifierCollision = errors.New("identifier collision")

	// ErrDuplicateSiblingName indicates two sibling folders share a name.
	ErrDuplicateSiblingName = errors.New("duplicate sibling name")

	// ErrConfiguration indicates a clean rule file exists but cannot be parsed.
	ErrConfiguration = errors.New("configuration error")

	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")
)
