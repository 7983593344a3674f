package catalog

import "errors"

// Sentinel errors returned by Parse.
var (
	// ErrInvalidEntry indicates an entry with a missing or malformed field.
	ErrInvalidEntry = errors.New("catalog: invalid entry")

	// ErrDuplicateName indicates two entries claiming the same name or alias.
	ErrDuplicateName = errors.New("catalog: duplicate entry point name")

	// ErrUnknownFallback indicates a fallback that names no entry.
	ErrUnknownFallback = errors.New("catalog: unknown fallback")
)
