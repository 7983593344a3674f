package icd

import "errors"

// Sentinel errors returned by Load and Sources. ErrWrongType only appears
// in diagnostics: a mistyped export is dropped, not fatal.
var (
	// ErrMissingEntryPoint indicates a driver lacking a required 1.0 entry point.
	ErrMissingEntryPoint = errors.New("icd: missing required entry point")

	// ErrWrongType indicates a driver export whose Go type does not match
	// the entry point's.
	ErrWrongType = errors.New("icd: entry point has wrong type")

	// ErrCreateInstance indicates that the driver's vkCreateInstance failed.
	ErrCreateInstance = errors.New("icd: driver instance creation failed")

	// ErrUnknownDriver indicates a driver name with no registered factory.
	ErrUnknownDriver = errors.New("icd: unknown driver")
)
