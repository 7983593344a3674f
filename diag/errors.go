package diag

import "errors"

// ErrUnknownSeverity is returned by ParseSeverity for unrecognized names.
var ErrUnknownSeverity = errors.New("diag: unknown severity")

// ErrClosed is returned when writing to a closed capture file.
var ErrClosed = errors.New("diag: capture closed")
