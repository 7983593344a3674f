// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import "fmt"

// Result is the status code returned by entry points.
// Negative values are errors. Result implements error so that callers can
// use errors.Is on wrapped statuses.
type Result int32

// Status codes surfaced by the loader.
const (
	Success                   Result = 0
	Incomplete                Result = 5
	ErrorOutOfHostMemory      Result = -1
	ErrorInitializationFailed Result = -3
	ErrorLayerNotPresent      Result = -6
	ErrorExtensionNotPresent  Result = -7
	ErrorIncompatibleDriver   Result = -9
	ErrorFormatNotSupported   Result = -11
)

// String returns the canonical name of the status.
func (r Result) String() string {
	switch r {
	case Success:
		return "VK_SUCCESS"
	case Incomplete:
		return "VK_INCOMPLETE"
	case ErrorOutOfHostMemory:
		return "VK_ERROR_OUT_OF_HOST_MEMORY"
	case ErrorInitializationFailed:
		return "VK_ERROR_INITIALIZATION_FAILED"
	case ErrorLayerNotPresent:
		return "VK_ERROR_LAYER_NOT_PRESENT"
	case ErrorExtensionNotPresent:
		return "VK_ERROR_EXTENSION_NOT_PRESENT"
	case ErrorIncompatibleDriver:
		return "VK_ERROR_INCOMPATIBLE_DRIVER"
	case ErrorFormatNotSupported:
		return "VK_ERROR_FORMAT_NOT_SUPPORTED"
	default:
		return fmt.Sprintf("VkResult(%d)", int32(r))
	}
}

// Error implements the error interface.
func (r Result) Error() string { return r.String() }

// IsError reports whether r is an error status.
func (r Result) IsError() bool { return r < 0 }

// Err returns nil for non-error statuses and r otherwise.
func (r Result) Err() error {
	if r.IsError() {
		return r
	}
	return nil
}
