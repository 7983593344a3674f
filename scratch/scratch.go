// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package scratch provides call-scoped temporary arrays.
//
// A [Scope] lives for the duration of a single entry-point call. Every
// buffer obtained from it counts against a byte limit, and Release drops
// all of them. Callers defer Release right after NewScope so that buffers
// are released on every return path:
//
//	s := scratch.NewScope(limit)
//	defer s.Release()
//	props, err := scratch.Alloc[vk.QueueFamilyProperties](s, n)
//	if err != nil {
//		return vk.ErrorOutOfHostMemory
//	}
//
// Scopes are never shared between goroutines.
package scratch

import (
	"errors"
	"unsafe"
)

// DefaultLimit is the byte budget of a scope created with a zero limit.
const DefaultLimit = 1 << 20

// ErrExhausted is returned when an allocation would exceed the scope's limit.
var ErrExhausted = errors.New("scratch: limit exhausted")

// Scope tracks the buffers of one call.
type Scope struct {
	limit   int
	used    int
	buffers []func()
}

// NewScope returns a scope with the given byte limit. A limit of zero
// selects DefaultLimit; a negative limit makes every non-empty allocation
// fail.
func NewScope(limit int) *Scope {
	if limit == 0 {
		limit = DefaultLimit
	}
	return &Scope{limit: limit}
}

// Used returns the number of bytes currently allocated.
func (s *Scope) Used() int { return s.used }

// Limit returns the scope's byte limit.
func (s *Scope) Limit() int { return s.limit }

// Alloc returns a zeroed slice of n elements charged to s.
func Alloc[T any](s *Scope, n int) ([]T, error) {
	if n < 0 {
		return nil, ErrExhausted
	}
	if n == 0 {
		return nil, nil
	}
	if s.limit < 0 {
		return nil, ErrExhausted
	}
	var zero T
	size := int(unsafe.Sizeof(zero))
	if size > 0 && n > (s.limit-s.used)/size {
		return nil, ErrExhausted
	}
	buf := make([]T, n)
	s.used += n * size
	s.buffers = append(s.buffers, func() { clear(buf) })
	return buf, nil
}

// Release clears every buffer handed out by s and resets its usage. The
// slices must not be used afterwards. Release is idempotent.
func (s *Scope) Release() {
	for _, c := range s.buffers {
		c()
	}
	s.buffers = nil
	s.used = 0
}
