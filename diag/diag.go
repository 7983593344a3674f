// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package diag carries loader diagnostics.
//
// Every component that can report something (terminators, driver loading,
// instance creation) receives a [Sink] explicitly rather than logging to a
// process-wide logger. A Message is a (severity, kind, source, text) tuple;
// Source names the originating driver when there is one.
//
// Implementations provided here:
//
//   - [Slog] forwards to a *slog.Logger
//   - [Capture] appends CBOR records to a writer or file, read back with [ReadCapture]
//   - [Recorder] collects messages in memory, mainly for tests
//   - [Multi] fans out and [Filter] drops messages below a severity
package diag

import "fmt"

// Severity orders messages by importance.
type Severity uint8

// Severities.
const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarn
	SeverityError
)

// String returns the lower-case severity name.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarn:
		return "warn"
	case SeverityError:
		return "error"
	default:
		return fmt.Sprintf("Severity(%d)", uint8(s))
	}
}

// ParseSeverity parses a severity name as produced by String.
func ParseSeverity(s string) (Severity, error) {
	switch s {
	case "debug":
		return SeverityDebug, nil
	case "info":
		return SeverityInfo, nil
	case "warn", "warning":
		return SeverityWarn, nil
	case "error":
		return SeverityError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSeverity, s)
}

// Kind classifies what a message is about.
type Kind uint8

// Message kinds.
const (
	KindGeneral Kind = iota

	// KindEmulation marks a result synthesized from an older entry point.
	KindEmulation

	// KindChainLink marks an extension structure left unprocessed.
	KindChainLink

	// KindDriver marks a driver that breaks its own contract.
	KindDriver

	// KindOutOfMemory marks a scratch allocation failure.
	KindOutOfMemory

	// KindProtocol marks an entry point reached when it never should be.
	KindProtocol
)

func (k Kind) String() string {
	switch k {
	case KindGeneral:
		return "general"
	case KindEmulation:
		return "emulation"
	case KindChainLink:
		return "chain-link"
	case KindDriver:
		return "driver"
	case KindOutOfMemory:
		return "out-of-memory"
	case KindProtocol:
		return "protocol"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Message is one diagnostic.
type Message struct {
	Severity Severity
	Kind     Kind

	// Source identifies the originating driver, or is empty for messages
	// raised by the loader itself.
	Source string

	Text string
}

// String formats m for humans.
func (m Message) String() string {
	if m.Source == "" {
		return fmt.Sprintf("[%s] %s: %s", m.Severity, m.Kind, m.Text)
	}
	return fmt.Sprintf("[%s] %s (%s): %s", m.Severity, m.Kind, m.Source, m.Text)
}

// Sink receives diagnostics. Implementations must be safe for concurrent
// use: terminators may run on any application goroutine.
type Sink interface {
	Emit(Message)
}

// Nop discards every message. It is safe as a zero value.
type Nop struct{}

// Emit discards m.
func (Nop) Emit(Message) {}

// Emitf formats and emits a message to s. A nil sink discards it.
func Emitf(s Sink, sev Severity, kind Kind, source, format string, args ...any) {
	if s == nil {
		return
	}
	s.Emit(Message{Severity: sev, Kind: kind, Source: source, Text: fmt.Sprintf(format, args...)})
}

var _ Sink = Nop{}
