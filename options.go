package vkloader

import (
	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
)

// Option configures a Loader during creation.
//
// Example:
//
//	// Registered in-process drivers, diagnostics to the package logger
//	l := vkloader.New()
//
//	// Explicit drivers and an in-memory diagnostic recorder
//	var rec diag.Recorder
//	l := vkloader.New(vkloader.WithDrivers(src), vkloader.WithSink(&rec))
type Option func(*options)

// options holds optional configuration for Loader creation.
type options struct {
	sink         diag.Sink
	sources      []icd.Source
	sourcesSet   bool
	scratchLimit int
	cat          *catalog.Catalog
	legacy       bool
}

// defaultOptions returns the default loader options.
func defaultOptions() options {
	return options{
		sink:   loggerSink{},
		cat:    catalog.Default(),
		legacy: true,
	}
}

// WithSink routes diagnostics to s instead of the package logger.
func WithSink(s diag.Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithDrivers sets the driver sources every Instance loads, in order.
// Without it, each Instance loads every driver registered with
// icd.Register.
func WithDrivers(srcs ...icd.Source) Option {
	return func(o *options) {
		o.sources = srcs
		o.sourcesSet = true
	}
}

// WithScratchLimit bounds the temporary storage of a single emulated call,
// in bytes. Zero keeps the default; a negative limit makes every scratch
// allocation fail.
func WithScratchLimit(n int) Option {
	return func(o *options) {
		o.scratchLimit = n
	}
}

// WithCatalog replaces the built-in entry-point catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) {
		if c != nil {
			o.cat = c
		}
	}
}

// WithLegacyExposure controls whether the emulable physical-device queries
// are exposed under their core names to instances created below the
// queries' core version. It is on by default because applications depend
// on it; WithLegacyExposure(false) hides those names.
func WithLegacyExposure(enabled bool) Option {
	return func(o *options) {
		o.legacy = enabled
	}
}
