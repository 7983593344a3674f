package icd

import (
	"fmt"
	"slices"
	"sort"

	"github.com/gogpu/gpucontext"
)

// Names of the in-process drivers shipped with the loader.
const (
	DriverSoftware = "software"
	DriverNoop     = "noop"
)

// factories holds registered in-process drivers. Drivers listed in the
// priority order come first when no explicit selection is made.
var factories = gpucontext.NewRegistry[Source](
	gpucontext.WithPriority(DriverSoftware, DriverNoop),
)

// priority mirrors the registry's priority order for Sources.
var priority = []string{DriverSoftware, DriverNoop}

// Register registers a driver factory under name.
// This is typically called from init() functions in driver packages.
// If a driver with the same name is already registered, it is replaced.
func Register(name string, factory func() Source) {
	factories.Register(name, factory)
}

// Unregister removes a driver factory. This is useful for testing.
func Unregister(name string) {
	factories.Unregister(name)
}

// IsRegistered reports whether a factory is registered under name.
func IsRegistered(name string) bool {
	return factories.Has(name)
}

// Registered returns the registered driver names in selection order:
// priority drivers first, then the rest sorted by name.
func Registered() []string {
	names := factories.Available()
	sort.Strings(names)
	out := make([]string, 0, len(names))
	for _, p := range priority {
		if slices.Contains(names, p) {
			out = append(out, p)
		}
	}
	for _, n := range names {
		if !slices.Contains(priority, n) {
			out = append(out, n)
		}
	}
	return out
}

// Default returns a fresh source of the best registered driver, or nil if
// none is registered.
func Default() Source {
	return factories.Best()
}

// Sources instantiates the named drivers in order. With no names it
// instantiates every registered driver in the order given by Registered.
func Sources(names ...string) ([]Source, error) {
	if len(names) == 0 {
		names = Registered()
	}
	out := make([]Source, 0, len(names))
	for _, n := range names {
		if !factories.Has(n) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, n)
		}
		if s := factories.Get(n); s != nil {
			out = append(out, s)
		}
	}
	return out, nil
}
