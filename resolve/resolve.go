// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package resolve decides which entry points are exposed and which driver
// symbol services a call.
//
// Two questions are answered separately. [Instance] and [Global] decide
// whether a name is exposed at all, once per loader instance, from the
// instance's negotiated version, its enabled extensions and the drivers
// participating in it. [Driver] decides, per driver, whether a call goes
// to the core symbol, to the extension alias or has to be emulated. A name
// can therefore be exposed for every device of an instance while some of
// its devices are served by emulation.
//
// All functions are pure.
package resolve

import (
	"fmt"

	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/vk"
)

// Surface is what resolution needs to know about a driver.
type Surface interface {
	Name() string
	APIVersion() vk.Version
	Supports(ext string) bool
	Exports(name string) bool
}

// State is the resolution-relevant state of a loader instance.
type State struct {
	Version    vk.Version
	Extensions vk.ExtensionSet
	Drivers    []Surface

	// Served reports whether the loader itself implements name. Nil means
	// only driver exports count.
	Served func(name string) bool

	// LegacyExposure honours catalog entries flagged ExposeBelowCore.
	LegacyExposure bool
}

func (s State) served(name string) bool {
	if s.Served != nil && s.Served(name) {
		return true
	}
	for _, d := range s.Drivers {
		if d.Exports(name) {
			return true
		}
	}
	return false
}

func (s State) advertised(ext string) bool {
	for _, d := range s.Drivers {
		if d.Supports(ext) {
			return true
		}
	}
	return false
}

// Target is a resolved entry point.
type Target struct {
	Entry  catalog.Entry
	Symbol string
	Alias  bool
}

// Instance resolves name for a bound instance.
func Instance(cat *catalog.Catalog, s State, name string) (Target, bool) {
	e, ok := cat.Lookup(name)
	if !ok {
		return Target{}, false
	}
	if e.Scope == catalog.ScopeGlobal {
		return Target{Entry: e, Symbol: name}, true
	}
	if !s.served(name) {
		return Target{}, false
	}

	if name == e.Name {
		if s.Version.AtLeast(e.Core) || (s.LegacyExposure && e.ExposeBelowCore) {
			return Target{Entry: e, Symbol: name}, true
		}
		return Target{}, false
	}

	// The alias is exposed only through its extension, never because the
	// version is high enough.
	enabled := false
	switch e.ExtensionKind {
	case catalog.ExtensionInstance:
		enabled = s.Extensions.Has(e.Extension)
	case catalog.ExtensionDevice:
		enabled = s.advertised(e.Extension)
	}
	if !enabled {
		return Target{}, false
	}
	return Target{Entry: e, Symbol: name, Alias: true}, true
}

// Global resolves name for a null-instance query. live holds the versions
// of the instances currently alive. Global entry points stop resolving once
// any live instance has reached the catalog's cutoff version, except those
// flagged AlwaysGlobal.
func Global(cat *catalog.Catalog, name string, live []vk.Version) (Target, bool) {
	e, ok := cat.Lookup(name)
	if !ok || e.Scope != catalog.ScopeGlobal {
		return Target{}, false
	}
	if e.AlwaysGlobal {
		return Target{Entry: e, Symbol: name}, true
	}
	if cutoff := cat.GlobalCutoff(); cutoff != 0 {
		for _, v := range live {
			if v.AtLeast(cutoff) {
				return Target{}, false
			}
		}
	}
	return Target{Entry: e, Symbol: name}, true
}

// Tier is the way a call reaches a driver.
type Tier uint8

// Tiers, in order of preference.
const (
	TierCore Tier = iota
	TierAlias
	TierEmulate
)

func (t Tier) String() string {
	switch t {
	case TierCore:
		return "core"
	case TierAlias:
		return "alias"
	default:
		return "emulate"
	}
}

// Violation records a driver that claims a version or extension without
// exporting the matching symbol.
type Violation struct {
	Driver  string
	Symbol  string
	Claimed string
}

func (v Violation) String() string {
	return fmt.Sprintf("driver %s claims %s but does not export %s", v.Driver, v.Claimed, v.Symbol)
}

// Selection is the outcome of Driver.
type Selection struct {
	Tier       Tier
	Symbol     string
	Violations []Violation
}

// Native reports whether the driver services the call itself.
func (s Selection) Native() bool { return s.Tier != TierEmulate }

// Driver selects the symbol of d that services e, evaluated against the
// driver's own version and advertised extensions.
func Driver(e catalog.Entry, d Surface) Selection {
	var sel Selection
	if d.APIVersion().AtLeast(e.Core) {
		if d.Exports(e.Name) {
			sel.Tier, sel.Symbol = TierCore, e.Name
			return sel
		}
		sel.Violations = append(sel.Violations, Violation{
			Driver: d.Name(), Symbol: e.Name, Claimed: "API version " + d.APIVersion().String(),
		})
	}
	if e.Alias != "" && d.Supports(e.Extension) {
		if d.Exports(e.Alias) {
			sel.Tier, sel.Symbol = TierAlias, e.Alias
			return sel
		}
		sel.Violations = append(sel.Violations, Violation{
			Driver: d.Name(), Symbol: e.Alias, Claimed: e.Extension,
		})
	}
	sel.Tier = TierEmulate
	return sel
}
