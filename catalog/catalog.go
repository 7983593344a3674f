// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package catalog is the declarative table of entry points the loader knows
// about: their scope, the API version that promoted them to core, the
// extension alias that provides them on older versions and the 1.0 entry
// point used to emulate them.
//
// The default catalog is embedded from entrypoints.yaml and parsed once.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/vkloader/vk"
)

//go:embed entrypoints.yaml
var defaultYAML []byte

// Scope is the dispatchable object an entry point is called on.
type Scope uint8

// Entry point scopes.
const (
	ScopeGlobal Scope = iota
	ScopeInstance
	ScopePhysicalDevice
)

// String returns the scope name used in the catalog file.
func (s Scope) String() string {
	switch s {
	case ScopeGlobal:
		return "global"
	case ScopeInstance:
		return "instance"
	case ScopePhysicalDevice:
		return "physical_device"
	default:
		return fmt.Sprintf("Scope(%d)", uint8(s))
	}
}

// ExtensionKind tells whether an extension is enabled per instance or
// advertised per device.
type ExtensionKind uint8

// Extension kinds.
const (
	ExtensionInstance ExtensionKind = iota
	ExtensionDevice
)

func (k ExtensionKind) String() string {
	if k == ExtensionDevice {
		return "device"
	}
	return "instance"
}

// Entry describes one entry point.
type Entry struct {
	Name          string
	Scope         Scope
	Core          vk.Version
	Extension     string
	ExtensionKind ExtensionKind
	Alias         string
	Required      bool
	Fallback      string

	// ExposeBelowCore keeps the core name resolvable for contexts older
	// than Core. Emulation serves such calls.
	ExposeBelowCore bool

	// AlwaysGlobal makes a global entry point resolvable with a null
	// context whatever the live contexts' versions are.
	AlwaysGlobal bool
}

// Symbols returns the names a driver may export for e: the core name and,
// if any, the alias.
func (e Entry) Symbols() []string {
	if e.Alias == "" {
		return []string{e.Name}
	}
	return []string{e.Name, e.Alias}
}

// Catalog is an immutable set of entries indexed by core name and alias.
type Catalog struct {
	entries []Entry
	byName  map[string]int
	cutoff  vk.Version
}

type rawCatalog struct {
	GlobalCutoff string     `yaml:"global_cutoff"`
	Entries      []rawEntry `yaml:"entries"`
}

type rawEntry struct {
	Name            string `yaml:"name"`
	Scope           string `yaml:"scope"`
	Core            string `yaml:"core"`
	Extension       string `yaml:"extension"`
	ExtensionKind   string `yaml:"extension_kind"`
	Alias           string `yaml:"alias"`
	Required        bool   `yaml:"required"`
	Fallback        string `yaml:"fallback"`
	ExposeBelowCore bool   `yaml:"expose_below_core"`
	AlwaysGlobal    bool   `yaml:"always_global"`
}

var defaultCatalog = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultYAML)
})

// Default returns the embedded catalog. It panics if the embedded file is
// malformed, which is a build defect.
func Default() *Catalog {
	c, err := defaultCatalog()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a catalog from YAML.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("catalog: parsing: %w", err)
	}

	c := &Catalog{byName: make(map[string]int, 2*len(raw.Entries))}
	if raw.GlobalCutoff != "" {
		v, err := vk.ParseVersion(raw.GlobalCutoff)
		if err != nil {
			return nil, fmt.Errorf("catalog: global_cutoff: %w", err)
		}
		c.cutoff = v
	}

	for i, re := range raw.Entries {
		e, err := re.entry()
		if err != nil {
			return nil, fmt.Errorf("%w: entries[%d] %q: %v", ErrInvalidEntry, i, re.Name, err)
		}
		for _, sym := range e.Symbols() {
			if _, dup := c.byName[sym]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateName, sym)
			}
			c.byName[sym] = len(c.entries)
		}
		c.entries = append(c.entries, e)
	}

	for _, e := range c.entries {
		if e.Fallback == "" {
			continue
		}
		if _, ok := c.byName[e.Fallback]; !ok {
			return nil, fmt.Errorf("%w: %s falls back to %s", ErrUnknownFallback, e.Name, e.Fallback)
		}
	}
	return c, nil
}

func (re rawEntry) entry() (Entry, error) {
	e := Entry{
		Name:            re.Name,
		Extension:       re.Extension,
		Alias:           re.Alias,
		Required:        re.Required,
		Fallback:        re.Fallback,
		ExposeBelowCore: re.ExposeBelowCore,
		AlwaysGlobal:    re.AlwaysGlobal,
	}
	if e.Name == "" {
		return e, fmt.Errorf("missing name")
	}

	switch re.Scope {
	case "global":
		e.Scope = ScopeGlobal
	case "instance":
		e.Scope = ScopeInstance
	case "physical_device":
		e.Scope = ScopePhysicalDevice
	default:
		return e, fmt.Errorf("unknown scope %q", re.Scope)
	}

	core := re.Core
	if core == "" {
		core = "1.0"
	}
	v, err := vk.ParseVersion(core)
	if err != nil {
		return e, err
	}
	e.Core = v

	switch re.ExtensionKind {
	case "", "instance":
		e.ExtensionKind = ExtensionInstance
	case "device":
		e.ExtensionKind = ExtensionDevice
	default:
		return e, fmt.Errorf("unknown extension_kind %q", re.ExtensionKind)
	}

	if (e.Alias == "") != (e.Extension == "") {
		return e, fmt.Errorf("alias and extension must be given together")
	}
	if e.AlwaysGlobal && e.Scope != ScopeGlobal {
		return e, fmt.Errorf("always_global on %s entry", e.Scope)
	}
	return e, nil
}

// Lookup returns the entry named name, which may be a core name or an
// alias.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Names returns every resolvable name, core names and aliases, sorted.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.byName))
	for n := range c.byName {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// GlobalCutoff returns the version at and above which global entry points
// stop resolving for null-context queries. Zero means no cutoff.
func (c *Catalog) GlobalCutoff() vk.Version { return c.cutoff }

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }
