// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vkloader

import (
	"slices"
	"sync"

	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/resolve"
	"github.com/gogpu/vkloader/vk"
)

// loaderExtensions are the instance extensions implemented by the loader
// itself rather than by a driver.
var loaderExtensions = []vk.ExtensionProperties{
	{ExtensionName: vk.EXTDebugUtils, SpecVersion: 2},
	{ExtensionName: vk.KHRPortabilityEnumeration, SpecVersion: 1},
}

// InstanceCreateInfo describes an Instance to create.
type InstanceCreateInfo struct {
	// APIVersion is the highest API version the application uses. Zero
	// means 1.0.
	APIVersion vk.Version

	// Extensions are the instance extensions to enable. Duplicates are
	// ignored.
	Extensions []string
}

// Loader owns the global entry points and tracks the live instances.
type Loader struct {
	opts options

	mu   sync.Mutex
	live map[*Instance]struct{}
}

// New returns a loader configured by opts.
func New(opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{opts: o, live: make(map[*Instance]struct{})}
}

// Catalog returns the entry-point catalog in use.
func (l *Loader) Catalog() *catalog.Catalog { return l.opts.cat }

func (l *Loader) sources() ([]icd.Source, error) {
	if l.opts.sourcesSet {
		return l.opts.sources, nil
	}
	return icd.Sources()
}

// EnumerateInstanceVersion returns the highest API version the loader
// implements.
func (l *Loader) EnumerateInstanceVersion() vk.Version {
	return APIVersion
}

// EnumerateInstanceExtensionProperties lists the instance extensions
// available to CreateInstance: the loader's own followed by those of every
// driver, without duplicates. layer must be empty.
func (l *Loader) EnumerateInstanceExtensionProperties(layer string, count *uint32, out []vk.ExtensionProperties) vk.Result {
	if layer != "" {
		*count = 0
		return vk.ErrorLayerNotPresent
	}
	srcs, err := l.sources()
	if err != nil {
		diag.Emitf(l.opts.sink, diag.SeverityError, diag.KindGeneral, "", "vkEnumerateInstanceExtensionProperties: %v", err)
		*count = 0
		return vk.ErrorInitializationFailed
	}
	return enumerate(count, out, availableExtensions(srcs))
}

func availableExtensions(srcs []icd.Source) []vk.ExtensionProperties {
	all := slices.Clone(loaderExtensions)
	seen := vk.NewExtensionSet()
	for _, e := range all {
		seen.Add(e.ExtensionName)
	}
	for _, src := range srcs {
		for _, e := range src.InstanceExtensions() {
			if seen.Has(e.ExtensionName) {
				continue
			}
			seen.Add(e.ExtensionName)
			all = append(all, e)
		}
	}
	return all
}

// EnumerateInstanceLayerProperties reports no layers: layer discovery
// happens outside the loader's terminator layer.
func (l *Loader) EnumerateInstanceLayerProperties(count *uint32, _ []vk.LayerProperties) vk.Result {
	*count = 0
	return vk.Success
}

// GetInstanceProcAddr returns the entry point name as a typed function, or
// nil when it is unavailable. inst may be nil for the global entry points.
//
// With a nil inst, global entry points stop resolving once any live
// instance uses API version 1.3 or later; vkGetInstanceProcAddr itself
// always resolves. With an inst, resolution depends only on the
// instance's version, its enabled extensions and its drivers.
func (l *Loader) GetInstanceProcAddr(inst *Instance, name string) vk.Proc {
	if inst == nil {
		t, ok := resolve.Global(l.opts.cat, name, l.liveVersions())
		if !ok {
			return nil
		}
		return l.globalProc(t.Entry.Name)
	}

	t, ok := resolve.Instance(l.opts.cat, inst.state, name)
	if !ok {
		return nil
	}
	switch t.Entry.Scope {
	case catalog.ScopeGlobal:
		return l.globalProc(t.Entry.Name)
	case catalog.ScopeInstance:
		return inst.procs[t.Entry.Name]
	default:
		return inst.disp.Proc(t.Entry.Name)
	}
}

func (l *Loader) globalProc(name string) vk.Proc {
	switch name {
	case "vkGetInstanceProcAddr":
		return GetInstanceProcAddrFunc(l.GetInstanceProcAddr)
	case "vkCreateInstance":
		return CreateInstanceFunc(l.CreateInstance)
	case "vkEnumerateInstanceVersion":
		return EnumerateInstanceVersionFunc(l.EnumerateInstanceVersion)
	case "vkEnumerateInstanceExtensionProperties":
		return EnumerateInstanceExtensionPropertiesFunc(l.EnumerateInstanceExtensionProperties)
	case "vkEnumerateInstanceLayerProperties":
		return EnumerateInstanceLayerPropertiesFunc(l.EnumerateInstanceLayerProperties)
	}
	return nil
}

func (l *Loader) liveVersions() []vk.Version {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]vk.Version, 0, len(l.live))
	for inst := range l.live {
		out = append(out, inst.version)
	}
	return out
}

func (l *Loader) track(inst *Instance) {
	l.mu.Lock()
	l.live[inst] = struct{}{}
	l.mu.Unlock()
}

func (l *Loader) untrack(inst *Instance) {
	l.mu.Lock()
	delete(l.live, inst)
	l.mu.Unlock()
}

// Live returns the number of instances created and not yet destroyed.
func (l *Loader) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}
