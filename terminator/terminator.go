// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package terminator implements the innermost link of the loader's call
// chain for physical-device capability queries.
//
// Each terminator looks up the driver that owns the device, selects the
// driver's best symbol with [resolve.Driver] and forwards the call
// verbatim. When the driver has no suitable symbol, the terminator
// emulates the query from the driver's 1.0 entry point: it writes the base
// result into the output structure, applies the known fixups to the
// extension chain and reports what it did to the diagnostic sink.
//
// Terminators never retain caller memory and allocate temporary arrays
// from a call-scoped [scratch.Scope].
package terminator

import (
	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/chain"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/resolve"
	"github.com/gogpu/vkloader/scratch"
	"github.com/gogpu/vkloader/vk"
)

// Config configures a Dispatcher.
type Config struct {
	Catalog *catalog.Catalog
	Sink    diag.Sink

	// Extensions are the instance extensions enabled by the application.
	Extensions vk.ExtensionSet

	// ScratchLimit bounds the temporary storage of one call, in bytes.
	// Zero selects scratch.DefaultLimit.
	ScratchLimit int
}

// Dispatcher holds the terminators of one loader instance.
type Dispatcher struct {
	cat          *catalog.Catalog
	sink         diag.Sink
	exts         vk.ExtensionSet
	scratchLimit int

	featureFixups chain.Transforms
	procs         map[string]vk.Proc
}

// New returns a dispatcher for cfg.
func New(cfg Config) *Dispatcher {
	t := &Dispatcher{
		cat:          cfg.Catalog,
		sink:         cfg.Sink,
		exts:         cfg.Extensions,
		scratchLimit: cfg.ScratchLimit,
	}
	if t.cat == nil {
		t.cat = catalog.Default()
	}
	if t.sink == nil {
		t.sink = diag.Nop{}
	}
	t.featureFixups = featureFixups()
	t.procs = map[string]vk.Proc{
		"vkGetPhysicalDeviceFeatures":                    GetPhysicalDeviceFeaturesFunc(t.GetPhysicalDeviceFeatures),
		"vkGetPhysicalDeviceProperties":                  GetPhysicalDevicePropertiesFunc(t.GetPhysicalDeviceProperties),
		"vkGetPhysicalDeviceFormatProperties":            GetPhysicalDeviceFormatPropertiesFunc(t.GetPhysicalDeviceFormatProperties),
		"vkGetPhysicalDeviceImageFormatProperties":       GetPhysicalDeviceImageFormatPropertiesFunc(t.GetPhysicalDeviceImageFormatProperties),
		"vkGetPhysicalDeviceQueueFamilyProperties":       GetPhysicalDeviceQueueFamilyPropertiesFunc(t.GetPhysicalDeviceQueueFamilyProperties),
		"vkGetPhysicalDeviceMemoryProperties":            GetPhysicalDeviceMemoryPropertiesFunc(t.GetPhysicalDeviceMemoryProperties),
		"vkGetPhysicalDeviceSparseImageFormatProperties": GetPhysicalDeviceSparseImageFormatPropertiesFunc(t.GetPhysicalDeviceSparseImageFormatProperties),
		"vkEnumerateDeviceExtensionProperties":           EnumerateDeviceExtensionPropertiesFunc(t.EnumerateDeviceExtensionProperties),
		"vkEnumerateDeviceLayerProperties":               EnumerateDeviceLayerPropertiesFunc(t.EnumerateDeviceLayerProperties),

		"vkGetPhysicalDeviceFeatures2":                    GetPhysicalDeviceFeatures2Func(t.GetPhysicalDeviceFeatures2),
		"vkGetPhysicalDeviceProperties2":                  GetPhysicalDeviceProperties2Func(t.GetPhysicalDeviceProperties2),
		"vkGetPhysicalDeviceFormatProperties2":            GetPhysicalDeviceFormatProperties2Func(t.GetPhysicalDeviceFormatProperties2),
		"vkGetPhysicalDeviceImageFormatProperties2":       GetPhysicalDeviceImageFormatProperties2Func(t.GetPhysicalDeviceImageFormatProperties2),
		"vkGetPhysicalDeviceQueueFamilyProperties2":       GetPhysicalDeviceQueueFamilyProperties2Func(t.GetPhysicalDeviceQueueFamilyProperties2),
		"vkGetPhysicalDeviceMemoryProperties2":            GetPhysicalDeviceMemoryProperties2Func(t.GetPhysicalDeviceMemoryProperties2),
		"vkGetPhysicalDeviceSparseImageFormatProperties2": GetPhysicalDeviceSparseImageFormatProperties2Func(t.GetPhysicalDeviceSparseImageFormatProperties2),
		"vkGetPhysicalDeviceExternalBufferProperties":     GetPhysicalDeviceExternalBufferPropertiesFunc(t.GetPhysicalDeviceExternalBufferProperties),
		"vkGetPhysicalDeviceExternalSemaphoreProperties":  GetPhysicalDeviceExternalSemaphorePropertiesFunc(t.GetPhysicalDeviceExternalSemaphoreProperties),
		"vkGetPhysicalDeviceExternalFenceProperties":      GetPhysicalDeviceExternalFencePropertiesFunc(t.GetPhysicalDeviceExternalFenceProperties),
		"vkGetPhysicalDeviceToolProperties":               GetPhysicalDeviceToolPropertiesFunc(t.GetPhysicalDeviceToolProperties),
	}
	return t
}

// Serves reports whether a terminator exists for name, which may be a
// core name or an alias.
func (t *Dispatcher) Serves(name string) bool {
	e, ok := t.cat.Lookup(name)
	if !ok {
		return false
	}
	_, ok = t.procs[e.Name]
	return ok
}

// Proc returns the terminator for name as a typed function, or nil.
// Aliases return their core entry point's terminator.
func (t *Dispatcher) Proc(name string) vk.Proc {
	e, ok := t.cat.Lookup(name)
	if !ok {
		return nil
	}
	return t.procs[e.Name]
}

// driverFunc returns the driver symbol that services name natively.
// Contract violations found on the way are reported.
func driverFunc[F any](t *Dispatcher, name string, d *icd.Driver) (F, bool) {
	var zero F
	e, ok := t.cat.Lookup(name)
	if !ok {
		return zero, false
	}
	sel := resolve.Driver(e, d)
	for _, v := range sel.Violations {
		diag.Emitf(t.sink, diag.SeverityError, diag.KindDriver, d.Name(), "%s: %s", name, v)
	}
	if !sel.Native() {
		return zero, false
	}
	return icd.Lookup[F](d, sel.Symbol)
}

// fallbackFunc returns the 1.0 entry point used to emulate name.
func fallbackFunc[F any](t *Dispatcher, name string, pd *registry.PhysicalDevice) (F, bool) {
	var zero F
	e, ok := t.cat.Lookup(name)
	if !ok || e.Fallback == "" {
		return zero, false
	}
	f, ok := icd.Lookup[F](pd.Driver(), e.Fallback)
	if !ok {
		t.unsupported(e.Fallback, pd)
	}
	return f, ok
}

func (t *Dispatcher) emulating(name string, pd *registry.PhysicalDevice) {
	e, _ := t.cat.Lookup(name)
	if e.Fallback == "" {
		diag.Emitf(t.sink, diag.SeverityInfo, diag.KindEmulation, pd.Driver().Name(),
			"%s: emulating call for driver %q device %q", name, pd.Driver().Name(), pd.Name())
		return
	}
	diag.Emitf(t.sink, diag.SeverityInfo, diag.KindEmulation, pd.Driver().Name(),
		"%s: emulating call for driver %q device %q using %s", name, pd.Driver().Name(), pd.Name(), e.Fallback)
}

// unknownLink returns a walker callback reporting links the emulation of
// name ignores. where names the chain being walked.
func (t *Dispatcher) unknownLink(name, where string, d *icd.Driver) func(int, chain.StructureType) {
	return func(i int, st chain.StructureType) {
		diag.Emitf(t.sink, diag.SeverityWarn, diag.KindChainLink, d.Name(),
			"%s: emulation found unrecognized structure type %v at %s link %d; it will be ignored", name, st, where, i)
	}
}

func (t *Dispatcher) outOfMemory(name string, n int, d *icd.Driver) {
	diag.Emitf(t.sink, diag.SeverityError, diag.KindOutOfMemory, d.Name(),
		"%s: out of memory allocating %d elements for emulation", name, n)
}

func (t *Dispatcher) unsupported(name string, pd *registry.PhysicalDevice) {
	diag.Emitf(t.sink, diag.SeverityError, diag.KindDriver, pd.Driver().Name(),
		"driver %q with device %q does not support %s", pd.Driver().Name(), pd.Name(), name)
}

func (t *Dispatcher) scope() *scratch.Scope {
	return scratch.NewScope(t.scratchLimit)
}
