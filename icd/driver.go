// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package icd holds the per-driver state of a loader instance: the
// driver's self-reported version, the extensions it advertises and its
// dispatch table.
//
// A dispatch table is built exactly once by [Load], which asks the
// driver's [Source] for every entry point named in the catalog, and is
// never modified afterwards. Typed access goes through [Lookup]:
//
//	if f, ok := icd.Lookup[icd.GetPhysicalDeviceFeatures2Func](d, "vkGetPhysicalDeviceFeatures2"); ok {
//		f(native, &features)
//	}
package icd

import (
	"fmt"
	"sort"

	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/vk"
)

// Source is a driver as seen before it is loaded.
type Source interface {
	// Name identifies the driver in diagnostics, typically its library
	// name.
	Name() string

	// APIVersion is the highest API version the driver supports.
	APIVersion() vk.Version

	// InstanceExtensions lists the instance extensions the driver
	// advertises.
	InstanceExtensions() []vk.ExtensionProperties

	// GetProcAddr returns the driver's implementation of name, or nil.
	GetProcAddr(name string) any
}

// Driver is a loaded driver participating in one loader instance.
// All fields are immutable after Load returns.
type Driver struct {
	name         string
	version      vk.Version
	instanceExts []vk.ExtensionProperties
	advertised   vk.ExtensionSet
	table        map[string]any
	devices      []NativeDevice
	destroyed    bool
}

// Load builds the dispatch table of src, creates the driver's instance
// and enumerates its physical devices. Required entry points missing from
// src fail the load with ErrMissingEntryPoint after a warning to sink.
func Load(src Source, cat *catalog.Catalog, info InstanceCreateInfo, sink diag.Sink) (*Driver, error) {
	d := &Driver{
		name:         src.Name(),
		version:      src.APIVersion(),
		instanceExts: src.InstanceExtensions(),
		advertised:   vk.NewExtensionSet(),
		table:        make(map[string]any),
	}
	for _, e := range d.instanceExts {
		d.advertised.Add(e.ExtensionName)
	}

	for _, e := range cat.Entries() {
		for _, sym := range e.Symbols() {
			f := src.GetProcAddr(sym)
			if f == nil {
				continue
			}
			if !signatureMatches(e.Name, f) {
				diag.Emitf(sink, diag.SeverityWarn, diag.KindDriver, d.name,
					"driver %s exports %s: %v (%T); ignoring it", d.name, sym, ErrWrongType, f)
				continue
			}
			d.table[sym] = f
		}
		if e.Required && !d.Exports(e.Name) {
			diag.Emitf(sink, diag.SeverityWarn, diag.KindDriver, d.name,
				"driver %s is missing required entry point %s; skipping it", d.name, e.Name)
			return nil, fmt.Errorf("%w: %s in %s", ErrMissingEntryPoint, e.Name, d.name)
		}
	}

	if err := d.createInstance(info); err != nil {
		return nil, err
	}
	if err := d.enumerate(sink); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

func (d *Driver) createInstance(info InstanceCreateInfo) error {
	create, ok := Lookup[CreateInstanceFunc](d, "vkCreateInstance")
	if !ok {
		return fmt.Errorf("%w: vkCreateInstance in %s", ErrMissingEntryPoint, d.name)
	}
	// The driver only sees the extensions it advertises.
	var exts []string
	for _, name := range info.Extensions {
		if d.advertised.Has(name) {
			exts = append(exts, name)
		}
	}
	driverInfo := InstanceCreateInfo{APIVersion: info.APIVersion, Extensions: exts}
	if r := create(&driverInfo); r.IsError() {
		return fmt.Errorf("%w: %s: %v", ErrCreateInstance, d.name, r)
	}
	return nil
}

func (d *Driver) enumerate(sink diag.Sink) error {
	enum, _ := Lookup[EnumeratePhysicalDevicesFunc](d, "vkEnumeratePhysicalDevices")
	var n uint32
	if r := enum(&n, nil); r.IsError() {
		return fmt.Errorf("icd: %s: enumerating physical devices: %w", d.name, r)
	}
	devices := make([]NativeDevice, n)
	r := enum(&n, devices)
	if r.IsError() {
		return fmt.Errorf("icd: %s: enumerating physical devices: %w", d.name, r)
	}
	d.devices = devices[:n]

	// Device extensions count as advertised by the driver when any of its
	// devices reports them.
	enumExt, _ := Lookup[EnumerateDeviceExtensionPropertiesFunc](d, "vkEnumerateDeviceExtensionProperties")
	for _, pd := range d.devices {
		var count uint32
		if r := enumExt(pd, "", &count, nil); r.IsError() {
			diag.Emitf(sink, diag.SeverityWarn, diag.KindDriver, d.name,
				"driver %s failed to report device extensions: %v", d.name, r)
			continue
		}
		props := make([]vk.ExtensionProperties, count)
		if r := enumExt(pd, "", &count, props); r.IsError() {
			continue
		}
		for _, p := range props[:count] {
			d.advertised.Add(p.ExtensionName)
		}
	}
	return nil
}

// Name returns the driver's diagnostic identity.
func (d *Driver) Name() string { return d.name }

// APIVersion returns the driver's self-reported version.
func (d *Driver) APIVersion() vk.Version { return d.version }

// Supports reports whether the driver advertises ext, as an instance
// extension or through any of its devices.
func (d *Driver) Supports(ext string) bool { return d.advertised.Has(ext) }

// Exports reports whether the driver's dispatch table holds name.
func (d *Driver) Exports(name string) bool {
	_, ok := d.table[name]
	return ok
}

// InstanceExtensions returns the instance extensions the driver advertises.
func (d *Driver) InstanceExtensions() []vk.ExtensionProperties {
	out := make([]vk.ExtensionProperties, len(d.instanceExts))
	copy(out, d.instanceExts)
	return out
}

// Devices returns the driver's physical devices in enumeration order.
func (d *Driver) Devices() []NativeDevice {
	out := make([]NativeDevice, len(d.devices))
	copy(out, d.devices)
	return out
}

// Symbols returns the exported entry point names, sorted.
func (d *Driver) Symbols() []string {
	out := make([]string, 0, len(d.table))
	for name := range d.table {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Destroy tears down the driver's instance. It is idempotent.
func (d *Driver) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	if destroy, ok := Lookup[DestroyInstanceFunc](d, "vkDestroyInstance"); ok {
		destroy()
	}
}

// Lookup returns the driver's implementation of name as F.
func Lookup[F any](d *Driver, name string) (F, bool) {
	f, ok := d.table[name].(F)
	return f, ok
}
