// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vkloader

import (
	"errors"

	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/resolve"
	"github.com/gogpu/vkloader/terminator"
	"github.com/gogpu/vkloader/vk"
)

// Instance is a loader context: a negotiated API version, a set of enabled
// extensions and the drivers participating in it. Everything but the
// destroyed flag is immutable after CreateInstance returns.
//
// Instances must be created and destroyed by one goroutine at a time;
// queries may run concurrently from any goroutine while the instance is
// alive.
type Instance struct {
	loader  *Loader
	version vk.Version
	exts    vk.ExtensionSet
	names   []string
	drivers []*icd.Driver
	reg     *registry.Registry
	disp    *terminator.Dispatcher
	state   resolve.State
	procs   map[string]vk.Proc

	destroyed bool
}

// CreateInstance creates an instance and loads every driver source into it.
//
// Requested extensions must be implemented by the loader or advertised by
// at least one driver, otherwise the error is vk.ErrorExtensionNotPresent.
// Drivers that fail to load are skipped with a warning; if none remains the
// error is vk.ErrorIncompatibleDriver. Returned errors are vk.Result values.
func (l *Loader) CreateInstance(info *InstanceCreateInfo) (*Instance, error) {
	sink := l.opts.sink
	if info == nil {
		info = &InstanceCreateInfo{}
	}
	version := info.APIVersion
	if version == 0 {
		version = vk.APIVersion1_0
	}

	srcs, err := l.sources()
	if err != nil {
		diag.Emitf(sink, diag.SeverityError, diag.KindGeneral, "", "vkCreateInstance: %v", err)
		return nil, vk.ErrorInitializationFailed
	}

	available := vk.NewExtensionSet()
	for _, e := range availableExtensions(srcs) {
		available.Add(e.ExtensionName)
	}
	exts := vk.NewExtensionSet()
	var names []string
	for _, name := range info.Extensions {
		if exts.Has(name) {
			continue
		}
		if !available.Has(name) {
			diag.Emitf(sink, diag.SeverityError, diag.KindGeneral, "",
				"vkCreateInstance: extension %s is not supported by the loader or any driver", name)
			return nil, vk.ErrorExtensionNotPresent
		}
		exts.Add(name)
		names = append(names, name)
	}

	inst := &Instance{
		loader:  l,
		version: version,
		exts:    exts,
		names:   names,
		reg:     registry.New(),
	}
	createInfo := icd.InstanceCreateInfo{APIVersion: version, Extensions: names}
	for _, src := range srcs {
		d, err := icd.Load(src, l.opts.cat, createInfo, sink)
		if err != nil {
			// Load already reported missing entry points.
			if !errors.Is(err, icd.ErrMissingEntryPoint) {
				diag.Emitf(sink, diag.SeverityWarn, diag.KindDriver, src.Name(),
					"vkCreateInstance: skipping driver %s: %v", src.Name(), err)
			}
			continue
		}
		inst.drivers = append(inst.drivers, d)
		inst.reg.Add(d)
		Logger().Debug("vkloader: driver loaded",
			"driver", d.Name(), "version", d.APIVersion().String(), "symbols", len(d.Symbols()))
	}
	if len(inst.drivers) == 0 {
		diag.Emitf(sink, diag.SeverityError, diag.KindGeneral, "", "vkCreateInstance: found no usable driver")
		return nil, vk.ErrorIncompatibleDriver
	}

	inst.disp = terminator.New(terminator.Config{
		Catalog:      l.opts.cat,
		Sink:         sink,
		Extensions:   exts,
		ScratchLimit: l.opts.scratchLimit,
	})
	inst.procs = map[string]vk.Proc{
		"vkDestroyInstance":          DestroyInstanceFunc(inst.Destroy),
		"vkEnumeratePhysicalDevices": EnumeratePhysicalDevicesFunc(inst.EnumeratePhysicalDevices),
	}
	surfaces := make([]resolve.Surface, len(inst.drivers))
	for i, d := range inst.drivers {
		surfaces[i] = d
	}
	inst.state = resolve.State{
		Version:        version,
		Extensions:     exts,
		Drivers:        surfaces,
		Served:         inst.serves,
		LegacyExposure: l.opts.legacy,
	}

	l.track(inst)
	Logger().Info("vkloader: instance created",
		"version", version.String(), "drivers", len(inst.drivers), "devices", inst.reg.Len())
	return inst, nil
}

func (inst *Instance) serves(name string) bool {
	if _, ok := inst.procs[name]; ok {
		return true
	}
	return inst.disp.Serves(name)
}

// APIVersion returns the instance's negotiated API version.
func (inst *Instance) APIVersion() vk.Version { return inst.version }

// Extensions returns the enabled instance extensions in request order.
func (inst *Instance) Extensions() []string {
	out := make([]string, len(inst.names))
	copy(out, inst.names)
	return out
}

// Enabled reports whether ext was enabled at creation.
func (inst *Instance) Enabled(ext string) bool { return inst.exts.Has(ext) }

// Drivers returns the drivers participating in the instance, in load order.
func (inst *Instance) Drivers() []*icd.Driver {
	out := make([]*icd.Driver, len(inst.drivers))
	copy(out, inst.drivers)
	return out
}

// PhysicalDevices returns every physical device of the instance in
// enumeration order.
func (inst *Instance) PhysicalDevices() []*registry.PhysicalDevice {
	return inst.reg.Devices()
}

// EnumeratePhysicalDevices lists the physical devices of all drivers
// following the counting protocol.
func (inst *Instance) EnumeratePhysicalDevices(count *uint32, out []*registry.PhysicalDevice) vk.Result {
	return enumerate(count, out, inst.reg.Devices())
}

// GetProcAddr is shorthand for inst's loader GetInstanceProcAddr.
func (inst *Instance) GetProcAddr(name string) vk.Proc {
	return inst.loader.GetInstanceProcAddr(inst, name)
}

// Destroy releases the instance's drivers and devices. Physical-device
// handles of the instance must not be used afterwards. Destroy is
// idempotent.
func (inst *Instance) Destroy() {
	if inst.destroyed {
		return
	}
	inst.destroyed = true
	for _, d := range inst.drivers {
		inst.reg.Release(d)
	}
	inst.loader.untrack(inst)
	Logger().Info("vkloader: instance destroyed", "version", inst.version.String())
}
