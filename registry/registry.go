// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package registry maps the physical-device handles given to applications
// to the driver that owns them.
//
// Entries are created once, at enumeration, and never updated. Lookups
// take no locks: a Registry is read-only between construction and the
// Release of a driver, and callers serialize those lifecycle operations.
// Using a handle after its driver was released, or a handle issued by a
// different Registry, is a caller error and is not detected.
package registry

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/vk"
)

// PhysicalDevice is the handle an application uses for capability
// queries.
type PhysicalDevice struct {
	driver *icd.Driver
	native icd.NativeDevice
	props  vk.PhysicalDeviceProperties
	index  int
}

// Driver returns the owning driver. It is never nil.
func (pd *PhysicalDevice) Driver() *icd.Driver { return pd.driver }

// Native returns the driver's own handle.
func (pd *PhysicalDevice) Native() icd.NativeDevice { return pd.native }

// Properties returns the properties cached at enumeration.
func (pd *PhysicalDevice) Properties() vk.PhysicalDeviceProperties { return pd.props }

// Index returns the position of pd in its registry's enumeration order.
func (pd *PhysicalDevice) Index() int { return pd.index }

// Name returns the device name for diagnostics.
func (pd *PhysicalDevice) Name() string { return pd.props.DeviceName }

// String identifies the device and its driver.
func (pd *PhysicalDevice) String() string {
	return fmt.Sprintf("%s (%s)", pd.props.DeviceName, pd.driver.Name())
}

// AdapterInfo classifies the device the way gogpu rendering libraries do.
func (pd *PhysicalDevice) AdapterInfo() gpucontext.AdapterInfo {
	t := gpucontext.AdapterTypeUnknown
	switch pd.props.DeviceType {
	case gputypes.DeviceTypeDiscreteGPU:
		t = gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		t = gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		t = gpucontext.AdapterTypeSoftware
	}
	return gpucontext.AdapterInfo{Name: pd.props.DeviceName, Type: t}
}

// Lookup returns the owning driver, the native handle and the cached
// properties of pd.
func Lookup(pd *PhysicalDevice) (*icd.Driver, icd.NativeDevice, vk.PhysicalDeviceProperties) {
	return pd.driver, pd.native, pd.props
}

// Registry holds the physical devices of one loader instance, in driver
// order.
type Registry struct {
	devices []*PhysicalDevice
}

// New returns an empty registry.
func New() *Registry { return &Registry{} }

// Add creates one entry per device of d, caching each device's properties
// with the driver's vkGetPhysicalDeviceProperties. It returns the new
// handles.
func (r *Registry) Add(d *icd.Driver) []*PhysicalDevice {
	getProps, _ := icd.Lookup[icd.GetPhysicalDevicePropertiesFunc](d, "vkGetPhysicalDeviceProperties")
	var added []*PhysicalDevice
	for _, native := range d.Devices() {
		pd := &PhysicalDevice{driver: d, native: native, index: len(r.devices)}
		if getProps != nil {
			getProps(native, &pd.props)
		}
		r.devices = append(r.devices, pd)
		added = append(added, pd)
	}
	return added
}

// Devices returns all handles in enumeration order.
func (r *Registry) Devices() []*PhysicalDevice {
	out := make([]*PhysicalDevice, len(r.devices))
	copy(out, r.devices)
	return out
}

// Len returns the number of handles.
func (r *Registry) Len() int { return len(r.devices) }

// Release drops every entry owned by d and destroys d.
func (r *Registry) Release(d *icd.Driver) {
	kept := r.devices[:0]
	for _, pd := range r.devices {
		if pd.driver != d {
			kept = append(kept, pd)
		}
	}
	clear(r.devices[len(kept):])
	r.devices = kept
	for i, pd := range r.devices {
		pd.index = i
	}
	d.Destroy()
}
