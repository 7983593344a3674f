// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !(js && wasm)

// Package haldriver exposes the adapters of a wgpu HAL backend as an
// in-process driver.
//
// Importing the package registers two drivers with package icd: "noop",
// backed by the wgpu noop backend, and "software", backed by the CPU
// renderer. Both report one physical device.
//
//	import _ "github.com/gogpu/vkloader/driver/haldriver"
//
// By default a driver reports API version 1.0 and advertises
// VK_KHR_get_physical_device_properties2, exporting the extended queries
// under their KHR names only. WithAPIVersion raises the version, which
// exports the core names up to it.
package haldriver

import (
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/vk"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
	"github.com/gogpu/wgpu/hal/software"
)

func init() {
	icd.Register(icd.DriverNoop, func() icd.Source { return Noop() })
	icd.Register(icd.DriverSoftware, func() icd.Source { return Software() })
}

// Option configures a Driver.
type Option func(*config)

type config struct {
	version    vk.Version
	extensions []vk.ExtensionProperties
	hide       []string
}

// WithAPIVersion sets the API version the driver reports. Core entry
// points up to the version are exported under their core names.
func WithAPIVersion(v vk.Version) Option {
	return func(c *config) { c.version = v }
}

// WithExtensions replaces the advertised instance extensions.
func WithExtensions(names ...string) Option {
	return func(c *config) {
		c.extensions = c.extensions[:0]
		for _, n := range names {
			c.extensions = append(c.extensions, vk.ExtensionProperties{ExtensionName: n, SpecVersion: 1})
		}
	}
}

// WithHidden removes entry points from the exported surface.
func WithHidden(names ...string) Option {
	return func(c *config) { c.hide = append(c.hide, names...) }
}

// Driver is an icd.Source backed by a HAL backend. The HAL instance is
// created by the first vkCreateInstance and released by the matching last
// vkDestroyInstance, so one Driver may take part in several loader
// instances.
type Driver struct {
	name    string
	backend hal.Backend
	cfg     config

	mu      sync.Mutex
	refs    int
	inst    hal.Instance
	devices []*Device
}

// New returns a driver named name over backend.
func New(name string, backend hal.Backend, opts ...Option) *Driver {
	cfg := config{
		version:    vk.APIVersion1_0,
		extensions: []vk.ExtensionProperties{{ExtensionName: vk.KHRGetPhysicalDeviceProperties2, SpecVersion: 2}},
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Driver{name: name, backend: backend, cfg: cfg}
}

// Noop returns a driver over the wgpu noop backend.
func Noop(opts ...Option) *Driver {
	return New(icd.DriverNoop, noop.API{}, opts...)
}

// Software returns a driver over the wgpu software backend.
func Software(opts ...Option) *Driver {
	return New(icd.DriverSoftware, software.API{}, opts...)
}

// Name implements icd.Source.
func (d *Driver) Name() string { return d.name }

// APIVersion implements icd.Source.
func (d *Driver) APIVersion() vk.Version { return d.cfg.version }

// InstanceExtensions implements icd.Source.
func (d *Driver) InstanceExtensions() []vk.ExtensionProperties {
	out := make([]vk.ExtensionProperties, len(d.cfg.extensions))
	copy(out, d.cfg.extensions)
	return out
}

func (d *Driver) advertises(ext string) bool {
	for _, e := range d.cfg.extensions {
		if e.ExtensionName == ext {
			return true
		}
	}
	return false
}

func (d *Driver) exports(name string) bool {
	for _, h := range d.cfg.hide {
		if h == name {
			return false
		}
	}
	e, ok := catalog.Default().Lookup(name)
	if !ok {
		return false
	}
	if name == e.Name {
		return d.cfg.version.AtLeast(e.Core)
	}
	return d.advertises(e.Extension)
}

// GetProcAddr implements icd.Source.
func (d *Driver) GetProcAddr(name string) any {
	if !d.exports(name) {
		return nil
	}
	e, _ := catalog.Default().Lookup(name)
	return d.proc(e.Name)
}

func (d *Driver) createInstance(*icd.InstanceCreateInfo) vk.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs > 0 {
		d.refs++
		return vk.Success
	}
	inst, err := d.backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return vk.ErrorInitializationFailed
	}
	d.inst = inst
	d.devices = d.devices[:0]
	for i, a := range inst.EnumerateAdapters(nil) {
		d.devices = append(d.devices, newDevice(d.name, i, d.cfg.version, a))
	}
	d.refs = 1
	return vk.Success
}

func (d *Driver) destroyInstance() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs == 0 {
		return
	}
	d.refs--
	if d.refs > 0 {
		return
	}
	for _, dev := range d.devices {
		dev.adapter.Adapter.Destroy()
	}
	d.devices = nil
	d.inst.Destroy()
	d.inst = nil
}

func (d *Driver) enumeratePhysicalDevices(count *uint32, out []icd.NativeDevice) vk.Result {
	d.mu.Lock()
	all := make([]icd.NativeDevice, len(d.devices))
	for i, dev := range d.devices {
		all[i] = dev
	}
	d.mu.Unlock()
	return fill(count, out, all)
}

// Device is a physical device of a Driver, wrapping one HAL adapter.
type Device struct {
	adapter    hal.ExposedAdapter
	props      vk.PhysicalDeviceProperties
	deviceUUID uuid.UUID
	driverUUID uuid.UUID
}

func newDevice(driver string, index int, version vk.Version, a hal.ExposedAdapter) *Device {
	info := a.Info
	key := driver + "/" + info.Name + "/" + strconv.Itoa(index)
	return &Device{
		adapter: a,
		props: vk.PhysicalDeviceProperties{
			APIVersion:        version,
			DriverVersion:     driverVersion(info.Driver),
			VendorID:          info.VendorID,
			DeviceID:          info.DeviceID,
			DeviceType:        info.DeviceType,
			DeviceName:        info.Name,
			PipelineCacheUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(key+"/"+info.Driver)),
			Limits:            a.Capabilities.Limits,
		},
		deviceUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)),
		driverUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(info.Driver)),
	}
}

// Info returns the HAL adapter information.
func (dev *Device) Info() gputypes.AdapterInfo { return dev.adapter.Info }

// driverVersion packs the version suffix of a HAL driver string such as
// "software-1.0". Unparseable strings yield 0.
func driverVersion(driver string) uint32 {
	i := strings.LastIndexByte(driver, '-')
	if i < 0 {
		return 0
	}
	v, err := semver.NewVersion(driver[i+1:])
	if err != nil {
		return 0
	}
	return uint32(vk.MakeVersion(0, uint32(v.Major()), uint32(v.Minor()), uint32(v.Patch())))
}

// fill implements the counting protocol over src.
func fill[T any](count *uint32, out []T, src []T) vk.Result {
	if out == nil {
		*count = uint32(len(src))
		return vk.Success
	}
	n := copy(out[:min(int(*count), len(out))], src)
	*count = uint32(n)
	if n < len(src) {
		return vk.Incomplete
	}
	return vk.Success
}
