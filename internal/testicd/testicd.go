// Package testicd provides a configurable in-process driver for tests.
//
// A Driver exports, by default, what a well-behaved driver of its version
// would: every 1.0 entry point, every core entry point up to its version
// and the aliases of the extensions it advertises. Symbols and Hide adjust
// that surface to model drivers that break their contract.
package testicd

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/chain"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/vk"
)

// Device is a fake physical device.
type Device struct {
	Properties    vk.PhysicalDeviceProperties
	Features      vk.PhysicalDeviceFeatures
	Formats       map[vk.Format]vk.FormatProperties
	ImageFormat   vk.ImageFormatProperties
	ImageResult   vk.Result
	QueueFamilies []vk.QueueFamilyProperties
	Memory        vk.PhysicalDeviceMemoryProperties
	Sparse        []vk.SparseImageFormatProperties
	Extensions    []vk.ExtensionProperties
	Tools         []vk.PhysicalDeviceToolProperties

	// Values reported through extension structures by native entry points.
	Multiview  bool
	DeviceUUID uuid.UUID
	DriverUUID uuid.UUID
}

// NewDevice returns a device with plausible defaults.
func NewDevice(name string, version vk.Version) *Device {
	return &Device{
		Properties: vk.PhysicalDeviceProperties{
			APIVersion:    version,
			DriverVersion: 1,
			VendorID:      0x10005,
			DeviceID:      0x1,
			DeviceType:    gputypes.DeviceTypeCPU,
			DeviceName:    name,
			Limits:        gputypes.DefaultLimits(),
		},
		Features: vk.PhysicalDeviceFeatures{RobustBufferAccess: true, SamplerAnisotropy: true},
		Formats: map[vk.Format]vk.FormatProperties{
			gputypes.TextureFormatRGBA8Unorm: {
				OptimalTilingFeatures: vk.FormatFeatureSampledImage | vk.FormatFeatureColorAttachment,
			},
		},
		ImageFormat: vk.ImageFormatProperties{
			MaxExtent:      gputypes.Extent3D{Width: 4096, Height: 4096, DepthOrArrayLayers: 1},
			MaxMipLevels:   13,
			MaxArrayLayers: 256,
			SampleCounts:   vk.SampleCount1 | vk.SampleCount4,
		},
		QueueFamilies: []vk.QueueFamilyProperties{
			{QueueFlags: vk.QueueGraphics | vk.QueueCompute | vk.QueueTransfer, QueueCount: 1, TimestampValidBits: 64},
			{QueueFlags: vk.QueueTransfer, QueueCount: 2},
		},
		Memory: vk.PhysicalDeviceMemoryProperties{
			MemoryTypes: []vk.MemoryType{{PropertyFlags: vk.MemoryPropertyDeviceLocal | vk.MemoryPropertyHostVisible}},
			MemoryHeaps: []vk.MemoryHeap{{Size: 1 << 30, Flags: vk.MemoryHeapDeviceLocal}},
		},
		Sparse: []vk.SparseImageFormatProperties{
			{AspectMask: vk.ImageAspectColor, ImageGranularity: gputypes.Extent3D{Width: 64, Height: 64, DepthOrArrayLayers: 1}},
		},
		Multiview:  true,
		DeviceUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)),
		DriverUUID: uuid.NewSHA1(uuid.NameSpaceOID, []byte("testicd")),
	}
}

// Driver is a fake driver source.
type Driver struct {
	Library    string
	Version    vk.Version
	Extensions []vk.ExtensionProperties
	Devices    []*Device

	// Symbols, when non-nil, is the exact exported surface.
	Symbols []string

	// Hide removes symbols from the default surface.
	Hide []string

	// CreateResult is returned by vkCreateInstance.
	CreateResult vk.Result

	mu        sync.Mutex
	calls     map[string]int
	created   *icd.InstanceCreateInfo
	destroyed bool
}

// New returns a driver with the given library name and version, advertising
// exts and owning devs.
func New(library string, version vk.Version, exts []string, devs ...*Device) *Driver {
	d := &Driver{Library: library, Version: version, Devices: devs}
	for _, e := range exts {
		d.Extensions = append(d.Extensions, vk.ExtensionProperties{ExtensionName: e, SpecVersion: 1})
	}
	return d
}

// Name implements icd.Source.
func (d *Driver) Name() string { return d.Library }

// APIVersion implements icd.Source.
func (d *Driver) APIVersion() vk.Version { return d.Version }

// InstanceExtensions implements icd.Source.
func (d *Driver) InstanceExtensions() []vk.ExtensionProperties { return d.Extensions }

// Calls returns how many times the entry point name was invoked.
func (d *Driver) Calls(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[name]
}

// Created returns the info passed to vkCreateInstance, or nil.
func (d *Driver) Created() *icd.InstanceCreateInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created
}

// Destroyed reports whether vkDestroyInstance was called.
func (d *Driver) Destroyed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed
}

func (d *Driver) count(name string) {
	d.mu.Lock()
	if d.calls == nil {
		d.calls = make(map[string]int)
	}
	d.calls[name]++
	d.mu.Unlock()
}

func (d *Driver) advertises(ext string) bool {
	for _, e := range d.Extensions {
		if e.ExtensionName == ext {
			return true
		}
	}
	for _, dev := range d.Devices {
		for _, e := range dev.Extensions {
			if e.ExtensionName == ext {
				return true
			}
		}
	}
	return false
}

// exports reports whether name is part of the driver's surface.
func (d *Driver) exports(name string) bool {
	if d.Symbols != nil {
		return slices.Contains(d.Symbols, name)
	}
	if slices.Contains(d.Hide, name) {
		return false
	}
	e, ok := catalog.Default().Lookup(name)
	if !ok {
		return false
	}
	if name == e.Name {
		return d.Version.AtLeast(e.Core)
	}
	return d.advertises(e.Extension)
}

// GetProcAddr implements icd.Source.
func (d *Driver) GetProcAddr(name string) any {
	if !d.exports(name) {
		return nil
	}
	e, ok := catalog.Default().Lookup(name)
	if !ok {
		return nil
	}
	return d.impl(e.Name, name)
}

func dev(pd icd.NativeDevice) *Device { return pd.(*Device) }

// impl returns the implementation of the core entry point core, counting
// calls under the requested symbol.
func (d *Driver) impl(core, symbol string) any {
	switch core {
	case "vkCreateInstance":
		return icd.CreateInstanceFunc(func(info *icd.InstanceCreateInfo) vk.Result {
			d.count(symbol)
			d.mu.Lock()
			cp := *info
			d.created = &cp
			d.mu.Unlock()
			return d.CreateResult
		})
	case "vkDestroyInstance":
		return icd.DestroyInstanceFunc(func() {
			d.count(symbol)
			d.mu.Lock()
			d.destroyed = true
			d.mu.Unlock()
		})
	case "vkEnumeratePhysicalDevices":
		return icd.EnumeratePhysicalDevicesFunc(func(count *uint32, out []icd.NativeDevice) vk.Result {
			d.count(symbol)
			all := make([]icd.NativeDevice, len(d.Devices))
			for i, dv := range d.Devices {
				all[i] = dv
			}
			return fill(count, out, all)
		})
	case "vkGetPhysicalDeviceFeatures":
		return icd.GetPhysicalDeviceFeaturesFunc(func(pd icd.NativeDevice, out *vk.PhysicalDeviceFeatures) {
			d.count(symbol)
			*out = dev(pd).Features
		})
	case "vkGetPhysicalDeviceProperties":
		return icd.GetPhysicalDevicePropertiesFunc(func(pd icd.NativeDevice, out *vk.PhysicalDeviceProperties) {
			d.count(symbol)
			*out = dev(pd).Properties
		})
	case "vkGetPhysicalDeviceFormatProperties":
		return icd.GetPhysicalDeviceFormatPropertiesFunc(func(pd icd.NativeDevice, f vk.Format, out *vk.FormatProperties) {
			d.count(symbol)
			*out = dev(pd).Formats[f]
		})
	case "vkGetPhysicalDeviceImageFormatProperties":
		return icd.GetPhysicalDeviceImageFormatPropertiesFunc(func(pd icd.NativeDevice, _ vk.Format, _ vk.ImageType, _ vk.ImageTiling, _ vk.ImageUsageFlags, _ vk.ImageCreateFlags, out *vk.ImageFormatProperties) vk.Result {
			d.count(symbol)
			if dev(pd).ImageResult.IsError() {
				return dev(pd).ImageResult
			}
			*out = dev(pd).ImageFormat
			return vk.Success
		})
	case "vkGetPhysicalDeviceQueueFamilyProperties":
		return icd.GetPhysicalDeviceQueueFamilyPropertiesFunc(func(pd icd.NativeDevice, count *uint32, out []vk.QueueFamilyProperties) {
			d.count(symbol)
			fill(count, out, dev(pd).QueueFamilies)
		})
	case "vkGetPhysicalDeviceMemoryProperties":
		return icd.GetPhysicalDeviceMemoryPropertiesFunc(func(pd icd.NativeDevice, out *vk.PhysicalDeviceMemoryProperties) {
			d.count(symbol)
			*out = dev(pd).Memory
		})
	case "vkGetPhysicalDeviceSparseImageFormatProperties":
		return icd.GetPhysicalDeviceSparseImageFormatPropertiesFunc(func(pd icd.NativeDevice, _ vk.Format, _ vk.ImageType, _ vk.SampleCountFlags, _ vk.ImageUsageFlags, _ vk.ImageTiling, count *uint32, out []vk.SparseImageFormatProperties) {
			d.count(symbol)
			fill(count, out, dev(pd).Sparse)
		})
	case "vkEnumerateDeviceExtensionProperties":
		return icd.EnumerateDeviceExtensionPropertiesFunc(func(pd icd.NativeDevice, _ string, count *uint32, out []vk.ExtensionProperties) vk.Result {
			d.count(symbol)
			return fill(count, out, dev(pd).Extensions)
		})

	case "vkGetPhysicalDeviceFeatures2":
		return icd.GetPhysicalDeviceFeatures2Func(func(pd icd.NativeDevice, out *vk.PhysicalDeviceFeatures2) {
			d.count(symbol)
			out.Features = dev(pd).Features
			if mv, ok := chain.Find[vk.PhysicalDeviceMultiviewFeatures](out.Next); ok {
				mv.Multiview = dev(pd).Multiview
			}
		})
	case "vkGetPhysicalDeviceProperties2":
		return icd.GetPhysicalDeviceProperties2Func(func(pd icd.NativeDevice, out *vk.PhysicalDeviceProperties2) {
			d.count(symbol)
			out.Properties = dev(pd).Properties
			if id, ok := chain.Find[vk.PhysicalDeviceIDProperties](out.Next); ok {
				id.DeviceUUID = dev(pd).DeviceUUID
				id.DriverUUID = dev(pd).DriverUUID
				id.DeviceNodeMask = 1
				id.DeviceLUIDValid = true
			}
		})
	case "vkGetPhysicalDeviceFormatProperties2":
		return icd.GetPhysicalDeviceFormatProperties2Func(func(pd icd.NativeDevice, f vk.Format, out *vk.FormatProperties2) {
			d.count(symbol)
			out.FormatProperties = dev(pd).Formats[f]
		})
	case "vkGetPhysicalDeviceImageFormatProperties2":
		return icd.GetPhysicalDeviceImageFormatProperties2Func(func(pd icd.NativeDevice, _ *vk.PhysicalDeviceImageFormatInfo2, out *vk.ImageFormatProperties2) vk.Result {
			d.count(symbol)
			if dev(pd).ImageResult.IsError() {
				return dev(pd).ImageResult
			}
			out.ImageFormatProperties = dev(pd).ImageFormat
			return vk.Success
		})
	case "vkGetPhysicalDeviceQueueFamilyProperties2":
		return icd.GetPhysicalDeviceQueueFamilyProperties2Func(func(pd icd.NativeDevice, count *uint32, out []vk.QueueFamilyProperties2) {
			d.count(symbol)
			src := dev(pd).QueueFamilies
			if out == nil {
				*count = uint32(len(src))
				return
			}
			n := min(int(*count), len(out), len(src))
			for i := range n {
				out[i].QueueFamilyProperties = src[i]
			}
			*count = uint32(n)
		})
	case "vkGetPhysicalDeviceMemoryProperties2":
		return icd.GetPhysicalDeviceMemoryProperties2Func(func(pd icd.NativeDevice, out *vk.PhysicalDeviceMemoryProperties2) {
			d.count(symbol)
			out.MemoryProperties = dev(pd).Memory
		})
	case "vkGetPhysicalDeviceSparseImageFormatProperties2":
		return icd.GetPhysicalDeviceSparseImageFormatProperties2Func(func(pd icd.NativeDevice, _ *vk.PhysicalDeviceSparseImageFormatInfo2, count *uint32, out []vk.SparseImageFormatProperties2) {
			d.count(symbol)
			src := dev(pd).Sparse
			if out == nil {
				*count = uint32(len(src))
				return
			}
			n := min(int(*count), len(out), len(src))
			for i := range n {
				out[i].Properties = src[i]
			}
			*count = uint32(n)
		})
	case "vkGetPhysicalDeviceExternalBufferProperties":
		return icd.GetPhysicalDeviceExternalBufferPropertiesFunc(func(_ icd.NativeDevice, info *vk.PhysicalDeviceExternalBufferInfo, out *vk.ExternalBufferProperties) {
			d.count(symbol)
			out.ExternalMemoryProperties = vk.ExternalMemoryProperties{
				ExternalMemoryFeatures: 1,
				CompatibleHandleTypes:  info.HandleType,
			}
		})
	case "vkGetPhysicalDeviceExternalSemaphoreProperties":
		return icd.GetPhysicalDeviceExternalSemaphorePropertiesFunc(func(_ icd.NativeDevice, info *vk.PhysicalDeviceExternalSemaphoreInfo, out *vk.ExternalSemaphoreProperties) {
			d.count(symbol)
			out.CompatibleHandleTypes = info.HandleType
			out.ExportFromImportedHandleTypes = info.HandleType
			out.ExternalSemaphoreFeatures = 3
		})
	case "vkGetPhysicalDeviceExternalFenceProperties":
		return icd.GetPhysicalDeviceExternalFencePropertiesFunc(func(_ icd.NativeDevice, info *vk.PhysicalDeviceExternalFenceInfo, out *vk.ExternalFenceProperties) {
			d.count(symbol)
			out.CompatibleHandleTypes = info.HandleType
			out.ExportFromImportedHandleTypes = info.HandleType
			out.ExternalFenceFeatures = 3
		})
	case "vkGetPhysicalDeviceToolProperties":
		return icd.GetPhysicalDeviceToolPropertiesFunc(func(pd icd.NativeDevice, count *uint32, out []vk.PhysicalDeviceToolProperties) vk.Result {
			d.count(symbol)
			src := dev(pd).Tools
			if out == nil {
				*count = uint32(len(src))
				return vk.Success
			}
			n := min(int(*count), len(out), len(src))
			for i := range n {
				next := out[i].Next
				out[i] = src[i]
				out[i].Next = next
			}
			*count = uint32(n)
			if n < len(src) {
				return vk.Incomplete
			}
			return vk.Success
		})
	}
	return nil
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

var _ icd.Source = (*Driver)(nil)
