//go:build !(js && wasm)

package haldriver

import (
	"math/bits"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vkloader/chain"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/vk"
	"github.com/gogpu/wgpu/hal"
)

func dev(pd icd.NativeDevice) *Device { return pd.(*Device) }

// proc returns the implementation of the core entry point name.
func (d *Driver) proc(name string) any {
	switch name {
	case "vkCreateInstance":
		return icd.CreateInstanceFunc(d.createInstance)
	case "vkDestroyInstance":
		return icd.DestroyInstanceFunc(d.destroyInstance)
	case "vkEnumeratePhysicalDevices":
		return icd.EnumeratePhysicalDevicesFunc(d.enumeratePhysicalDevices)

	case "vkGetPhysicalDeviceFeatures":
		return icd.GetPhysicalDeviceFeaturesFunc(func(pd icd.NativeDevice, out *vk.PhysicalDeviceFeatures) {
			*out = dev(pd).features()
		})
	case "vkGetPhysicalDeviceProperties":
		return icd.GetPhysicalDevicePropertiesFunc(func(pd icd.NativeDevice, out *vk.PhysicalDeviceProperties) {
			*out = dev(pd).props
		})
	case "vkGetPhysicalDeviceFormatProperties":
		return icd.GetPhysicalDeviceFormatPropertiesFunc(func(pd icd.NativeDevice, f vk.Format, out *vk.FormatProperties) {
			*out = dev(pd).formatProperties(f)
		})
	case "vkGetPhysicalDeviceImageFormatProperties":
		return icd.GetPhysicalDeviceImageFormatPropertiesFunc(func(pd icd.NativeDevice, f vk.Format, typ vk.ImageType, tiling vk.ImageTiling, usage vk.ImageUsageFlags, flags vk.ImageCreateFlags, out *vk.ImageFormatProperties) vk.Result {
			return dev(pd).imageFormatProperties(f, typ, tiling, usage, flags, out)
		})
	case "vkGetPhysicalDeviceQueueFamilyProperties":
		return icd.GetPhysicalDeviceQueueFamilyPropertiesFunc(func(pd icd.NativeDevice, count *uint32, out []vk.QueueFamilyProperties) {
			fill(count, out, dev(pd).queueFamilies())
		})
	case "vkGetPhysicalDeviceMemoryProperties":
		return icd.GetPhysicalDeviceMemoryPropertiesFunc(func(pd icd.NativeDevice, out *vk.PhysicalDeviceMemoryProperties) {
			*out = dev(pd).memoryProperties()
		})
	case "vkGetPhysicalDeviceSparseImageFormatProperties":
		// HAL backends have no sparse resources.
		return icd.GetPhysicalDeviceSparseImageFormatPropertiesFunc(func(_ icd.NativeDevice, _ vk.Format, _ vk.ImageType, _ vk.SampleCountFlags, _ vk.ImageUsageFlags, _ vk.ImageTiling, count *uint32, _ []vk.SparseImageFormatProperties) {
			*count = 0
		})
	case "vkEnumerateDeviceExtensionProperties":
		return icd.EnumerateDeviceExtensionPropertiesFunc(func(_ icd.NativeDevice, _ string, count *uint32, _ []vk.ExtensionProperties) vk.Result {
			*count = 0
			return vk.Success
		})

	case "vkGetPhysicalDeviceFeatures2":
		return icd.GetPhysicalDeviceFeatures2Func(func(pd icd.NativeDevice, out *vk.PhysicalDeviceFeatures2) {
			out.Features = dev(pd).features()
			if mv, ok := chain.Find[vk.PhysicalDeviceMultiviewFeatures](out.Next); ok {
				mv.Multiview = false
				mv.MultiviewGeometryShader = false
				mv.MultiviewTessellationShader = false
			}
		})
	case "vkGetPhysicalDeviceProperties2":
		return icd.GetPhysicalDeviceProperties2Func(func(pd icd.NativeDevice, out *vk.PhysicalDeviceProperties2) {
			dv := dev(pd)
			out.Properties = dv.props
			if id, ok := chain.Find[vk.PhysicalDeviceIDProperties](out.Next); ok {
				id.DeviceUUID = dv.deviceUUID
				id.DriverUUID = dv.driverUUID
				id.DeviceLUID = [vk.LUIDSize]byte{}
				id.DeviceNodeMask = 0
				id.DeviceLUIDValid = false
			}
			if drv, ok := chain.Find[vk.PhysicalDeviceDriverProperties](out.Next); ok {
				drv.DriverName = dv.adapter.Info.Driver
				drv.DriverInfo = dv.adapter.Info.DriverInfo
			}
		})
	case "vkGetPhysicalDeviceFormatProperties2":
		return icd.GetPhysicalDeviceFormatProperties2Func(func(pd icd.NativeDevice, f vk.Format, out *vk.FormatProperties2) {
			out.FormatProperties = dev(pd).formatProperties(f)
		})
	case "vkGetPhysicalDeviceImageFormatProperties2":
		return icd.GetPhysicalDeviceImageFormatProperties2Func(func(pd icd.NativeDevice, info *vk.PhysicalDeviceImageFormatInfo2, out *vk.ImageFormatProperties2) vk.Result {
			if ext, ok := chain.Find[vk.PhysicalDeviceExternalImageFormatInfo](info.Next); ok && ext.HandleType != 0 {
				return vk.ErrorFormatNotSupported
			}
			return dev(pd).imageFormatProperties(info.Format, info.Type, info.Tiling, info.Usage, info.Flags, &out.ImageFormatProperties)
		})
	case "vkGetPhysicalDeviceQueueFamilyProperties2":
		return icd.GetPhysicalDeviceQueueFamilyProperties2Func(func(pd icd.NativeDevice, count *uint32, out []vk.QueueFamilyProperties2) {
			src := dev(pd).queueFamilies()
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
			out.MemoryProperties = dev(pd).memoryProperties()
		})
	case "vkGetPhysicalDeviceSparseImageFormatProperties2":
		return icd.GetPhysicalDeviceSparseImageFormatProperties2Func(func(_ icd.NativeDevice, _ *vk.PhysicalDeviceSparseImageFormatInfo2, count *uint32, _ []vk.SparseImageFormatProperties2) {
			*count = 0
		})

	// HAL backends cannot share memory or synchronization primitives with
	// other APIs.
	case "vkGetPhysicalDeviceExternalBufferProperties":
		return icd.GetPhysicalDeviceExternalBufferPropertiesFunc(func(_ icd.NativeDevice, _ *vk.PhysicalDeviceExternalBufferInfo, out *vk.ExternalBufferProperties) {
			out.ExternalMemoryProperties = vk.ExternalMemoryProperties{}
		})
	case "vkGetPhysicalDeviceExternalSemaphoreProperties":
		return icd.GetPhysicalDeviceExternalSemaphorePropertiesFunc(func(_ icd.NativeDevice, _ *vk.PhysicalDeviceExternalSemaphoreInfo, out *vk.ExternalSemaphoreProperties) {
			out.ExportFromImportedHandleTypes = 0
			out.CompatibleHandleTypes = 0
			out.ExternalSemaphoreFeatures = 0
		})
	case "vkGetPhysicalDeviceExternalFenceProperties":
		return icd.GetPhysicalDeviceExternalFencePropertiesFunc(func(_ icd.NativeDevice, _ *vk.PhysicalDeviceExternalFenceInfo, out *vk.ExternalFenceProperties) {
			out.ExportFromImportedHandleTypes = 0
			out.CompatibleHandleTypes = 0
			out.ExternalFenceFeatures = 0
		})
	case "vkGetPhysicalDeviceToolProperties":
		return icd.GetPhysicalDeviceToolPropertiesFunc(func(_ icd.NativeDevice, count *uint32, _ []vk.PhysicalDeviceToolProperties) vk.Result {
			*count = 0
			return vk.Success
		})
	}
	return nil
}

func (dev *Device) features() vk.PhysicalDeviceFeatures {
	return vk.PhysicalDeviceFeatures{
		RobustBufferAccess: true,
		SamplerAnisotropy:  true,
		Optional:           dev.adapter.Features,
	}
}

// formatProperties maps the adapter's HAL capabilities for f.
func (dev *Device) formatProperties(f vk.Format) vk.FormatProperties {
	caps := dev.adapter.Adapter.TextureFormatCapabilities(f).Flags
	var optimal vk.FormatFeatureFlags
	if caps&hal.TextureFormatCapabilitySampled != 0 {
		optimal |= vk.FormatFeatureSampledImage | vk.FormatFeatureSampledImageFilterLinear |
			vk.FormatFeatureTransferSrc | vk.FormatFeatureTransferDst | vk.FormatFeatureBlitSrc
	}
	if caps&hal.TextureFormatCapabilityStorage != 0 {
		optimal |= vk.FormatFeatureStorageImage
	}
	if caps&hal.TextureFormatCapabilityRenderAttachment != 0 {
		if f.IsDepthStencil() {
			optimal |= vk.FormatFeatureDepthStencilAttachment
		} else {
			optimal |= vk.FormatFeatureColorAttachment | vk.FormatFeatureBlitDst
		}
	}
	if caps&hal.TextureFormatCapabilityBlendable != 0 && !f.IsDepthStencil() {
		optimal |= vk.FormatFeatureColorAttachmentBlend
	}
	linear := optimal & (vk.FormatFeatureSampledImage | vk.FormatFeatureTransferSrc | vk.FormatFeatureTransferDst)
	return vk.FormatProperties{LinearTilingFeatures: linear, OptimalTilingFeatures: optimal}
}

func (dev *Device) imageFormatProperties(f vk.Format, typ vk.ImageType, tiling vk.ImageTiling, usage vk.ImageUsageFlags, flags vk.ImageCreateFlags, out *vk.ImageFormatProperties) vk.Result {
	if flags&(vk.ImageCreateSparseBinding|vk.ImageCreateSparseResidency|vk.ImageCreateSparseAliased) != 0 {
		return vk.ErrorFormatNotSupported
	}
	fp := dev.formatProperties(f)
	feats := fp.OptimalTilingFeatures
	if tiling == vk.ImageTilingLinear {
		feats = fp.LinearTilingFeatures
	}
	if feats == 0 {
		return vk.ErrorFormatNotSupported
	}
	if usage&gputypes.TextureUsageTextureBinding != 0 && feats&vk.FormatFeatureSampledImage == 0 ||
		usage&gputypes.TextureUsageStorageBinding != 0 && feats&vk.FormatFeatureStorageImage == 0 ||
		usage&gputypes.TextureUsageRenderAttachment != 0 && feats&(vk.FormatFeatureColorAttachment|vk.FormatFeatureDepthStencilAttachment) == 0 {
		return vk.ErrorFormatNotSupported
	}

	lim := dev.props.Limits
	var props vk.ImageFormatProperties
	switch typ {
	case gputypes.TextureDimension1D:
		props.MaxExtent = gputypes.Extent3D{Width: lim.MaxTextureDimension1D, Height: 1, DepthOrArrayLayers: 1}
		props.MaxArrayLayers = lim.MaxTextureArrayLayers
	case gputypes.TextureDimension2D:
		props.MaxExtent = gputypes.Extent3D{Width: lim.MaxTextureDimension2D, Height: lim.MaxTextureDimension2D, DepthOrArrayLayers: 1}
		props.MaxArrayLayers = lim.MaxTextureArrayLayers
	case gputypes.TextureDimension3D:
		props.MaxExtent = gputypes.Extent3D{Width: lim.MaxTextureDimension3D, Height: lim.MaxTextureDimension3D, DepthOrArrayLayers: lim.MaxTextureDimension3D}
		props.MaxArrayLayers = 1
	default:
		return vk.ErrorFormatNotSupported
	}
	props.MaxMipLevels = uint32(bits.Len32(max(props.MaxExtent.Width, props.MaxExtent.Height, props.MaxExtent.DepthOrArrayLayers)))
	props.SampleCounts = vk.SampleCount1
	if tiling == vk.ImageTilingLinear {
		props.MaxMipLevels = 1
		props.MaxArrayLayers = 1
	} else if typ == gputypes.TextureDimension2D &&
		dev.adapter.Adapter.TextureFormatCapabilities(f).Flags&hal.TextureFormatCapabilityMultisample != 0 {
		props.SampleCounts |= vk.SampleCount4
	}
	props.MaxResourceSize = lim.MaxBufferSize
	*out = props
	return vk.Success
}

func (dev *Device) queueFamilies() []vk.QueueFamilyProperties {
	qf := vk.QueueFamilyProperties{
		QueueFlags:                  vk.QueueGraphics | vk.QueueCompute | vk.QueueTransfer,
		QueueCount:                  1,
		MinImageTransferGranularity: gputypes.Extent3D{Width: 1, Height: 1, DepthOrArrayLayers: 1},
	}
	if dev.adapter.Features.Contains(gputypes.FeatureTimestampQuery) {
		qf.TimestampValidBits = 64
	}
	return []vk.QueueFamilyProperties{qf}
}

// memoryProperties reports one heap sized by the adapter's buffer limit,
// shared by host and device.
func (dev *Device) memoryProperties() vk.PhysicalDeviceMemoryProperties {
	return vk.PhysicalDeviceMemoryProperties{
		MemoryTypes: []vk.MemoryType{{
			PropertyFlags: vk.MemoryPropertyDeviceLocal | vk.MemoryPropertyHostVisible | vk.MemoryPropertyHostCoherent,
		}},
		MemoryHeaps: []vk.MemoryHeap{{Size: dev.props.Limits.MaxBufferSize, Flags: vk.MemoryHeapDeviceLocal}},
	}
}
