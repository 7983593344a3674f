package terminator

import (
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/vk"
)

// Application-facing entry point types returned by GetInstanceProcAddr.
// Extension aliases share the type of their core entry point.
type (
	GetPhysicalDeviceFeaturesFunc                    = func(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceFeatures)
	GetPhysicalDevicePropertiesFunc                  = func(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceProperties)
	GetPhysicalDeviceFormatPropertiesFunc            = func(pd *registry.PhysicalDevice, format vk.Format, out *vk.FormatProperties)
	GetPhysicalDeviceImageFormatPropertiesFunc       = func(pd *registry.PhysicalDevice, format vk.Format, typ vk.ImageType, tiling vk.ImageTiling, usage vk.ImageUsageFlags, flags vk.ImageCreateFlags, out *vk.ImageFormatProperties) vk.Result
	GetPhysicalDeviceQueueFamilyPropertiesFunc       = func(pd *registry.PhysicalDevice, count *uint32, out []vk.QueueFamilyProperties)
	GetPhysicalDeviceMemoryPropertiesFunc            = func(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceMemoryProperties)
	GetPhysicalDeviceSparseImageFormatPropertiesFunc = func(pd *registry.PhysicalDevice, format vk.Format, typ vk.ImageType, samples vk.SampleCountFlags, usage vk.ImageUsageFlags, tiling vk.ImageTiling, count *uint32, out []vk.SparseImageFormatProperties)
	EnumerateDeviceExtensionPropertiesFunc           = func(pd *registry.PhysicalDevice, layer string, count *uint32, out []vk.ExtensionProperties) vk.Result
	EnumerateDeviceLayerPropertiesFunc               = func(pd *registry.PhysicalDevice, count *uint32, out []vk.LayerProperties) vk.Result

	GetPhysicalDeviceFeatures2Func                    = func(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceFeatures2)
	GetPhysicalDeviceProperties2Func                  = func(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceProperties2)
	GetPhysicalDeviceFormatProperties2Func            = func(pd *registry.PhysicalDevice, format vk.Format, out *vk.FormatProperties2)
	GetPhysicalDeviceImageFormatProperties2Func       = func(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceImageFormatInfo2, out *vk.ImageFormatProperties2) vk.Result
	GetPhysicalDeviceQueueFamilyProperties2Func       = func(pd *registry.PhysicalDevice, count *uint32, out []vk.QueueFamilyProperties2)
	GetPhysicalDeviceMemoryProperties2Func            = func(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceMemoryProperties2)
	GetPhysicalDeviceSparseImageFormatProperties2Func = func(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceSparseImageFormatInfo2, count *uint32, out []vk.SparseImageFormatProperties2)
	GetPhysicalDeviceExternalBufferPropertiesFunc     = func(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceExternalBufferInfo, out *vk.ExternalBufferProperties)
	GetPhysicalDeviceExternalSemaphorePropertiesFunc  = func(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceExternalSemaphoreInfo, out *vk.ExternalSemaphoreProperties)
	GetPhysicalDeviceExternalFencePropertiesFunc      = func(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceExternalFenceInfo, out *vk.ExternalFenceProperties)
	GetPhysicalDeviceToolPropertiesFunc               = func(pd *registry.PhysicalDevice, count *uint32, out []vk.PhysicalDeviceToolProperties) vk.Result
)
