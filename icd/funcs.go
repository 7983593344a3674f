package icd

import "github.com/gogpu/vkloader/vk"

// NativeDevice is a driver's own physical-device handle. The loader never
// looks inside it.
type NativeDevice = any

// InstanceCreateInfo is passed to a driver's vkCreateInstance.
type InstanceCreateInfo struct {
	APIVersion vk.Version
	Extensions []string
}

// Driver-side entry point types. They are aliases so that plain function
// values and method values satisfy them without conversion. Extension
// aliases share the type of their core entry point.
type (
	CreateInstanceFunc           = func(info *InstanceCreateInfo) vk.Result
	DestroyInstanceFunc          = func()
	EnumeratePhysicalDevicesFunc = func(count *uint32, devices []NativeDevice) vk.Result

	GetPhysicalDeviceFeaturesFunc                    = func(pd NativeDevice, out *vk.PhysicalDeviceFeatures)
	GetPhysicalDevicePropertiesFunc                  = func(pd NativeDevice, out *vk.PhysicalDeviceProperties)
	GetPhysicalDeviceFormatPropertiesFunc            = func(pd NativeDevice, format vk.Format, out *vk.FormatProperties)
	GetPhysicalDeviceImageFormatPropertiesFunc       = func(pd NativeDevice, format vk.Format, typ vk.ImageType, tiling vk.ImageTiling, usage vk.ImageUsageFlags, flags vk.ImageCreateFlags, out *vk.ImageFormatProperties) vk.Result
	GetPhysicalDeviceQueueFamilyPropertiesFunc       = func(pd NativeDevice, count *uint32, out []vk.QueueFamilyProperties)
	GetPhysicalDeviceMemoryPropertiesFunc            = func(pd NativeDevice, out *vk.PhysicalDeviceMemoryProperties)
	GetPhysicalDeviceSparseImageFormatPropertiesFunc = func(pd NativeDevice, format vk.Format, typ vk.ImageType, samples vk.SampleCountFlags, usage vk.ImageUsageFlags, tiling vk.ImageTiling, count *uint32, out []vk.SparseImageFormatProperties)
	EnumerateDeviceExtensionPropertiesFunc           = func(pd NativeDevice, layer string, count *uint32, out []vk.ExtensionProperties) vk.Result

	GetPhysicalDeviceFeatures2Func                    = func(pd NativeDevice, out *vk.PhysicalDeviceFeatures2)
	GetPhysicalDeviceProperties2Func                  = func(pd NativeDevice, out *vk.PhysicalDeviceProperties2)
	GetPhysicalDeviceFormatProperties2Func            = func(pd NativeDevice, format vk.Format, out *vk.FormatProperties2)
	GetPhysicalDeviceImageFormatProperties2Func       = func(pd NativeDevice, info *vk.PhysicalDeviceImageFormatInfo2, out *vk.ImageFormatProperties2) vk.Result
	GetPhysicalDeviceQueueFamilyProperties2Func       = func(pd NativeDevice, count *uint32, out []vk.QueueFamilyProperties2)
	GetPhysicalDeviceMemoryProperties2Func            = func(pd NativeDevice, out *vk.PhysicalDeviceMemoryProperties2)
	GetPhysicalDeviceSparseImageFormatProperties2Func = func(pd NativeDevice, info *vk.PhysicalDeviceSparseImageFormatInfo2, count *uint32, out []vk.SparseImageFormatProperties2)
	GetPhysicalDeviceExternalBufferPropertiesFunc     = func(pd NativeDevice, info *vk.PhysicalDeviceExternalBufferInfo, out *vk.ExternalBufferProperties)
	GetPhysicalDeviceExternalSemaphorePropertiesFunc  = func(pd NativeDevice, info *vk.PhysicalDeviceExternalSemaphoreInfo, out *vk.ExternalSemaphoreProperties)
	GetPhysicalDeviceExternalFencePropertiesFunc      = func(pd NativeDevice, info *vk.PhysicalDeviceExternalFenceInfo, out *vk.ExternalFenceProperties)
	GetPhysicalDeviceToolPropertiesFunc               = func(pd NativeDevice, count *uint32, out []vk.PhysicalDeviceToolProperties) vk.Result
)
