package icd

func is[F any](v any) bool {
	_, ok := v.(F)
	return ok
}

// signatures maps core entry point names to a check of the driver-side
// function type. Names absent here are accepted as exported.
var signatures = map[string]func(any) bool{
	"vkCreateInstance":           is[CreateInstanceFunc],
	"vkDestroyInstance":          is[DestroyInstanceFunc],
	"vkEnumeratePhysicalDevices": is[EnumeratePhysicalDevicesFunc],

	"vkGetPhysicalDeviceFeatures":                    is[GetPhysicalDeviceFeaturesFunc],
	"vkGetPhysicalDeviceProperties":                  is[GetPhysicalDevicePropertiesFunc],
	"vkGetPhysicalDeviceFormatProperties":            is[GetPhysicalDeviceFormatPropertiesFunc],
	"vkGetPhysicalDeviceImageFormatProperties":       is[GetPhysicalDeviceImageFormatPropertiesFunc],
	"vkGetPhysicalDeviceQueueFamilyProperties":       is[GetPhysicalDeviceQueueFamilyPropertiesFunc],
	"vkGetPhysicalDeviceMemoryProperties":            is[GetPhysicalDeviceMemoryPropertiesFunc],
	"vkGetPhysicalDeviceSparseImageFormatProperties": is[GetPhysicalDeviceSparseImageFormatPropertiesFunc],
	"vkEnumerateDeviceExtensionProperties":           is[EnumerateDeviceExtensionPropertiesFunc],

	"vkGetPhysicalDeviceFeatures2":                    is[GetPhysicalDeviceFeatures2Func],
	"vkGetPhysicalDeviceProperties2":                  is[GetPhysicalDeviceProperties2Func],
	"vkGetPhysicalDeviceFormatProperties2":            is[GetPhysicalDeviceFormatProperties2Func],
	"vkGetPhysicalDeviceImageFormatProperties2":       is[GetPhysicalDeviceImageFormatProperties2Func],
	"vkGetPhysicalDeviceQueueFamilyProperties2":       is[GetPhysicalDeviceQueueFamilyProperties2Func],
	"vkGetPhysicalDeviceMemoryProperties2":            is[GetPhysicalDeviceMemoryProperties2Func],
	"vkGetPhysicalDeviceSparseImageFormatProperties2": is[GetPhysicalDeviceSparseImageFormatProperties2Func],
	"vkGetPhysicalDeviceExternalBufferProperties":     is[GetPhysicalDeviceExternalBufferPropertiesFunc],
	"vkGetPhysicalDeviceExternalSemaphoreProperties":  is[GetPhysicalDeviceExternalSemaphorePropertiesFunc],
	"vkGetPhysicalDeviceExternalFenceProperties":      is[GetPhysicalDeviceExternalFencePropertiesFunc],
	"vkGetPhysicalDeviceToolProperties":               is[GetPhysicalDeviceToolPropertiesFunc],
}

func signatureMatches(name string, f any) bool {
	check, ok := signatures[name]
	if !ok {
		return true
	}
	return check(f)
}
