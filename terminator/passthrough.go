package terminator

import (
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/vk"
)

// The 1.0 queries forward to the owning driver unchanged. Every driver is
// required to export them, so a missing symbol is reported as a driver
// fault and the output is left untouched.

func base10[F any](t *Dispatcher, pd *registry.PhysicalDevice, name string) (F, bool) {
	f, ok := icd.Lookup[F](pd.Driver(), name)
	if !ok {
		t.unsupported(name, pd)
	}
	return f, ok
}

// GetPhysicalDeviceFeatures forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceFeatures(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceFeatures) {
	if f, ok := base10[icd.GetPhysicalDeviceFeaturesFunc](t, pd, "vkGetPhysicalDeviceFeatures"); ok {
		f(pd.Native(), out)
	}
}

// GetPhysicalDeviceProperties forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceProperties(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceProperties) {
	if f, ok := base10[icd.GetPhysicalDevicePropertiesFunc](t, pd, "vkGetPhysicalDeviceProperties"); ok {
		f(pd.Native(), out)
	}
}

// GetPhysicalDeviceFormatProperties forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceFormatProperties(pd *registry.PhysicalDevice, format vk.Format, out *vk.FormatProperties) {
	if f, ok := base10[icd.GetPhysicalDeviceFormatPropertiesFunc](t, pd, "vkGetPhysicalDeviceFormatProperties"); ok {
		f(pd.Native(), format, out)
	}
}

// GetPhysicalDeviceImageFormatProperties forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceImageFormatProperties(pd *registry.PhysicalDevice, format vk.Format, typ vk.ImageType, tiling vk.ImageTiling, usage vk.ImageUsageFlags, flags vk.ImageCreateFlags, out *vk.ImageFormatProperties) vk.Result {
	f, ok := base10[icd.GetPhysicalDeviceImageFormatPropertiesFunc](t, pd, "vkGetPhysicalDeviceImageFormatProperties")
	if !ok {
		return vk.ErrorInitializationFailed
	}
	return f(pd.Native(), format, typ, tiling, usage, flags, out)
}

// GetPhysicalDeviceQueueFamilyProperties forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceQueueFamilyProperties(pd *registry.PhysicalDevice, count *uint32, out []vk.QueueFamilyProperties) {
	if f, ok := base10[icd.GetPhysicalDeviceQueueFamilyPropertiesFunc](t, pd, "vkGetPhysicalDeviceQueueFamilyProperties"); ok {
		f(pd.Native(), count, out)
	}
}

// GetPhysicalDeviceMemoryProperties forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceMemoryProperties(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceMemoryProperties) {
	if f, ok := base10[icd.GetPhysicalDeviceMemoryPropertiesFunc](t, pd, "vkGetPhysicalDeviceMemoryProperties"); ok {
		f(pd.Native(), out)
	}
}

// GetPhysicalDeviceSparseImageFormatProperties forwards to the driver.
func (t *Dispatcher) GetPhysicalDeviceSparseImageFormatProperties(pd *registry.PhysicalDevice, format vk.Format, typ vk.ImageType, samples vk.SampleCountFlags, usage vk.ImageUsageFlags, tiling vk.ImageTiling, count *uint32, out []vk.SparseImageFormatProperties) {
	if f, ok := base10[icd.GetPhysicalDeviceSparseImageFormatPropertiesFunc](t, pd, "vkGetPhysicalDeviceSparseImageFormatProperties"); ok {
		f(pd.Native(), format, typ, samples, usage, tiling, count, out)
	}
}

// EnumerateDeviceExtensionProperties forwards to the driver.
func (t *Dispatcher) EnumerateDeviceExtensionProperties(pd *registry.PhysicalDevice, layer string, count *uint32, out []vk.ExtensionProperties) vk.Result {
	f, ok := base10[icd.EnumerateDeviceExtensionPropertiesFunc](t, pd, "vkEnumerateDeviceExtensionProperties")
	if !ok {
		return vk.ErrorInitializationFailed
	}
	return f(pd.Native(), layer, count, out)
}

// EnumerateDeviceLayerProperties is answered by the layers above the
// terminator. Reaching it means the call chain is broken.
func (t *Dispatcher) EnumerateDeviceLayerProperties(pd *registry.PhysicalDevice, count *uint32, _ []vk.LayerProperties) vk.Result {
	diag.Emitf(t.sink, diag.SeverityError, diag.KindProtocol, "",
		"vkEnumerateDeviceLayerProperties reached the terminator for device %q; layers must answer it", pd.Name())
	if count != nil {
		*count = 0
	}
	return vk.ErrorInitializationFailed
}
