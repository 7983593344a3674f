package terminator

import (
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/vk"
)

// GetPhysicalDeviceToolProperties reports the tools active on the driver.
//
// A device that reports 1.3 should export the core symbol; one that does
// not is reported and the call falls back to the EXT alias like an older
// device would, when the driver advertises it. Without either, no tools
// are reported: the loader itself is not a tool.
func (t *Dispatcher) GetPhysicalDeviceToolProperties(pd *registry.PhysicalDevice, count *uint32, out []vk.PhysicalDeviceToolProperties) vk.Result {
	const name = "vkGetPhysicalDeviceToolProperties"
	d, native, props := registry.Lookup(pd)
	e, _ := t.cat.Lookup(name)

	if out == nil {
		*count = 0
	}
	if core, ok := icd.Lookup[icd.GetPhysicalDeviceToolPropertiesFunc](d, e.Name); ok {
		return core(native, count, out)
	}
	if props.APIVersion.AtLeast(e.Core) {
		t.unsupported(name, pd)
	}
	if e.Alias != "" && d.Supports(e.Extension) {
		if alias, ok := icd.Lookup[icd.GetPhysicalDeviceToolPropertiesFunc](d, e.Alias); ok {
			return alias(native, count, out)
		}
	}
	*count = 0
	return vk.Success
}
