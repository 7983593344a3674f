package terminator

import (
	"fmt"

	"github.com/gogpu/vkloader/chain"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/scratch"
	"github.com/gogpu/vkloader/vk"
)

// GetPhysicalDeviceFeatures2 reports features, emulated from
// vkGetPhysicalDeviceFeatures with multiview forced off.
func (t *Dispatcher) GetPhysicalDeviceFeatures2(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceFeatures2) {
	const name = "vkGetPhysicalDeviceFeatures2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceFeatures2Func](t, name, d); ok {
		f(native, out)
		return
	}
	base, ok := fallbackFunc[icd.GetPhysicalDeviceFeaturesFunc](t, name, pd)
	if !ok {
		return
	}
	t.emulating(name, pd)
	base(native, &out.Features)
	chain.Walk(out.Next, t.featureFixups, t.unknownLink(name, "features", d))
}

// GetPhysicalDeviceProperties2 reports properties, emulated from
// vkGetPhysicalDeviceProperties.
func (t *Dispatcher) GetPhysicalDeviceProperties2(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceProperties2) {
	const name = "vkGetPhysicalDeviceProperties2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceProperties2Func](t, name, d); ok {
		f(native, out)
		return
	}
	base, ok := fallbackFunc[icd.GetPhysicalDevicePropertiesFunc](t, name, pd)
	if !ok {
		return
	}
	t.emulating(name, pd)
	base(native, &out.Properties)
	chain.Walk(out.Next, t.propertiesFixups(d.Name()), t.unknownLink(name, "properties", d))
}

// GetPhysicalDeviceFormatProperties2 reports format properties, emulated
// from vkGetPhysicalDeviceFormatProperties.
func (t *Dispatcher) GetPhysicalDeviceFormatProperties2(pd *registry.PhysicalDevice, format vk.Format, out *vk.FormatProperties2) {
	const name = "vkGetPhysicalDeviceFormatProperties2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceFormatProperties2Func](t, name, d); ok {
		f(native, format, out)
		return
	}
	base, ok := fallbackFunc[icd.GetPhysicalDeviceFormatPropertiesFunc](t, name, pd)
	if !ok {
		return
	}
	t.emulating(name, pd)
	base(native, format, &out.FormatProperties)
	chain.Walk(out.Next, nil, t.unknownLink(name, "format properties", d))
}

// GetPhysicalDeviceImageFormatProperties2 reports image format limits.
// Emulation cannot answer questions asked through extension structures:
// any link on either chain fails the call with ErrorFormatNotSupported.
func (t *Dispatcher) GetPhysicalDeviceImageFormatProperties2(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceImageFormatInfo2, out *vk.ImageFormatProperties2) vk.Result {
	const name = "vkGetPhysicalDeviceImageFormatProperties2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceImageFormatProperties2Func](t, name, d); ok {
		return f(native, info, out)
	}
	base, ok := fallbackFunc[icd.GetPhysicalDeviceImageFormatPropertiesFunc](t, name, pd)
	if !ok {
		return vk.ErrorInitializationFailed
	}
	t.emulating(name, pd)
	in := chain.Walk(info.Next, nil, t.unknownLink(name, "image format info", d))
	outLinks := chain.Walk(out.Next, nil, t.unknownLink(name, "image format properties", d))
	if in > 0 || outLinks > 0 {
		return vk.ErrorFormatNotSupported
	}
	return base(native, info.Format, info.Type, info.Tiling, info.Usage, info.Flags, &out.ImageFormatProperties)
}

// GetPhysicalDeviceQueueFamilyProperties2 reports queue families following
// the counting protocol, emulated from
// vkGetPhysicalDeviceQueueFamilyProperties.
func (t *Dispatcher) GetPhysicalDeviceQueueFamilyProperties2(pd *registry.PhysicalDevice, count *uint32, out []vk.QueueFamilyProperties2) {
	const name = "vkGetPhysicalDeviceQueueFamilyProperties2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceQueueFamilyProperties2Func](t, name, d); ok {
		f(native, count, out)
		return
	}
	base, ok := fallbackFunc[icd.GetPhysicalDeviceQueueFamilyPropertiesFunc](t, name, pd)
	if !ok {
		return
	}
	if out == nil || *count == 0 {
		base(native, count, nil)
		return
	}
	t.emulating(name, pd)

	s := t.scope()
	defer s.Release()
	n := min(int(*count), len(out))
	tmp, err := scratch.Alloc[vk.QueueFamilyProperties](s, n)
	if err != nil {
		*count = 0
		t.outOfMemory(name, n, d)
		return
	}
	written := uint32(n)
	base(native, &written, tmp)
	for i := range int(written) {
		out[i].QueueFamilyProperties = tmp[i]
		chain.Walk(out[i].Next, nil, t.unknownLink(name, fmt.Sprintf("queue family %d", i), d))
	}
	*count = written
}

// GetPhysicalDeviceMemoryProperties2 reports memory properties, emulated
// from vkGetPhysicalDeviceMemoryProperties.
func (t *Dispatcher) GetPhysicalDeviceMemoryProperties2(pd *registry.PhysicalDevice, out *vk.PhysicalDeviceMemoryProperties2) {
	const name = "vkGetPhysicalDeviceMemoryProperties2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceMemoryProperties2Func](t, name, d); ok {
		f(native, out)
		return
	}
	base, ok := fallbackFunc[icd.GetPhysicalDeviceMemoryPropertiesFunc](t, name, pd)
	if !ok {
		return
	}
	t.emulating(name, pd)
	base(native, &out.MemoryProperties)
	chain.Walk(out.Next, nil, t.unknownLink(name, "memory properties", d))
}

// GetPhysicalDeviceSparseImageFormatProperties2 reports sparse image
// formats following the counting protocol, emulated from
// vkGetPhysicalDeviceSparseImageFormatProperties.
func (t *Dispatcher) GetPhysicalDeviceSparseImageFormatProperties2(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceSparseImageFormatInfo2, count *uint32, out []vk.SparseImageFormatProperties2) {
	const name = "vkGetPhysicalDeviceSparseImageFormatProperties2"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceSparseImageFormatProperties2Func](t, name, d); ok {
		f(native, info, count, out)
		return
	}
	base, ok := fallbackFunc[icd.GetPhysicalDeviceSparseImageFormatPropertiesFunc](t, name, pd)
	if !ok {
		return
	}
	if out == nil || *count == 0 {
		base(native, info.Format, info.Type, info.Samples, info.Usage, info.Tiling, count, nil)
		return
	}
	t.emulating(name, pd)
	chain.Walk(info.Next, nil, t.unknownLink(name, "sparse image format info", d))

	s := t.scope()
	defer s.Release()
	n := min(int(*count), len(out))
	tmp, err := scratch.Alloc[vk.SparseImageFormatProperties](s, n)
	if err != nil {
		*count = 0
		t.outOfMemory(name, n, d)
		return
	}
	written := uint32(n)
	base(native, info.Format, info.Type, info.Samples, info.Usage, info.Tiling, &written, tmp)
	for i := range int(written) {
		out[i].Properties = tmp[i]
		chain.Walk(out[i].Next, nil, t.unknownLink(name, fmt.Sprintf("sparse properties %d", i), d))
	}
	*count = written
}

// GetPhysicalDeviceExternalBufferProperties reports external memory
// support for a buffer. Emulation reports none.
func (t *Dispatcher) GetPhysicalDeviceExternalBufferProperties(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceExternalBufferInfo, out *vk.ExternalBufferProperties) {
	const name = "vkGetPhysicalDeviceExternalBufferProperties"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceExternalBufferPropertiesFunc](t, name, d); ok {
		f(native, info, out)
		return
	}
	t.emulating(name, pd)
	chain.Walk(info.Next, nil, t.unknownLink(name, "external buffer info", d))
	out.ExternalMemoryProperties = vk.ExternalMemoryProperties{}
	chain.Walk(out.Next, nil, t.unknownLink(name, "external buffer properties", d))
}

// GetPhysicalDeviceExternalSemaphoreProperties reports external semaphore
// support. Emulation reports none.
func (t *Dispatcher) GetPhysicalDeviceExternalSemaphoreProperties(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceExternalSemaphoreInfo, out *vk.ExternalSemaphoreProperties) {
	const name = "vkGetPhysicalDeviceExternalSemaphoreProperties"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceExternalSemaphorePropertiesFunc](t, name, d); ok {
		f(native, info, out)
		return
	}
	t.emulating(name, pd)
	chain.Walk(info.Next, nil, t.unknownLink(name, "external semaphore info", d))
	out.ExportFromImportedHandleTypes = 0
	out.CompatibleHandleTypes = 0
	out.ExternalSemaphoreFeatures = 0
	chain.Walk(out.Next, nil, t.unknownLink(name, "external semaphore properties", d))
}

// GetPhysicalDeviceExternalFenceProperties reports external fence
// support. Emulation reports none.
func (t *Dispatcher) GetPhysicalDeviceExternalFenceProperties(pd *registry.PhysicalDevice, info *vk.PhysicalDeviceExternalFenceInfo, out *vk.ExternalFenceProperties) {
	const name = "vkGetPhysicalDeviceExternalFenceProperties"
	d, native, _ := registry.Lookup(pd)
	if f, ok := driverFunc[icd.GetPhysicalDeviceExternalFencePropertiesFunc](t, name, d); ok {
		f(native, info, out)
		return
	}
	t.emulating(name, pd)
	chain.Walk(info.Next, nil, t.unknownLink(name, "external fence info", d))
	out.ExportFromImportedHandleTypes = 0
	out.CompatibleHandleTypes = 0
	out.ExternalFenceFeatures = 0
	chain.Walk(out.Next, nil, t.unknownLink(name, "external fence properties", d))
}
