package vkloader

import (
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/vk"
)

// Types of the entry points implemented by the loader front. Physical-device
// queries use the types declared in package terminator.
type (
	GetInstanceProcAddrFunc                  = func(inst *Instance, name string) vk.Proc
	CreateInstanceFunc                       = func(info *InstanceCreateInfo) (*Instance, error)
	EnumerateInstanceVersionFunc             = func() vk.Version
	EnumerateInstanceExtensionPropertiesFunc = func(layer string, count *uint32, out []vk.ExtensionProperties) vk.Result
	EnumerateInstanceLayerPropertiesFunc     = func(count *uint32, out []vk.LayerProperties) vk.Result

	DestroyInstanceFunc          = func()
	EnumeratePhysicalDevicesFunc = func(count *uint32, out []*registry.PhysicalDevice) vk.Result
)

// GetProc resolves name through l.GetInstanceProcAddr and asserts it to F.
// It reports false when the name is unavailable or has a different type.
func GetProc[F any](l *Loader, inst *Instance, name string) (F, bool) {
	f, ok := l.GetInstanceProcAddr(inst, name).(F)
	return f, ok
}

// enumerate implements the counting protocol over all.
func enumerate[T any](count *uint32, out []T, all []T) vk.Result {
	if out == nil {
		*count = uint32(len(all))
		return vk.Success
	}
	n := copy(out[:min(int(*count), len(out))], all)
	*count = uint32(n)
	if n < len(all) {
		return vk.Incomplete
	}
	return vk.Success
}
