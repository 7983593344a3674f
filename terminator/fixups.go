package terminator

import (
	"github.com/google/uuid"

	"github.com/gogpu/vkloader/chain"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/vk"
)

// featureFixups neutralize feature structures emulation cannot fill in.
func featureFixups() chain.Transforms {
	return chain.Transforms{
		vk.StructureTypePhysicalDeviceMultiviewFeatures: chain.On(func(f *vk.PhysicalDeviceMultiviewFeatures) {
			f.Multiview = false
			f.MultiviewGeometryShader = false
			f.MultiviewTessellationShader = false
		}),
	}
}

// propertiesFixups zeroes device identifiers when external memory
// capabilities are enabled. Otherwise the ID structure is unrecognized like
// any other link. source names the driver being emulated.
func (t *Dispatcher) propertiesFixups(source string) chain.Transforms {
	if !t.exts.Has(vk.KHRExternalMemoryCapabilities) {
		return nil
	}
	return chain.Transforms{
		vk.StructureTypePhysicalDeviceIDProperties: chain.On(func(id *vk.PhysicalDeviceIDProperties) {
			diag.Emitf(t.sink, diag.SeverityWarn, diag.KindEmulation, source,
				"vkGetPhysicalDeviceProperties2: emulation cannot generate unique IDs for PhysicalDeviceIDProperties; setting IDs to zero instead")
			id.DeviceUUID = uuid.Nil
			id.DriverUUID = uuid.Nil
			id.DeviceLUID = [vk.LUIDSize]byte{}
			id.DeviceNodeMask = 0
			id.DeviceLUIDValid = false
		}),
	}
}
