// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import "github.com/gogpu/vkloader/chain"

// StructureType aliases the chain discriminant so callers need a single
// import for the common case.
type StructureType = chain.StructureType

// Structure types of the extensible structs defined in this package.
// Values match the registry so that raw chains from drivers interoperate.
const (
	StructureTypePhysicalDeviceFeatures2                StructureType = 1000059000
	StructureTypePhysicalDeviceProperties2              StructureType = 1000059001
	StructureTypeFormatProperties2                      StructureType = 1000059002
	StructureTypeImageFormatProperties2                 StructureType = 1000059003
	StructureTypePhysicalDeviceImageFormatInfo2         StructureType = 1000059004
	StructureTypeQueueFamilyProperties2                 StructureType = 1000059005
	StructureTypePhysicalDeviceMemoryProperties2        StructureType = 1000059006
	StructureTypeSparseImageFormatProperties2           StructureType = 1000059007
	StructureTypePhysicalDeviceSparseImageFormatInfo2   StructureType = 1000059008
	StructureTypePhysicalDeviceMultiviewFeatures        StructureType = 1000053001
	StructureTypePhysicalDeviceExternalImageFormatInfo  StructureType = 1000071000
	StructureTypeExternalImageFormatProperties          StructureType = 1000071001
	StructureTypePhysicalDeviceExternalBufferInfo       StructureType = 1000071002
	StructureTypeExternalBufferProperties               StructureType = 1000071003
	StructureTypePhysicalDeviceIDProperties             StructureType = 1000071004
	StructureTypePhysicalDeviceExternalSemaphoreInfo    StructureType = 1000076000
	StructureTypeExternalSemaphoreProperties            StructureType = 1000076001
	StructureTypePhysicalDevice16BitStorageFeatures     StructureType = 1000083000
	StructureTypePhysicalDeviceExternalFenceInfo        StructureType = 1000112000
	StructureTypeExternalFenceProperties                StructureType = 1000112001
	StructureTypePhysicalDeviceDriverProperties         StructureType = 1000196000
	StructureTypePhysicalDeviceToolProperties           StructureType = 1000245000
)
