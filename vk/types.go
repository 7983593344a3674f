// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import (
	"github.com/gogpu/gputypes"
	"github.com/google/uuid"
)

// Proc is an entry point returned by GetInstanceProcAddr. It holds a typed
// function value; nil means the entry point is unavailable.
type Proc = any

// Format identifies a texel format.
type Format = gputypes.TextureFormat

// ImageType is the dimensionality of an image.
type ImageType = gputypes.TextureDimension

// ImageUsageFlags describe how an image will be used.
type ImageUsageFlags = gputypes.TextureUsage

// BufferUsageFlags describe how a buffer will be used.
type BufferUsageFlags = gputypes.BufferUsage

// ImageTiling selects the texel arrangement of an image.
type ImageTiling uint32

// Image tilings.
const (
	ImageTilingOptimal ImageTiling = 0
	ImageTilingLinear  ImageTiling = 1
)

// ImageCreateFlags are image creation flags.
type ImageCreateFlags uint32

// Image creation flags.
const (
	ImageCreateSparseBinding ImageCreateFlags = 1 << iota
	ImageCreateSparseResidency
	ImageCreateSparseAliased
	ImageCreateMutableFormat
	ImageCreateCubeCompatible
)

// BufferCreateFlags are buffer creation flags.
type BufferCreateFlags uint32

// SampleCountFlags is a set of sample counts.
type SampleCountFlags uint32

// Sample counts.
const (
	SampleCount1 SampleCountFlags = 1 << iota
	SampleCount2
	SampleCount4
	SampleCount8
	SampleCount16
	SampleCount32
	SampleCount64
)

// FormatFeatureFlags describe what a format supports.
type FormatFeatureFlags uint32

// Format features.
const (
	FormatFeatureSampledImage FormatFeatureFlags = 1 << iota
	FormatFeatureStorageImage
	FormatFeatureStorageImageAtomic
	FormatFeatureUniformTexelBuffer
	FormatFeatureStorageTexelBuffer
	FormatFeatureStorageTexelBufferAtomic
	FormatFeatureVertexBuffer
	FormatFeatureColorAttachment
	FormatFeatureColorAttachmentBlend
	FormatFeatureDepthStencilAttachment
	FormatFeatureBlitSrc
	FormatFeatureBlitDst
	FormatFeatureSampledImageFilterLinear
	_
	FormatFeatureTransferSrc
	FormatFeatureTransferDst
)

// QueueFlags describe the capabilities of a queue family.
type QueueFlags uint32

// Queue capabilities.
const (
	QueueGraphics QueueFlags = 1 << iota
	QueueCompute
	QueueTransfer
	QueueSparseBinding
)

// MemoryPropertyFlags describe a memory type.
type MemoryPropertyFlags uint32

// Memory properties.
const (
	MemoryPropertyDeviceLocal MemoryPropertyFlags = 1 << iota
	MemoryPropertyHostVisible
	MemoryPropertyHostCoherent
	MemoryPropertyHostCached
)

// MemoryHeapFlags describe a memory heap.
type MemoryHeapFlags uint32

// MemoryHeapDeviceLocal marks device-local heaps.
const MemoryHeapDeviceLocal MemoryHeapFlags = 1

// ImageAspectFlags select image aspects.
type ImageAspectFlags uint32

// Image aspects.
const (
	ImageAspectColor ImageAspectFlags = 1 << iota
	ImageAspectDepth
	ImageAspectStencil
)

// SparseImageFormatFlags describe sparse image formats.
type SparseImageFormatFlags uint32

// ExternalMemoryHandleTypeFlags is a set of external memory handle types.
type ExternalMemoryHandleTypeFlags uint32

// ExternalMemoryFeatureFlags describe external memory capabilities.
type ExternalMemoryFeatureFlags uint32

// ExternalSemaphoreHandleTypeFlags is a set of external semaphore handle types.
type ExternalSemaphoreHandleTypeFlags uint32

// ExternalSemaphoreFeatureFlags describe external semaphore capabilities.
type ExternalSemaphoreFeatureFlags uint32

// ExternalFenceHandleTypeFlags is a set of external fence handle types.
type ExternalFenceHandleTypeFlags uint32

// ExternalFenceFeatureFlags describe external fence capabilities.
type ExternalFenceFeatureFlags uint32

// ToolPurposeFlags describe what a tool does.
type ToolPurposeFlags uint32

// Tool purposes.
const (
	ToolPurposeValidation ToolPurposeFlags = 1 << iota
	ToolPurposeProfiling
	ToolPurposeTracing
	ToolPurposeAdditionalFeatures
	ToolPurposeModifyingFeatures
)

// PhysicalDeviceProperties are the immutable properties of a physical device.
type PhysicalDeviceProperties struct {
	APIVersion        Version
	DriverVersion     uint32
	VendorID          uint32
	DeviceID          uint32
	DeviceType        gputypes.DeviceType
	DeviceName        string
	PipelineCacheUUID uuid.UUID
	Limits            gputypes.Limits
}

// PhysicalDeviceFeatures are the fine-grained features of a physical device.
type PhysicalDeviceFeatures struct {
	RobustBufferAccess bool
	GeometryShader     bool
	TessellationShader bool
	SamplerAnisotropy  bool
	SparseBinding      bool

	// Optional holds the features shared with the WebGPU feature set.
	Optional gputypes.Features
}

// FormatProperties describe the features a format supports.
type FormatProperties struct {
	LinearTilingFeatures  FormatFeatureFlags
	OptimalTilingFeatures FormatFeatureFlags
	BufferFeatures        FormatFeatureFlags
}

// ImageFormatProperties are the limits of an image configuration.
type ImageFormatProperties struct {
	MaxExtent       gputypes.Extent3D
	MaxMipLevels    uint32
	MaxArrayLayers  uint32
	SampleCounts    SampleCountFlags
	MaxResourceSize uint64
}

// QueueFamilyProperties describe a queue family.
type QueueFamilyProperties struct {
	QueueFlags                  QueueFlags
	QueueCount                  uint32
	TimestampValidBits          uint32
	MinImageTransferGranularity gputypes.Extent3D
}

// MemoryType describes one memory type.
type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
	HeapIndex     uint32
}

// MemoryHeap describes one memory heap.
type MemoryHeap struct {
	Size  uint64
	Flags MemoryHeapFlags
}

// PhysicalDeviceMemoryProperties describe the memory of a physical device.
type PhysicalDeviceMemoryProperties struct {
	MemoryTypes []MemoryType
	MemoryHeaps []MemoryHeap
}

// SparseImageFormatProperties describe sparse image support for a format.
type SparseImageFormatProperties struct {
	AspectMask       ImageAspectFlags
	ImageGranularity gputypes.Extent3D
	Flags            SparseImageFormatFlags
}

// ExternalMemoryProperties describe external memory support.
type ExternalMemoryProperties struct {
	ExternalMemoryFeatures        ExternalMemoryFeatureFlags
	ExportFromImportedHandleTypes ExternalMemoryHandleTypeFlags
	CompatibleHandleTypes         ExternalMemoryHandleTypeFlags
}

// ExtensionProperties names an extension and its revision.
type ExtensionProperties struct {
	ExtensionName string
	SpecVersion   uint32
}

// LayerProperties describe an interception layer.
type LayerProperties struct {
	LayerName             string
	SpecVersion           Version
	ImplementationVersion uint32
	Description           string
}
