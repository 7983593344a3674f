// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import (
	"github.com/google/uuid"

	"github.com/gogpu/vkloader/chain"
)

// LUIDSize is the size of a locally unique device identifier.
const LUIDSize = 8

// PhysicalDeviceFeatures2 wraps PhysicalDeviceFeatures with a chain.
type PhysicalDeviceFeatures2 struct {
	chain.Link
	Features PhysicalDeviceFeatures
}

func (*PhysicalDeviceFeatures2) StructureType() StructureType {
	return StructureTypePhysicalDeviceFeatures2
}

// PhysicalDeviceProperties2 wraps PhysicalDeviceProperties with a chain.
type PhysicalDeviceProperties2 struct {
	chain.Link
	Properties PhysicalDeviceProperties
}

func (*PhysicalDeviceProperties2) StructureType() StructureType {
	return StructureTypePhysicalDeviceProperties2
}

// FormatProperties2 wraps FormatProperties with a chain.
type FormatProperties2 struct {
	chain.Link
	FormatProperties FormatProperties
}

func (*FormatProperties2) StructureType() StructureType {
	return StructureTypeFormatProperties2
}

// PhysicalDeviceImageFormatInfo2 describes the image configuration being
// queried.
type PhysicalDeviceImageFormatInfo2 struct {
	chain.Link
	Format Format
	Type   ImageType
	Tiling ImageTiling
	Usage  ImageUsageFlags
	Flags  ImageCreateFlags
}

func (*PhysicalDeviceImageFormatInfo2) StructureType() StructureType {
	return StructureTypePhysicalDeviceImageFormatInfo2
}

// ImageFormatProperties2 wraps ImageFormatProperties with a chain.
type ImageFormatProperties2 struct {
	chain.Link
	ImageFormatProperties ImageFormatProperties
}

func (*ImageFormatProperties2) StructureType() StructureType {
	return StructureTypeImageFormatProperties2
}

// QueueFamilyProperties2 wraps QueueFamilyProperties with a chain.
type QueueFamilyProperties2 struct {
	chain.Link
	QueueFamilyProperties QueueFamilyProperties
}

func (*QueueFamilyProperties2) StructureType() StructureType {
	return StructureTypeQueueFamilyProperties2
}

// PhysicalDeviceMemoryProperties2 wraps PhysicalDeviceMemoryProperties with
// a chain.
type PhysicalDeviceMemoryProperties2 struct {
	chain.Link
	MemoryProperties PhysicalDeviceMemoryProperties
}

func (*PhysicalDeviceMemoryProperties2) StructureType() StructureType {
	return StructureTypePhysicalDeviceMemoryProperties2
}

// PhysicalDeviceSparseImageFormatInfo2 describes the sparse image
// configuration being queried.
type PhysicalDeviceSparseImageFormatInfo2 struct {
	chain.Link
	Format  Format
	Type    ImageType
	Samples SampleCountFlags
	Usage   ImageUsageFlags
	Tiling  ImageTiling
}

func (*PhysicalDeviceSparseImageFormatInfo2) StructureType() StructureType {
	return StructureTypePhysicalDeviceSparseImageFormatInfo2
}

// SparseImageFormatProperties2 wraps SparseImageFormatProperties with a chain.
type SparseImageFormatProperties2 struct {
	chain.Link
	Properties SparseImageFormatProperties
}

func (*SparseImageFormatProperties2) StructureType() StructureType {
	return StructureTypeSparseImageFormatProperties2
}

// PhysicalDeviceMultiviewFeatures reports multiview support.
type PhysicalDeviceMultiviewFeatures struct {
	chain.Link
	Multiview                   bool
	MultiviewGeometryShader     bool
	MultiviewTessellationShader bool
}

func (*PhysicalDeviceMultiviewFeatures) StructureType() StructureType {
	return StructureTypePhysicalDeviceMultiviewFeatures
}

// PhysicalDevice16BitStorageFeatures reports 16-bit storage support.
type PhysicalDevice16BitStorageFeatures struct {
	chain.Link
	StorageBuffer16BitAccess           bool
	UniformAndStorageBuffer16BitAccess bool
	StoragePushConstant16              bool
	StorageInputOutput16               bool
}

func (*PhysicalDevice16BitStorageFeatures) StructureType() StructureType {
	return StructureTypePhysicalDevice16BitStorageFeatures
}

// PhysicalDeviceIDProperties identifies a device across APIs and processes.
type PhysicalDeviceIDProperties struct {
	chain.Link
	DeviceUUID      uuid.UUID
	DriverUUID      uuid.UUID
	DeviceLUID      [LUIDSize]byte
	DeviceNodeMask  uint32
	DeviceLUIDValid bool
}

func (*PhysicalDeviceIDProperties) StructureType() StructureType {
	return StructureTypePhysicalDeviceIDProperties
}

// PhysicalDeviceDriverProperties identifies the driver.
type PhysicalDeviceDriverProperties struct {
	chain.Link
	DriverID   uint32
	DriverName string
	DriverInfo string
}

func (*PhysicalDeviceDriverProperties) StructureType() StructureType {
	return StructureTypePhysicalDeviceDriverProperties
}

// PhysicalDeviceExternalImageFormatInfo requests external memory support in
// an image format query.
type PhysicalDeviceExternalImageFormatInfo struct {
	chain.Link
	HandleType ExternalMemoryHandleTypeFlags
}

func (*PhysicalDeviceExternalImageFormatInfo) StructureType() StructureType {
	return StructureTypePhysicalDeviceExternalImageFormatInfo
}

// ExternalImageFormatProperties reports external memory support for an image.
type ExternalImageFormatProperties struct {
	chain.Link
	ExternalMemoryProperties ExternalMemoryProperties
}

func (*ExternalImageFormatProperties) StructureType() StructureType {
	return StructureTypeExternalImageFormatProperties
}

// PhysicalDeviceExternalBufferInfo describes the buffer being queried.
type PhysicalDeviceExternalBufferInfo struct {
	chain.Link
	Flags      BufferCreateFlags
	Usage      BufferUsageFlags
	HandleType ExternalMemoryHandleTypeFlags
}

func (*PhysicalDeviceExternalBufferInfo) StructureType() StructureType {
	return StructureTypePhysicalDeviceExternalBufferInfo
}

// ExternalBufferProperties reports external memory support for a buffer.
type ExternalBufferProperties struct {
	chain.Link
	ExternalMemoryProperties ExternalMemoryProperties
}

func (*ExternalBufferProperties) StructureType() StructureType {
	return StructureTypeExternalBufferProperties
}

// PhysicalDeviceExternalSemaphoreInfo describes the semaphore handle type
// being queried.
type PhysicalDeviceExternalSemaphoreInfo struct {
	chain.Link
	HandleType ExternalSemaphoreHandleTypeFlags
}

func (*PhysicalDeviceExternalSemaphoreInfo) StructureType() StructureType {
	return StructureTypePhysicalDeviceExternalSemaphoreInfo
}

// ExternalSemaphoreProperties reports external semaphore support.
type ExternalSemaphoreProperties struct {
	chain.Link
	ExportFromImportedHandleTypes ExternalSemaphoreHandleTypeFlags
	CompatibleHandleTypes         ExternalSemaphoreHandleTypeFlags
	ExternalSemaphoreFeatures     ExternalSemaphoreFeatureFlags
}

func (*ExternalSemaphoreProperties) StructureType() StructureType {
	return StructureTypeExternalSemaphoreProperties
}

// PhysicalDeviceExternalFenceInfo describes the fence handle type being
// queried.
type PhysicalDeviceExternalFenceInfo struct {
	chain.Link
	HandleType ExternalFenceHandleTypeFlags
}

func (*PhysicalDeviceExternalFenceInfo) StructureType() StructureType {
	return StructureTypePhysicalDeviceExternalFenceInfo
}

// ExternalFenceProperties reports external fence support.
type ExternalFenceProperties struct {
	chain.Link
	ExportFromImportedHandleTypes ExternalFenceHandleTypeFlags
	CompatibleHandleTypes         ExternalFenceHandleTypeFlags
	ExternalFenceFeatures         ExternalFenceFeatureFlags
}

func (*ExternalFenceProperties) StructureType() StructureType {
	return StructureTypeExternalFenceProperties
}

// PhysicalDeviceToolProperties describes an active tool.
type PhysicalDeviceToolProperties struct {
	chain.Link
	Name        string
	Version     string
	Purposes    ToolPurposeFlags
	Description string
	Layer       string
}

func (*PhysicalDeviceToolProperties) StructureType() StructureType {
	return StructureTypePhysicalDeviceToolProperties
}
