// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

// Extension names referenced by the loader.
const (
	KHRGetPhysicalDeviceProperties2   = "VK_KHR_get_physical_device_properties2"
	KHRExternalMemoryCapabilities     = "VK_KHR_external_memory_capabilities"
	KHRExternalSemaphoreCapabilities  = "VK_KHR_external_semaphore_capabilities"
	KHRExternalFenceCapabilities      = "VK_KHR_external_fence_capabilities"
	KHRPortabilityEnumeration         = "VK_KHR_portability_enumeration"
	EXTToolingInfo                    = "VK_EXT_tooling_info"
	EXTDebugUtils                     = "VK_EXT_debug_utils"
	KHRMultiview                      = "VK_KHR_multiview"
)

// ExtensionSet is a deduplicated set of extension names.
// The zero value is an empty set. Sets are not safe for concurrent mutation;
// the loader only mutates them during construction.
type ExtensionSet map[string]struct{}

// NewExtensionSet returns a set holding names, with duplicates removed.
func NewExtensionSet(names ...string) ExtensionSet {
	s := make(ExtensionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s ExtensionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Add inserts name.
func (s ExtensionSet) Add(name string) { s[name] = struct{}{} }

// Len returns the number of names.
func (s ExtensionSet) Len() int { return len(s) }
