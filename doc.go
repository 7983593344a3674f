// Package vkloader is the termination and capability-emulation layer of a
// Vulkan-style graphics API loader.
//
// # Overview
//
// An application creates an [Instance] through a [Loader], enumerates the
// physical devices of every participating driver and queries their
// capabilities through entry points obtained from
// [Loader.GetInstanceProcAddr]. Each query reaches the driver that owns the
// device. When that driver predates the query (a 1.0 driver asked for
// vkGetPhysicalDeviceFeatures2, say) the loader answers it from the
// driver's 1.0 entry point instead, so applications see one behavior
// regardless of driver vintage.
//
// # Quick Start
//
//	import (
//		"github.com/gogpu/vkloader"
//		_ "github.com/gogpu/vkloader/driver/haldriver" // registers noop and software
//		"github.com/gogpu/vkloader/terminator"
//		"github.com/gogpu/vkloader/vk"
//	)
//
//	l := vkloader.New()
//	inst, err := l.CreateInstance(&vkloader.InstanceCreateInfo{APIVersion: vk.APIVersion1_1})
//	if err != nil {
//		return err
//	}
//	defer inst.Destroy()
//
//	features2, _ := vkloader.GetProc[terminator.GetPhysicalDeviceFeatures2Func](l, inst, "vkGetPhysicalDeviceFeatures2")
//	for _, pd := range inst.PhysicalDevices() {
//		var f vk.PhysicalDeviceFeatures2
//		features2(pd, &f)
//	}
//
// # Architecture
//
// The module is organized into:
//   - vkloader: Loader, Instance, global entry points, GetInstanceProcAddr
//   - catalog: the declarative table of entry points
//   - resolve: which names are exposed and which driver symbol serves a call
//   - terminator: forwarding and emulation of capability queries
//   - chain: extension structure chains
//   - registry: physical-device handles and their owning drivers
//   - icd: per-driver dispatch tables and the in-process driver registry
//   - diag: diagnostics sinks
//
// # Diagnostics
//
// Emulation, unrecognized chain links and driver contract violations are
// reported to a [diag.Sink], by default the package logger (see
// [SetLogger]). Use [WithSink] to route them elsewhere.
package vkloader

import "github.com/gogpu/vkloader/vk"

// APIVersion is the highest API version the loader implements.
const APIVersion = vk.APIVersion1_3
