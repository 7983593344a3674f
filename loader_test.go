package vkloader_test

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/vkloader"
	"github.com/gogpu/vkloader/chain"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/internal/testicd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/terminator"
	"github.com/gogpu/vkloader/vk"
)

func newLoader(t *testing.T, opts []vkloader.Option, srcs ...*testicd.Driver) (*vkloader.Loader, *diag.Recorder) {
	t.Helper()
	rec := &diag.Recorder{}
	sources := make([]icd.Source, len(srcs))
	for i, s := range srcs {
		sources[i] = s
	}
	all := append([]vkloader.Option{vkloader.WithSink(rec), vkloader.WithDrivers(sources...)}, opts...)
	return vkloader.New(all...), rec
}

func create(t *testing.T, l *vkloader.Loader, version vk.Version, exts ...string) *vkloader.Instance {
	t.Helper()
	inst, err := l.CreateInstance(&vkloader.InstanceCreateInfo{APIVersion: version, Extensions: exts})
	if err != nil {
		t.Fatalf("CreateInstance(%v) error = %v", version, err)
	}
	t.Cleanup(inst.Destroy)
	return inst
}

func device(name string, v vk.Version) *testicd.Device { return testicd.NewDevice(name, v) }

func TestCreateInstanceDefaults(t *testing.T) {
	drv := testicd.New("libvk.so", vk.APIVersion1_1, []string{vk.KHRExternalMemoryCapabilities}, device("gpu0", vk.APIVersion1_1))
	l, rec := newLoader(t, nil, drv)

	inst, err := l.CreateInstance(&vkloader.InstanceCreateInfo{
		Extensions: []string{vk.EXTDebugUtils, vk.KHRExternalMemoryCapabilities, vk.EXTDebugUtils},
	})
	if err != nil {
		t.Fatalf("CreateInstance() error = %v", err)
	}
	defer inst.Destroy()

	if inst.APIVersion() != vk.APIVersion1_0 {
		t.Errorf("APIVersion() = %v, want 1.0", inst.APIVersion())
	}
	if got, want := inst.Extensions(), []string{vk.EXTDebugUtils, vk.KHRExternalMemoryCapabilities}; !slices.Equal(got, want) {
		t.Errorf("Extensions() = %v, want %v", got, want)
	}
	if !inst.Enabled(vk.KHRExternalMemoryCapabilities) || inst.Enabled(vk.KHRGetPhysicalDeviceProperties2) {
		t.Error("Enabled() disagrees with Extensions()")
	}
	created := drv.Created()
	if created == nil || !slices.Equal(created.Extensions, []string{vk.KHRExternalMemoryCapabilities}) {
		t.Errorf("driver saw %+v, want only its own extensions", created)
	}
	if l.Live() != 1 {
		t.Errorf("Live() = %d, want 1", l.Live())
	}
	if n := len(rec.Matching(diag.KindDriver)); n != 0 {
		t.Errorf("driver messages: %v", rec.Messages())
	}
}

func TestCreateInstanceErrors(t *testing.T) {
	t.Run("unknown extension", func(t *testing.T) {
		l, rec := newLoader(t, nil, testicd.New("libvk.so", vk.APIVersion1_1, nil, device("gpu", vk.APIVersion1_1)))
		_, err := l.CreateInstance(&vkloader.InstanceCreateInfo{Extensions: []string{"VK_KHR_surface"}})
		if !errors.Is(err, vk.ErrorExtensionNotPresent) {
			t.Errorf("error = %v, want ErrorExtensionNotPresent", err)
		}
		if rec.Len() == 0 {
			t.Error("no diagnostic for the missing extension")
		}
		if l.Live() != 0 {
			t.Error("failed instance is tracked as live")
		}
	})

	t.Run("no driver", func(t *testing.T) {
		l, _ := newLoader(t, nil)
		if _, err := l.CreateInstance(nil); !errors.Is(err, vk.ErrorIncompatibleDriver) {
			t.Errorf("error = %v, want ErrorIncompatibleDriver", err)
		}
	})

	t.Run("broken drivers skipped", func(t *testing.T) {
		missing := testicd.New("libmissing.so", vk.APIVersion1_1, nil, device("a", vk.APIVersion1_1))
		missing.Hide = []string{"vkGetPhysicalDeviceMemoryProperties"}
		failing := testicd.New("libfailing.so", vk.APIVersion1_1, nil, device("b", vk.APIVersion1_1))
		failing.CreateResult = vk.ErrorInitializationFailed
		good := testicd.New("libgood.so", vk.APIVersion1_1, nil, device("c", vk.APIVersion1_1))

		l, rec := newLoader(t, nil, missing, failing, good)
		inst := create(t, l, vk.APIVersion1_1)

		devs := inst.PhysicalDevices()
		if len(devs) != 1 || devs[0].Name() != "c" {
			t.Errorf("devices = %v, want only the good driver's", devs)
		}
		var sources []string
		for _, m := range rec.Matching(diag.KindDriver) {
			if m.Severity == diag.SeverityWarn {
				sources = append(sources, m.Source)
			}
		}
		if !slices.Equal(sources, []string{"libmissing.so", "libfailing.so"}) {
			t.Errorf("warnings from %v, want one per skipped driver", sources)
		}
	})
}

func TestEnumerateInstanceExtensionProperties(t *testing.T) {
	a := testicd.New("liba.so", vk.APIVersion1_1, []string{vk.KHRGetPhysicalDeviceProperties2, vk.EXTDebugUtils})
	b := testicd.New("libb.so", vk.APIVersion1_0, []string{vk.KHRGetPhysicalDeviceProperties2, vk.KHRExternalFenceCapabilities})
	l, _ := newLoader(t, nil, a, b)

	var n uint32
	if r := l.EnumerateInstanceExtensionProperties("", &n, nil); r != vk.Success {
		t.Fatalf("probe = %v", r)
	}
	if n != 4 {
		t.Fatalf("count = %d, want 4", n)
	}
	all := make([]vk.ExtensionProperties, n)
	if r := l.EnumerateInstanceExtensionProperties("", &n, all); r != vk.Success {
		t.Fatalf("fill = %v", r)
	}
	var names []string
	for _, e := range all {
		names = append(names, e.ExtensionName)
	}
	want := []string{vk.EXTDebugUtils, vk.KHRPortabilityEnumeration, vk.KHRGetPhysicalDeviceProperties2, vk.KHRExternalFenceCapabilities}
	if !slices.Equal(names, want) {
		t.Errorf("extensions = %v, want %v", names, want)
	}

	n = 2
	short := make([]vk.ExtensionProperties, 2)
	if r := l.EnumerateInstanceExtensionProperties("", &n, short); r != vk.Incomplete || n != 2 {
		t.Errorf("short fill = %v, %d; want Incomplete, 2", r, n)
	}
	if r := l.EnumerateInstanceExtensionProperties("VK_LAYER_KHRONOS_validation", &n, nil); r != vk.ErrorLayerNotPresent {
		t.Errorf("layer query = %v, want ErrorLayerNotPresent", r)
	}
	n = 5
	if r := l.EnumerateInstanceLayerProperties(&n, nil); r != vk.Success || n != 0 {
		t.Errorf("EnumerateInstanceLayerProperties() = %v, %d", r, n)
	}
	if got := l.EnumerateInstanceVersion(); got != vkloader.APIVersion {
		t.Errorf("EnumerateInstanceVersion() = %v", got)
	}
}

func TestEnumeratePhysicalDevices(t *testing.T) {
	a := testicd.New("liba.so", vk.APIVersion1_1, nil, device("a0", vk.APIVersion1_1), device("a1", vk.APIVersion1_1))
	b := testicd.New("libb.so", vk.APIVersion1_0, nil, device("b0", vk.APIVersion1_0))
	l, _ := newLoader(t, nil, a, b)
	inst := create(t, l, vk.APIVersion1_1)

	enum, ok := vkloader.GetProc[vkloader.EnumeratePhysicalDevicesFunc](l, inst, "vkEnumeratePhysicalDevices")
	if !ok {
		t.Fatal("vkEnumeratePhysicalDevices unavailable")
	}
	var n uint32
	enum(&n, nil)
	if n != 3 {
		t.Fatalf("count = %d, want 3", n)
	}
	devs := make([]*registry.PhysicalDevice, n)
	if r := enum(&n, devs); r != vk.Success {
		t.Fatalf("fill = %v", r)
	}
	var names []string
	for _, pd := range devs {
		names = append(names, pd.Name())
	}
	if !slices.Equal(names, []string{"a0", "a1", "b0"}) {
		t.Errorf("devices = %v, want driver order", names)
	}
	n = 1
	if r := enum(&n, devs[:1]); r != vk.Incomplete || n != 1 {
		t.Errorf("short fill = %v, %d", r, n)
	}
}

func TestGlobalCutoffAsymmetry(t *testing.T) {
	const name = "vkEnumerateInstanceExtensionProperties"
	l, _ := newLoader(t, nil, testicd.New("libvk.so", vk.APIVersion1_3, nil, device("gpu", vk.APIVersion1_3)))

	if l.GetInstanceProcAddr(nil, name) == nil {
		t.Fatal("null query must resolve before any instance exists")
	}

	old := create(t, l, vk.APIVersion1_2)
	if l.GetInstanceProcAddr(nil, name) == nil {
		t.Error("null query must resolve while live instances are below 1.3")
	}
	if old.GetProcAddr(name) == nil {
		t.Error("bound query must resolve below 1.3")
	}

	current, err := l.CreateInstance(&vkloader.InstanceCreateInfo{APIVersion: vk.APIVersion1_3})
	if err != nil {
		t.Fatal(err)
	}
	if l.GetInstanceProcAddr(nil, name) != nil {
		t.Error("null query must be unavailable once a 1.3 instance is live")
	}
	if current.GetProcAddr(name) == nil {
		t.Error("bound query must resolve at 1.3")
	}
	if _, ok := l.GetInstanceProcAddr(nil, "vkGetInstanceProcAddr").(vkloader.GetInstanceProcAddrFunc); !ok {
		t.Error("vkGetInstanceProcAddr must always resolve")
	}

	current.Destroy()
	current.Destroy()
	if l.GetInstanceProcAddr(nil, name) == nil {
		t.Error("null query must resolve again after the 1.3 instance is destroyed")
	}
	if l.GetInstanceProcAddr(nil, "vkGetPhysicalDeviceFeatures") != nil {
		t.Error("physical-device entry points must not resolve without an instance")
	}
}

func TestMultiDriverExposure(t *testing.T) {
	native := testicd.New("libnative.so", vk.APIVersion1_0, nil, device("n", vk.APIVersion1_0))
	native.Devices[0].Extensions = []vk.ExtensionProperties{{ExtensionName: vk.EXTToolingInfo, SpecVersion: 1}}
	native.Devices[0].Tools = []vk.PhysicalDeviceToolProperties{{Name: "tracer"}}
	plain := testicd.New("libplain.so", vk.APIVersion1_0, nil, device("p", vk.APIVersion1_0))
	l, rec := newLoader(t, nil, native, plain)
	inst := create(t, l, vk.APIVersion1_0)

	tools, ok := vkloader.GetProc[terminator.GetPhysicalDeviceToolPropertiesFunc](l, inst, "vkGetPhysicalDeviceToolPropertiesEXT")
	if !ok {
		t.Fatal("alias advertised by one driver must be exposed for the instance")
	}
	got := map[string]uint32{}
	for _, pd := range inst.PhysicalDevices() {
		n := uint32(4)
		out := make([]vk.PhysicalDeviceToolProperties, n)
		if r := tools(pd, &n, out); r != vk.Success {
			t.Errorf("%s: result %v", pd, r)
		}
		got[pd.Name()] = n
	}
	if got["n"] != 1 || got["p"] != 0 {
		t.Errorf("tool counts = %v", got)
	}
	if native.Calls("vkGetPhysicalDeviceToolPropertiesEXT") != 1 {
		t.Error("native driver not called through its alias")
	}
	if rec.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Messages())
	}
}

func TestMultiDriverEmulation(t *testing.T) {
	modern := testicd.New("libmodern.so", vk.APIVersion1_1, nil, device("m", vk.APIVersion1_1))
	old := testicd.New("libold.so", vk.APIVersion1_0, nil, device("o", vk.APIVersion1_0))
	l, rec := newLoader(t, nil, modern, old)
	inst := create(t, l, vk.APIVersion1_1)

	features2, ok := vkloader.GetProc[terminator.GetPhysicalDeviceFeatures2Func](l, inst, "vkGetPhysicalDeviceFeatures2")
	if !ok {
		t.Fatal("vkGetPhysicalDeviceFeatures2 unavailable at 1.1")
	}
	multiview := map[string]bool{}
	for _, pd := range inst.PhysicalDevices() {
		mv := vk.PhysicalDeviceMultiviewFeatures{Multiview: true}
		out := vk.PhysicalDeviceFeatures2{}
		out.Next = &mv
		features2(pd, &out)
		multiview[pd.Name()] = mv.Multiview
	}
	if !multiview["m"] || multiview["o"] {
		t.Errorf("multiview = %v, want native true and emulated false", multiview)
	}

	emu := rec.Matching(diag.KindEmulation)
	if len(emu) != 1 || emu[0].Source != "libold.so" || emu[0].Severity != diag.SeverityInfo {
		t.Fatalf("emulation messages = %v", emu)
	}
	if !strings.Contains(emu[0].Text, `"o"`) {
		t.Errorf("emulation message does not name the device: %q", emu[0].Text)
	}
}

func TestCountingRoundTrip(t *testing.T) {
	old := testicd.New("libold.so", vk.APIVersion1_0, nil, device("o", vk.APIVersion1_0))
	l, rec := newLoader(t, nil, old)
	inst := create(t, l, vk.APIVersion1_1)
	pd := inst.PhysicalDevices()[0]

	qf2, ok := vkloader.GetProc[terminator.GetPhysicalDeviceQueueFamilyProperties2Func](l, inst, "vkGetPhysicalDeviceQueueFamilyProperties2")
	if !ok {
		t.Fatal("vkGetPhysicalDeviceQueueFamilyProperties2 unavailable")
	}
	qf, _ := vkloader.GetProc[terminator.GetPhysicalDeviceQueueFamilyPropertiesFunc](l, inst, "vkGetPhysicalDeviceQueueFamilyProperties")

	var probe uint32
	qf2(pd, &probe, nil)
	if rec.Len() != 0 {
		t.Errorf("probe emitted diagnostics: %v", rec.Messages())
	}

	filled := probe
	out := make([]vk.QueueFamilyProperties2, probe)
	qf2(pd, &filled, out)
	if filled != probe {
		t.Errorf("filled %d, probe said %d", filled, probe)
	}

	var n uint32
	qf(pd, &n, nil)
	base := make([]vk.QueueFamilyProperties, n)
	qf(pd, &n, base)
	for i := range base {
		if out[i].QueueFamilyProperties != base[i] {
			t.Errorf("family %d = %+v, want %+v", i, out[i].QueueFamilyProperties, base[i])
		}
	}
}

func TestResolutionDeterministic(t *testing.T) {
	a := testicd.New("liba.so", vk.APIVersion1_1, nil, device("a", vk.APIVersion1_1))
	b := testicd.New("libb.so", vk.APIVersion1_0, []string{vk.KHRExternalFenceCapabilities}, device("b", vk.APIVersion1_0))
	l, _ := newLoader(t, nil, a, b)
	inst := create(t, l, vk.APIVersion1_0, vk.KHRExternalFenceCapabilities)

	names := l.Catalog().Names()
	first := map[string]bool{}
	for _, n := range names {
		first[n] = inst.GetProcAddr(n) != nil
	}
	slices.Reverse(names)
	for _, n := range names {
		if got := inst.GetProcAddr(n) != nil; got != first[n] {
			t.Errorf("%s: resolved %v after %v", n, got, first[n])
		}
	}
	if !first["vkGetPhysicalDeviceExternalFencePropertiesKHR"] || first["vkGetPhysicalDeviceExternalFenceProperties"] {
		t.Error("1.0 instance with the fence extension must expose only the alias")
	}
}

func TestUnknownLinkNeighbours(t *testing.T) {
	old := testicd.New("libold.so", vk.APIVersion1_0, nil, device("o", vk.APIVersion1_0))
	l, rec := newLoader(t, nil, old)
	inst := create(t, l, vk.APIVersion1_1)

	features2, _ := vkloader.GetProc[terminator.GetPhysicalDeviceFeatures2Func](l, inst, "vkGetPhysicalDeviceFeatures2")
	storage := &vk.PhysicalDevice16BitStorageFeatures{StorageBuffer16BitAccess: true}
	opaque := &chain.Opaque{Type: 1000999000, Payload: []byte("payload")}
	mv := &vk.PhysicalDeviceMultiviewFeatures{Multiview: true}
	opaque.Next = storage
	mv.Next = opaque
	out := vk.PhysicalDeviceFeatures2{}
	out.Next = mv

	features2(inst.PhysicalDevices()[0], &out)

	if mv.Multiview {
		t.Error("multiview not neutralized")
	}
	if !storage.StorageBuffer16BitAccess {
		t.Error("neighbouring link modified")
	}
	if string(opaque.Payload) != "payload" || mv.Next != opaque || opaque.Next != storage {
		t.Error("unknown link or chain modified")
	}
	if n := len(rec.Matching(diag.KindChainLink)); n != 2 {
		t.Errorf("chain-link messages = %d, want 2", n)
	}
}

func TestLowestVersionScenario(t *testing.T) {
	old := testicd.New("libold.so", vk.APIVersion1_0, nil, device("o", vk.APIVersion1_0))
	l, rec := newLoader(t, nil, old)
	inst := create(t, l, vk.APIVersion1_0)

	props2, ok := vkloader.GetProc[terminator.GetPhysicalDeviceProperties2Func](l, inst, "vkGetPhysicalDeviceProperties2")
	if !ok {
		t.Fatal("a default loader must resolve vkGetPhysicalDeviceProperties2 at 1.0")
	}
	if inst.GetProcAddr("vkGetPhysicalDeviceProperties2KHR") != nil {
		t.Error("alias exposed without the extension")
	}

	driverProps := &vk.PhysicalDeviceDriverProperties{DriverName: "stale"}
	out := vk.PhysicalDeviceProperties2{}
	out.Next = driverProps
	props2(inst.PhysicalDevices()[0], &out)

	if out.Properties.DeviceName != "o" {
		t.Errorf("base properties = %+v", out.Properties)
	}
	if old.Calls("vkGetPhysicalDeviceProperties") < 2 {
		t.Error("emulation did not use the 1.0 entry point")
	}
	if len(rec.Matching(diag.KindEmulation)) != 1 || len(rec.Matching(diag.KindChainLink)) != 1 {
		t.Errorf("diagnostics = %v", rec.Messages())
	}

	strict, _ := newLoader(t, []vkloader.Option{vkloader.WithLegacyExposure(false)},
		testicd.New("libold.so", vk.APIVersion1_0, nil, device("o", vk.APIVersion1_0)))
	if create(t, strict, vk.APIVersion1_0).GetProcAddr("vkGetPhysicalDeviceProperties2") != nil {
		t.Error("WithLegacyExposure(false) must hide the core name at 1.0")
	}
}

func TestAliasOnlyDriverAboveThreshold(t *testing.T) {
	aliasOnly := testicd.New("libalias.so", vk.APIVersion1_0, []string{vk.KHRGetPhysicalDeviceProperties2}, device("gpu", vk.APIVersion1_0))
	core := testicd.New("libcore.so", vk.APIVersion1_1, nil, device("gpu", vk.APIVersion1_0))
	l, rec := newLoader(t, nil, aliasOnly, core)
	inst := create(t, l, vk.APIVersion1_1)

	mem2, ok := vkloader.GetProc[terminator.GetPhysicalDeviceMemoryProperties2Func](l, inst, "vkGetPhysicalDeviceMemoryProperties2")
	if !ok {
		t.Fatal("core name unavailable at 1.1")
	}
	devs := inst.PhysicalDevices()
	var viaAlias, viaCore vk.PhysicalDeviceMemoryProperties2
	mem2(devs[0], &viaAlias)
	mem2(devs[1], &viaCore)

	if aliasOnly.Calls("vkGetPhysicalDeviceMemoryProperties2KHR") != 1 {
		t.Error("alias-only driver not called through the alias")
	}
	if core.Calls("vkGetPhysicalDeviceMemoryProperties2") != 1 {
		t.Error("core driver not called through the core symbol")
	}
	if len(viaAlias.MemoryProperties.MemoryHeaps) != len(viaCore.MemoryProperties.MemoryHeaps) ||
		viaAlias.MemoryProperties.MemoryHeaps[0] != viaCore.MemoryProperties.MemoryHeaps[0] {
		t.Errorf("alias %+v differs from core %+v", viaAlias.MemoryProperties, viaCore.MemoryProperties)
	}
	if rec.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Messages())
	}
}

func TestScratchExhaustion(t *testing.T) {
	old := testicd.New("libold.so", vk.APIVersion1_0, nil, device("o", vk.APIVersion1_0))
	l, rec := newLoader(t, []vkloader.Option{vkloader.WithScratchLimit(1)}, old)
	inst := create(t, l, vk.APIVersion1_1)

	qf2, _ := vkloader.GetProc[terminator.GetPhysicalDeviceQueueFamilyProperties2Func](l, inst, "vkGetPhysicalDeviceQueueFamilyProperties2")
	n := uint32(2)
	out := make([]vk.QueueFamilyProperties2, n)
	qf2(inst.PhysicalDevices()[0], &n, out)

	if n != 0 {
		t.Errorf("count = %d, want 0", n)
	}
	if out[0].QueueFamilyProperties != (vk.QueueFamilyProperties{}) {
		t.Error("partial output written")
	}
	if len(rec.Matching(diag.KindOutOfMemory)) != 1 {
		t.Errorf("diagnostics = %v", rec.Messages())
	}
}
