//go:build !(js && wasm)

package haldriver_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/driver/haldriver"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/terminator"
	"github.com/gogpu/vkloader/vk"
)

func load(t *testing.T, src icd.Source) (*icd.Driver, *diag.Recorder) {
	t.Helper()
	rec := &diag.Recorder{}
	d, err := icd.Load(src, catalog.Default(), icd.InstanceCreateInfo{APIVersion: vk.APIVersion1_3}, rec)
	if err != nil {
		t.Fatalf("Load(%s) error = %v", src.Name(), err)
	}
	t.Cleanup(d.Destroy)
	return d, rec
}

func properties(t *testing.T, d *icd.Driver) vk.PhysicalDeviceProperties {
	t.Helper()
	get, ok := icd.Lookup[icd.GetPhysicalDevicePropertiesFunc](d, "vkGetPhysicalDeviceProperties")
	if !ok {
		t.Fatal("vkGetPhysicalDeviceProperties not exported")
	}
	var props vk.PhysicalDeviceProperties
	get(d.Devices()[0], &props)
	return props
}

func TestRegistered(t *testing.T) {
	for _, name := range []string{icd.DriverNoop, icd.DriverSoftware} {
		if !icd.IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false, want true", name)
		}
	}
}

func TestNoopDefaults(t *testing.T) {
	d, rec := load(t, haldriver.Noop())

	if d.Name() != "noop" || d.APIVersion() != vk.APIVersion1_0 {
		t.Errorf("identity = %s %v, want noop 1.0", d.Name(), d.APIVersion())
	}
	if !d.Supports(vk.KHRGetPhysicalDeviceProperties2) {
		t.Error("default driver must advertise VK_KHR_get_physical_device_properties2")
	}
	if d.Exports("vkGetPhysicalDeviceFeatures2") {
		t.Error("1.0 driver must not export the core name of a 1.1 entry point")
	}
	if !d.Exports("vkGetPhysicalDeviceFeatures2KHR") {
		t.Error("KHR alias not exported")
	}
	if rec.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Messages())
	}
	if n := len(d.Devices()); n != 1 {
		t.Fatalf("devices = %d, want 1", n)
	}

	props := properties(t, d)
	if props.DeviceName != "Noop Adapter" {
		t.Errorf("DeviceName = %q, want %q", props.DeviceName, "Noop Adapter")
	}
	if props.DeviceType != gputypes.DeviceTypeOther {
		t.Errorf("DeviceType = %v, want Other", props.DeviceType)
	}
	if want := uint32(vk.MakeVersion(0, 1, 0, 0)); props.DriverVersion != want {
		t.Errorf("DriverVersion = %#x, want %#x", props.DriverVersion, want)
	}
	if props.Limits.MaxTextureDimension2D != gputypes.DefaultLimits().MaxTextureDimension2D {
		t.Errorf("Limits not taken from the adapter: %+v", props.Limits)
	}
	if props.PipelineCacheUUID == uuid.Nil {
		t.Error("PipelineCacheUUID is nil")
	}
}

func TestSoftwareCoreVersion(t *testing.T) {
	d, rec := load(t, haldriver.Software(haldriver.WithAPIVersion(vk.APIVersion1_3), haldriver.WithExtensions()))
	if rec.Len() != 0 {
		t.Errorf("unexpected diagnostics: %v", rec.Messages())
	}
	for _, name := range []string{
		"vkGetPhysicalDeviceFeatures2",
		"vkGetPhysicalDeviceExternalBufferProperties",
		"vkGetPhysicalDeviceToolProperties",
	} {
		if !d.Exports(name) {
			t.Errorf("Exports(%s) = false, want true", name)
		}
	}
	if d.Exports("vkGetPhysicalDeviceFeatures2KHR") {
		t.Error("alias exported without its extension")
	}
	props := properties(t, d)
	if props.DeviceType != gputypes.DeviceTypeCPU || props.APIVersion != vk.APIVersion1_3 {
		t.Errorf("props = %v %v, want CPU 1.3", props.DeviceType, props.APIVersion)
	}
}

func TestWithHidden(t *testing.T) {
	rec := &diag.Recorder{}
	src := haldriver.Noop(haldriver.WithHidden("vkGetPhysicalDeviceMemoryProperties"))
	_, err := icd.Load(src, catalog.Default(), icd.InstanceCreateInfo{APIVersion: vk.APIVersion1_0}, rec)
	if err == nil {
		t.Fatal("Load() succeeded without a required entry point")
	}
	if len(rec.Matching(diag.KindDriver)) != 1 {
		t.Errorf("driver diagnostics = %v, want one", rec.Messages())
	}
}

func TestFormatProperties(t *testing.T) {
	d, _ := load(t, haldriver.Noop())
	get, _ := icd.Lookup[icd.GetPhysicalDeviceFormatPropertiesFunc](d, "vkGetPhysicalDeviceFormatProperties")
	pd := d.Devices()[0]

	var color vk.FormatProperties
	get(pd, gputypes.TextureFormatRGBA8Unorm, &color)
	want := vk.FormatFeatureSampledImage | vk.FormatFeatureStorageImage |
		vk.FormatFeatureColorAttachment | vk.FormatFeatureColorAttachmentBlend
	if color.OptimalTilingFeatures&want != want {
		t.Errorf("optimal features = %#x, want at least %#x", color.OptimalTilingFeatures, want)
	}
	if color.LinearTilingFeatures&vk.FormatFeatureColorAttachment != 0 {
		t.Error("linear tiling must not be renderable")
	}

	var depth vk.FormatProperties
	get(pd, gputypes.TextureFormatDepth24Plus, &depth)
	if depth.OptimalTilingFeatures&vk.FormatFeatureDepthStencilAttachment == 0 {
		t.Error("depth format lacks depth-stencil attachment support")
	}
	if depth.OptimalTilingFeatures&(vk.FormatFeatureColorAttachment|vk.FormatFeatureColorAttachmentBlend) != 0 {
		t.Error("depth format reported as color attachment")
	}
}

func TestImageFormatProperties(t *testing.T) {
	d, _ := load(t, haldriver.Noop())
	get, _ := icd.Lookup[icd.GetPhysicalDeviceImageFormatPropertiesFunc](d, "vkGetPhysicalDeviceImageFormatProperties")
	pd := d.Devices()[0]
	lim := gputypes.DefaultLimits()

	tests := []struct {
		name    string
		typ     vk.ImageType
		tiling  vk.ImageTiling
		flags   vk.ImageCreateFlags
		want    vk.Result
		extent  gputypes.Extent3D
		layers  uint32
		samples vk.SampleCountFlags
	}{
		{
			name: "2D optimal", typ: gputypes.TextureDimension2D, tiling: vk.ImageTilingOptimal,
			want:    vk.Success,
			extent:  gputypes.Extent3D{Width: lim.MaxTextureDimension2D, Height: lim.MaxTextureDimension2D, DepthOrArrayLayers: 1},
			layers:  lim.MaxTextureArrayLayers,
			samples: vk.SampleCount1 | vk.SampleCount4,
		},
		{
			name: "3D optimal", typ: gputypes.TextureDimension3D, tiling: vk.ImageTilingOptimal,
			want:    vk.Success,
			extent:  gputypes.Extent3D{Width: lim.MaxTextureDimension3D, Height: lim.MaxTextureDimension3D, DepthOrArrayLayers: lim.MaxTextureDimension3D},
			layers:  1,
			samples: vk.SampleCount1,
		},
		{
			name: "2D linear", typ: gputypes.TextureDimension2D, tiling: vk.ImageTilingLinear,
			want:    vk.Success,
			extent:  gputypes.Extent3D{Width: lim.MaxTextureDimension2D, Height: lim.MaxTextureDimension2D, DepthOrArrayLayers: 1},
			layers:  1,
			samples: vk.SampleCount1,
		},
		{name: "sparse", typ: gputypes.TextureDimension2D, flags: vk.ImageCreateSparseBinding, want: vk.ErrorFormatNotSupported},
		{name: "undefined type", typ: gputypes.TextureDimensionUndefined, want: vk.ErrorFormatNotSupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out vk.ImageFormatProperties
			r := get(pd, gputypes.TextureFormatRGBA8Unorm, tt.typ, tt.tiling, gputypes.TextureUsageTextureBinding, tt.flags, &out)
			if r != tt.want {
				t.Fatalf("result = %v, want %v", r, tt.want)
			}
			if r != vk.Success {
				return
			}
			if out.MaxExtent != tt.extent {
				t.Errorf("MaxExtent = %+v, want %+v", out.MaxExtent, tt.extent)
			}
			if out.MaxArrayLayers != tt.layers {
				t.Errorf("MaxArrayLayers = %d, want %d", out.MaxArrayLayers, tt.layers)
			}
			if out.SampleCounts != tt.samples {
				t.Errorf("SampleCounts = %#x, want %#x", out.SampleCounts, tt.samples)
			}
			if out.MaxMipLevels == 0 {
				t.Error("MaxMipLevels = 0")
			}
		})
	}
}

func TestSharedAcrossInstances(t *testing.T) {
	src := haldriver.Noop()
	rec := &diag.Recorder{}
	info := icd.InstanceCreateInfo{APIVersion: vk.APIVersion1_0}
	first, err := icd.Load(src, catalog.Default(), info, rec)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	second, err := icd.Load(src, catalog.Default(), info, rec)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}

	enum, _ := icd.Lookup[icd.EnumeratePhysicalDevicesFunc](second, "vkEnumeratePhysicalDevices")
	var n uint32
	first.Destroy()
	enum(&n, nil)
	if n != 1 {
		t.Errorf("devices after first Destroy = %d, want 1", n)
	}
	second.Destroy()
	enum(&n, nil)
	if n != 0 {
		t.Errorf("devices after last Destroy = %d, want 0", n)
	}
}

func TestThroughTerminator(t *testing.T) {
	tests := []struct {
		name     string
		src      *haldriver.Driver
		emulated bool
	}{
		{name: "alias", src: haldriver.Noop()},
		{name: "core", src: haldriver.Noop(haldriver.WithAPIVersion(vk.APIVersion1_1), haldriver.WithExtensions())},
		{name: "legacy", src: haldriver.Noop(haldriver.WithExtensions()), emulated: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, rec := load(t, tt.src)
			reg := registry.New()
			pd := reg.Add(d)[0]
			tm := terminator.New(terminator.Config{Sink: rec})

			id := vk.PhysicalDeviceIDProperties{}
			out := vk.PhysicalDeviceProperties2{}
			out.Next = &id
			tm.GetPhysicalDeviceProperties2(pd, &out)
			if out.Properties.DeviceName != "Noop Adapter" {
				t.Errorf("DeviceName = %q", out.Properties.DeviceName)
			}

			emulated := len(rec.Matching(diag.KindEmulation)) > 0
			if emulated != tt.emulated {
				t.Errorf("emulated = %v, want %v (%v)", emulated, tt.emulated, rec.Messages())
			}
			if !tt.emulated && id.DeviceUUID == uuid.Nil {
				t.Error("native query left DeviceUUID unset")
			}

			var count uint32
			tm.GetPhysicalDeviceQueueFamilyProperties2(pd, &count, nil)
			if count != 1 {
				t.Errorf("queue families = %d, want 1", count)
			}
		})
	}
}
