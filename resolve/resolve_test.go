package resolve

import (
	"slices"
	"testing"

	"github.com/gogpu/vkloader/catalog"
	"github.com/gogpu/vkloader/vk"
)

type fakeDriver struct {
	name    string
	version vk.Version
	exts    []string
	syms    []string
}

func (f fakeDriver) Name() string              { return f.name }
func (f fakeDriver) APIVersion() vk.Version    { return f.version }
func (f fakeDriver) Supports(ext string) bool  { return slices.Contains(f.exts, ext) }
func (f fakeDriver) Exports(name string) bool  { return slices.Contains(f.syms, name) }

// loaderServes mimics a loader with a terminator for every catalog name.
func loaderServes(name string) bool {
	_, ok := catalog.Default().Lookup(name)
	return ok
}

func state(v vk.Version, exts ...string) State {
	return State{Version: v, Extensions: vk.NewExtensionSet(exts...), Served: loaderServes}
}

func TestInstanceCoreAndAlias(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name  string
		state State
		query string
		want  bool
		alias bool
	}{
		{"1.1 core", state(vk.APIVersion1_1), "vkGetPhysicalDeviceFeatures2", true, false},
		{"1.1 alias without extension", state(vk.APIVersion1_1), "vkGetPhysicalDeviceFeatures2KHR", false, false},
		{"1.0 alias with extension", state(vk.APIVersion1_0, vk.KHRGetPhysicalDeviceProperties2), "vkGetPhysicalDeviceProperties2KHR", true, true},
		{"1.0 core without legacy exposure", state(vk.APIVersion1_0), "vkGetPhysicalDeviceProperties2", false, false},
		{"1.0 external buffer", state(vk.APIVersion1_0), "vkGetPhysicalDeviceExternalBufferProperties", false, false},
		{"1.0 external buffer alias", state(vk.APIVersion1_0, vk.KHRExternalMemoryCapabilities), "vkGetPhysicalDeviceExternalBufferPropertiesKHR", true, true},
		{"1.3 tools", state(vk.APIVersion1_3), "vkGetPhysicalDeviceToolProperties", true, false},
		{"1.2 tools", state(vk.APIVersion1_2), "vkGetPhysicalDeviceToolProperties", false, false},
		{"patch does not gate", state(vk.MakeVersion(0, 1, 0, 250)), "vkGetPhysicalDeviceFeatures2", false, false},
		{"1.0 entry", state(vk.APIVersion1_0), "vkGetPhysicalDeviceFeatures", true, false},
		{"unknown name", state(vk.APIVersion1_4), "vkDoesNotExist", false, false},
		{"global bound", state(vk.APIVersion1_3), "vkEnumerateInstanceExtensionProperties", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Instance(cat, tt.state, tt.query)
			if ok != tt.want {
				t.Fatalf("Instance(%s) ok = %v, want %v", tt.query, ok, tt.want)
			}
			if ok && got.Alias != tt.alias {
				t.Errorf("Instance(%s).Alias = %v, want %v", tt.query, got.Alias, tt.alias)
			}
			if ok && got.Symbol != tt.query {
				t.Errorf("Instance(%s).Symbol = %s", tt.query, got.Symbol)
			}
		})
	}
}

func TestInstanceLegacyExposure(t *testing.T) {
	cat := catalog.Default()
	s := state(vk.APIVersion1_0)
	s.LegacyExposure = true

	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceProperties2"); !ok {
		t.Error("legacy exposure: 1.0 instance must resolve vkGetPhysicalDeviceProperties2")
	}
	// Only flagged entries are affected.
	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceExternalFenceProperties"); ok {
		t.Error("legacy exposure leaked to an unflagged entry")
	}
	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceProperties2KHR"); ok {
		t.Error("legacy exposure must not expose the alias")
	}
}

func TestInstanceDeviceExtension(t *testing.T) {
	cat := catalog.Default()
	s := state(vk.APIVersion1_1)
	s.Drivers = []Surface{
		fakeDriver{name: "a", version: vk.APIVersion1_1},
		fakeDriver{name: "b", version: vk.APIVersion1_1, exts: []string{vk.EXTToolingInfo}},
	}
	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceToolPropertiesEXT"); !ok {
		t.Error("device extension advertised by one driver must expose the alias")
	}
	s.Drivers = s.Drivers[:1]
	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceToolPropertiesEXT"); ok {
		t.Error("device extension advertised by no driver exposed the alias")
	}
}

func TestInstanceServedByDriverOnly(t *testing.T) {
	cat := catalog.Default()
	s := State{Version: vk.APIVersion1_1, Drivers: []Surface{
		fakeDriver{name: "a", version: vk.APIVersion1_1, syms: []string{"vkGetPhysicalDeviceFeatures2"}},
	}}
	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceFeatures2"); !ok {
		t.Error("symbol exported by a driver must resolve")
	}
	if _, ok := Instance(cat, s, "vkGetPhysicalDeviceProperties2"); ok {
		t.Error("symbol served by nobody resolved")
	}
}

func TestInstanceDeterministic(t *testing.T) {
	cat := catalog.Default()
	s := state(vk.APIVersion1_1, vk.KHRExternalFenceCapabilities)
	names := cat.Names()

	first := make(map[string]bool, len(names))
	for _, n := range names {
		_, ok := Instance(cat, s, n)
		first[n] = ok
	}
	for i := range 3 {
		// Query in reverse order on odd passes.
		order := slices.Clone(names)
		if i%2 == 1 {
			slices.Reverse(order)
		}
		for _, n := range order {
			if _, ok := Instance(cat, s, n); ok != first[n] {
				t.Errorf("pass %d: Instance(%s) = %v, first = %v", i, n, ok, first[n])
			}
		}
	}
}

func TestGlobalCutoff(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name  string
		query string
		live  []vk.Version
		want  bool
	}{
		{"no instance", "vkEnumerateInstanceExtensionProperties", nil, true},
		{"1.2 instance", "vkEnumerateInstanceExtensionProperties", []vk.Version{vk.APIVersion1_2}, true},
		{"1.3 instance", "vkEnumerateInstanceExtensionProperties", []vk.Version{vk.APIVersion1_3}, false},
		{"1.3 patch", "vkCreateInstance", []vk.Version{vk.MakeVersion(0, 1, 3, 200)}, false},
		{"mixed", "vkEnumerateInstanceLayerProperties", []vk.Version{vk.APIVersion1_0, vk.APIVersion1_4}, false},
		{"gipa always", "vkGetInstanceProcAddr", []vk.Version{vk.APIVersion1_4}, true},
		{"non-global", "vkGetPhysicalDeviceFeatures", nil, false},
		{"unknown", "vkNope", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Global(cat, tt.query, tt.live); ok != tt.want {
				t.Errorf("Global(%s, %v) = %v, want %v", tt.query, tt.live, ok, tt.want)
			}
		})
	}
}

func TestGlobalAsymmetry(t *testing.T) {
	cat := catalog.Default()
	const name = "vkEnumerateInstanceExtensionProperties"
	for _, v := range []vk.Version{vk.APIVersion1_0, vk.APIVersion1_3} {
		_, null := Global(cat, name, []vk.Version{v})
		_, bound := Instance(cat, state(v), name)
		if !bound {
			t.Errorf("%v: bound query must resolve", v)
		}
		if wantNull := !v.AtLeast(vk.APIVersion1_3); null != wantNull {
			t.Errorf("%v: null query = %v, want %v", v, null, wantNull)
		}
	}
}

func TestDriverSelection(t *testing.T) {
	e, _ := catalog.Default().Lookup("vkGetPhysicalDeviceFeatures2")
	tests := []struct {
		name       string
		drv        fakeDriver
		tier       Tier
		symbol     string
		violations int
	}{
		{
			name:   "core",
			drv:    fakeDriver{version: vk.APIVersion1_1, syms: []string{e.Name, e.Alias}},
			tier:   TierCore,
			symbol: e.Name,
		},
		{
			name:   "alias only",
			drv:    fakeDriver{version: vk.APIVersion1_0, exts: []string{e.Extension}, syms: []string{e.Alias}},
			tier:   TierAlias,
			symbol: e.Alias,
		},
		{
			name: "emulate",
			drv:  fakeDriver{version: vk.APIVersion1_0},
			tier: TierEmulate,
		},
		{
			name:       "version claim without symbol",
			drv:        fakeDriver{version: vk.APIVersion1_1, exts: []string{e.Extension}, syms: []string{e.Alias}},
			tier:       TierAlias,
			symbol:     e.Alias,
			violations: 1,
		},
		{
			name:       "claims everything, exports nothing",
			drv:        fakeDriver{version: vk.APIVersion1_2, exts: []string{e.Extension}},
			tier:       TierEmulate,
			violations: 2,
		},
		{
			name: "exports core below its version",
			drv:  fakeDriver{version: vk.APIVersion1_0, syms: []string{e.Name}},
			tier: TierEmulate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.drv.name = "libtest.so"
			sel := Driver(e, tt.drv)
			if sel.Tier != tt.tier || sel.Symbol != tt.symbol {
				t.Errorf("Driver() = %v %q, want %v %q", sel.Tier, sel.Symbol, tt.tier, tt.symbol)
			}
			if len(sel.Violations) != tt.violations {
				t.Errorf("violations = %v, want %d", sel.Violations, tt.violations)
			}
			if sel.Native() != (tt.tier != TierEmulate) {
				t.Errorf("Native() = %v", sel.Native())
			}
			for _, v := range sel.Violations {
				if v.Driver != "libtest.so" || v.String() == "" {
					t.Errorf("violation %+v not tagged with the driver", v)
				}
			}
		})
	}
}
