// Command vkinfo creates a loader instance over the in-process drivers and
// prints what the application would see: the loader version, the instance
// extensions and, for every physical device, its properties, queue families
// and memory heaps.
//
// Usage:
//
//	vkinfo [flags]
//
// Flags:
//
//	-config path   YAML configuration file (see package config)
//	-yaml          print the report as YAML
//	-dump path     print the diagnostics stored in a capture file and exit
//
// VKLOADER_API_VERSION, VKLOADER_DRIVERS, VKLOADER_DEBUG and
// VKLOADER_CAPTURE override the configuration file.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/vkloader"
	"github.com/gogpu/vkloader/config"
	"github.com/gogpu/vkloader/diag"
	_ "github.com/gogpu/vkloader/driver/haldriver"
	"github.com/gogpu/vkloader/registry"
	"github.com/gogpu/vkloader/terminator"
	"github.com/gogpu/vkloader/vk"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type report struct {
	LoaderVersion      string         `yaml:"loaderVersion"`
	InstanceVersion    string         `yaml:"instanceVersion"`
	InstanceExtensions []string       `yaml:"instanceExtensions"`
	Drivers            []driverReport `yaml:"drivers"`
	Devices            []deviceReport `yaml:"devices"`
}

type driverReport struct {
	Name       string `yaml:"name"`
	APIVersion string `yaml:"apiVersion"`
	Symbols    int    `yaml:"symbols"`
}

type deviceReport struct {
	Index         int           `yaml:"index"`
	Name          string        `yaml:"name"`
	Type          string        `yaml:"type"`
	APIVersion    string        `yaml:"apiVersion"`
	DriverVersion string        `yaml:"driverVersion"`
	VendorID      uint32        `yaml:"vendorID"`
	DeviceID      uint32        `yaml:"deviceID"`
	Driver        string        `yaml:"driver"`
	DriverName    string        `yaml:"driverName,omitempty"`
	DeviceUUID    string        `yaml:"deviceUUID,omitempty"`
	Emulated      bool          `yaml:"emulated"`
	QueueFamilies []queueReport `yaml:"queueFamilies"`
	MemoryHeaps   []uint64      `yaml:"memoryHeaps"`
	Extensions    []string      `yaml:"extensions"`
}

type queueReport struct {
	Flags string `yaml:"flags"`
	Count uint32 `yaml:"count"`
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("vkinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "YAML configuration file")
		asYAML     = fs.Bool("yaml", false, "print the report as YAML")
		dumpPath   = fs.String("dump", "", "print the diagnostics of a capture file and exit")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *dumpPath != "" {
		if err := dump(stdout, *dumpPath); err != nil {
			fmt.Fprintf(stderr, "vkinfo: %v\n", err)
			return 1
		}
		return 0
	}

	rep, err := collect(*configPath, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "vkinfo: %v\n", err)
		return 1
	}
	if *asYAML {
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			fmt.Fprintf(stderr, "vkinfo: %v\n", err)
			return 1
		}
		return 0
	}
	printText(stdout, rep)
	return 0
}

func dump(w io.Writer, path string) error {
	recs, err := diag.ReadCaptureFile(path)
	if err != nil {
		return err
	}
	for _, r := range recs {
		fmt.Fprintf(w, "%s %s\n", r.Time.Format(time.RFC3339), r.Message())
	}
	return nil
}

func collect(configPath string, logOut io.Writer) (*report, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return nil, err
		}
	}
	cfg, err := config.FromEnv(cfg)
	if err != nil {
		return nil, err
	}
	sev, _ := cfg.Severity()
	vkloader.SetLogger(slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: sev.Level()})))
	defer vkloader.SetLogger(nil)

	opts, closeCapture, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	defer func() { _ = closeCapture() }()

	l := vkloader.New(opts...)
	rep := &report{LoaderVersion: l.EnumerateInstanceVersion().String()}

	enumExts, ok := vkloader.GetProc[vkloader.EnumerateInstanceExtensionPropertiesFunc](l, nil, "vkEnumerateInstanceExtensionProperties")
	if ok {
		var n uint32
		enumExts("", &n, nil)
		exts := make([]vk.ExtensionProperties, n)
		enumExts("", &n, exts)
		for _, e := range exts[:n] {
			rep.InstanceExtensions = append(rep.InstanceExtensions, e.ExtensionName)
		}
	}

	info, err := cfg.InstanceCreateInfo()
	if err != nil {
		return nil, err
	}
	inst, err := l.CreateInstance(info)
	if err != nil {
		return nil, fmt.Errorf("creating instance: %w", err)
	}
	defer inst.Destroy()

	rep.InstanceVersion = inst.APIVersion().String()
	for _, d := range inst.Drivers() {
		rep.Drivers = append(rep.Drivers, driverReport{
			Name:       d.Name(),
			APIVersion: d.APIVersion().String(),
			Symbols:    len(d.Symbols()),
		})
	}
	for _, pd := range inst.PhysicalDevices() {
		rep.Devices = append(rep.Devices, describe(l, inst, pd))
	}
	return rep, nil
}

// describe queries pd through the entry points the instance resolves, as
// an application would.
func describe(l *vkloader.Loader, inst *vkloader.Instance, pd *registry.PhysicalDevice) deviceReport {
	r := deviceReport{Index: pd.Index(), Driver: pd.Driver().Name()}

	var props vk.PhysicalDeviceProperties
	if get2, ok := props2(l, inst); ok {
		id := vk.PhysicalDeviceIDProperties{}
		drv := vk.PhysicalDeviceDriverProperties{}
		out := vk.PhysicalDeviceProperties2{}
		out.Next = &id
		id.Next = &drv
		get2(pd, &out)
		props = out.Properties
		r.DriverName = drv.DriverName
		if id.DeviceUUID != uuid.Nil {
			r.DeviceUUID = id.DeviceUUID.String()
		}
		r.Emulated = !pd.Driver().Exports("vkGetPhysicalDeviceProperties2") &&
			!pd.Driver().Exports("vkGetPhysicalDeviceProperties2KHR")
	} else if get, ok := vkloader.GetProc[terminator.GetPhysicalDevicePropertiesFunc](l, inst, "vkGetPhysicalDeviceProperties"); ok {
		get(pd, &props)
	}
	r.Name = props.DeviceName
	r.Type = props.DeviceType.String()
	r.APIVersion = props.APIVersion.String()
	r.DriverVersion = vk.Version(props.DriverVersion).String()
	r.VendorID = props.VendorID
	r.DeviceID = props.DeviceID

	if get, ok := vkloader.GetProc[terminator.GetPhysicalDeviceQueueFamilyPropertiesFunc](l, inst, "vkGetPhysicalDeviceQueueFamilyProperties"); ok {
		var n uint32
		get(pd, &n, nil)
		qs := make([]vk.QueueFamilyProperties, n)
		get(pd, &n, qs)
		for _, q := range qs[:n] {
			r.QueueFamilies = append(r.QueueFamilies, queueReport{Flags: queueFlags(q.QueueFlags), Count: q.QueueCount})
		}
	}
	if get, ok := vkloader.GetProc[terminator.GetPhysicalDeviceMemoryPropertiesFunc](l, inst, "vkGetPhysicalDeviceMemoryProperties"); ok {
		var mem vk.PhysicalDeviceMemoryProperties
		get(pd, &mem)
		for _, h := range mem.MemoryHeaps {
			r.MemoryHeaps = append(r.MemoryHeaps, h.Size)
		}
	}
	if enum, ok := vkloader.GetProc[terminator.EnumerateDeviceExtensionPropertiesFunc](l, inst, "vkEnumerateDeviceExtensionProperties"); ok {
		var n uint32
		enum(pd, "", &n, nil)
		exts := make([]vk.ExtensionProperties, n)
		enum(pd, "", &n, exts)
		for _, e := range exts[:n] {
			r.Extensions = append(r.Extensions, e.ExtensionName)
		}
	}
	return r
}

func props2(l *vkloader.Loader, inst *vkloader.Instance) (terminator.GetPhysicalDeviceProperties2Func, bool) {
	if f, ok := vkloader.GetProc[terminator.GetPhysicalDeviceProperties2Func](l, inst, "vkGetPhysicalDeviceProperties2"); ok {
		return f, true
	}
	return vkloader.GetProc[terminator.GetPhysicalDeviceProperties2Func](l, inst, "vkGetPhysicalDeviceProperties2KHR")
}

func queueFlags(f vk.QueueFlags) string {
	var parts []string
	for _, q := range []struct {
		bit  vk.QueueFlags
		name string
	}{
		{vk.QueueGraphics, "graphics"},
		{vk.QueueCompute, "compute"},
		{vk.QueueTransfer, "transfer"},
		{vk.QueueSparseBinding, "sparse"},
	} {
		if f&q.bit != 0 {
			parts = append(parts, q.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func printText(w io.Writer, rep *report) {
	fmt.Fprintf(w, "Loader version:   %s\n", rep.LoaderVersion)
	fmt.Fprintf(w, "Instance version: %s\n", rep.InstanceVersion)
	fmt.Fprintf(w, "Instance extensions (%d):\n", len(rep.InstanceExtensions))
	for _, e := range rep.InstanceExtensions {
		fmt.Fprintf(w, "  %s\n", e)
	}
	fmt.Fprintf(w, "Drivers (%d):\n", len(rep.Drivers))
	for _, d := range rep.Drivers {
		fmt.Fprintf(w, "  %s  api %s  %d entry points\n", d.Name, d.APIVersion, d.Symbols)
	}
	for _, d := range rep.Devices {
		fmt.Fprintf(w, "\nDevice %d: %s\n", d.Index, d.Name)
		fmt.Fprintf(w, "  type:           %s\n", d.Type)
		fmt.Fprintf(w, "  api version:    %s\n", d.APIVersion)
		fmt.Fprintf(w, "  driver:         %s (version %s)\n", d.Driver, d.DriverVersion)
		if d.DriverName != "" {
			fmt.Fprintf(w, "  driver name:    %s\n", d.DriverName)
		}
		fmt.Fprintf(w, "  vendor/device:  %#04x/%#04x\n", d.VendorID, d.DeviceID)
		if d.DeviceUUID != "" {
			fmt.Fprintf(w, "  device uuid:    %s\n", d.DeviceUUID)
		}
		fmt.Fprintf(w, "  emulated props2: %t\n", d.Emulated)
		for i, q := range d.QueueFamilies {
			fmt.Fprintf(w, "  queue family %d: %s x%d\n", i, q.Flags, q.Count)
		}
		for i, h := range d.MemoryHeaps {
			fmt.Fprintf(w, "  memory heap %d:  %d MiB\n", i, h>>20)
		}
		if len(d.Extensions) > 0 {
			fmt.Fprintf(w, "  extensions:     %s\n", strings.Join(d.Extensions, ", "))
		}
	}
}
