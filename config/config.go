// Package config loads loader settings from YAML files and the environment.
//
// A configuration file looks like:
//
//	apiVersion: "1.1"
//	extensions:
//	  - VK_KHR_get_physical_device_properties2
//	drivers: [software, noop]
//	logLevel: info
//	capture: /tmp/vkloader.cbor
//	scratchLimit: 65536
//	quirks:
//	  exposeBelowCore: false
//
// Every field is optional. Environment variables read by FromEnv override
// the file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/vkloader"
	"github.com/gogpu/vkloader/diag"
	"github.com/gogpu/vkloader/icd"
	"github.com/gogpu/vkloader/vk"
)

// Environment variables read by FromEnv.
const (
	EnvAPIVersion = "VKLOADER_API_VERSION"
	EnvDrivers    = "VKLOADER_DRIVERS"
	EnvDebug      = "VKLOADER_DEBUG"
	EnvCapture    = "VKLOADER_CAPTURE"
)

// DefaultLogLevel is the log level of a zero Config.
const DefaultLogLevel = "warn"

// ErrInvalid is returned for configurations that parse but cannot be used.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds loader settings.
type Config struct {
	// APIVersion is the version requested at instance creation, as a
	// semantic version string. Empty means 1.0.
	APIVersion string `yaml:"apiVersion"`

	// Extensions are the instance extensions to enable.
	Extensions []string `yaml:"extensions"`

	// Drivers names registered in-process drivers to load, in order.
	// Empty means every registered driver.
	Drivers []string `yaml:"drivers"`

	// LogLevel is the lowest diagnostic severity that reaches the log.
	LogLevel string `yaml:"logLevel"`

	// Capture is a file receiving every diagnostic as CBOR records.
	Capture string `yaml:"capture"`

	// ScratchLimit bounds the temporary storage of one emulated query, in
	// bytes. Zero selects the default; negative disables scratch storage.
	ScratchLimit int `yaml:"scratchLimit"`

	Quirks Quirks `yaml:"quirks"`
}

// Quirks toggle legacy behaviour.
type Quirks struct {
	// ExposeBelowCore lets contexts older than 1.1 resolve the core names
	// of the extended physical-device queries. Nil means true.
	ExposeBelowCore *bool `yaml:"exposeBelowCore"`
}

// exposeBelowCore returns the effective ExposeBelowCore setting.
func (q Quirks) exposeBelowCore() bool {
	return q.ExposeBelowCore == nil || *q.ExposeBelowCore
}

// Load reads the configuration file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w (%s)", err, path)
	}
	return c, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are
// rejected.
func Parse(data []byte) (Config, error) {
	var c Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// FromEnv returns base overlaid with the VKLOADER_* environment variables:
// VKLOADER_API_VERSION replaces APIVersion, VKLOADER_DRIVERS a
// comma-separated driver list, VKLOADER_CAPTURE the capture file.
// VKLOADER_DEBUG is either a level name or a boolean, true meaning debug.
func FromEnv(base Config) (Config, error) {
	c := base
	if v, ok := os.LookupEnv(EnvAPIVersion); ok {
		c.APIVersion = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvDrivers); ok {
		c.Drivers = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvCapture); ok {
		c.Capture = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv(EnvDebug); ok {
		level, err := debugLevel(v)
		if err != nil {
			return Config{}, err
		}
		if level != "" {
			c.LogLevel = level
		}
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func splitList(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func debugLevel(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", nil
	}
	if _, err := diag.ParseSeverity(v); err == nil {
		return v, nil
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return "", fmt.Errorf("%w: %s=%q", ErrInvalid, EnvDebug, v)
	}
	if on {
		return "debug", nil
	}
	return "", nil
}

// Validate checks that the version, log level and drivers are usable.
func (c Config) Validate() error {
	if _, err := c.Version(); err != nil {
		return err
	}
	if _, err := c.Severity(); err != nil {
		return err
	}
	for _, name := range c.Drivers {
		if !icd.IsRegistered(name) {
			return fmt.Errorf("%w: unknown driver %q (registered: %s)",
				ErrInvalid, name, strings.Join(icd.Registered(), ", "))
		}
	}
	return nil
}

// Version returns the requested API version. It must not exceed the
// version the loader implements.
func (c Config) Version() (vk.Version, error) {
	if c.APIVersion == "" {
		return vk.APIVersion1_0, nil
	}
	sv, err := semver.NewVersion(c.APIVersion)
	if err != nil {
		return 0, fmt.Errorf("%w: apiVersion %q: %v", ErrInvalid, c.APIVersion, err)
	}
	latest := semver.MustParse(vkloader.APIVersion.String())
	if sv.GreaterThan(latest) {
		return 0, fmt.Errorf("%w: apiVersion %s is newer than the loader's %s", ErrInvalid, sv, latest)
	}
	v, err := vk.ParseVersion(c.APIVersion)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return v, nil
}

// Severity returns the parsed log level.
func (c Config) Severity() (diag.Severity, error) {
	level := c.LogLevel
	if level == "" {
		level = DefaultLogLevel
	}
	s, err := diag.ParseSeverity(strings.ToLower(level))
	if err != nil {
		return 0, fmt.Errorf("%w: logLevel: %v", ErrInvalid, err)
	}
	return s, nil
}

// InstanceCreateInfo returns the instance description the configuration
// requests.
func (c Config) InstanceCreateInfo() (*vkloader.InstanceCreateInfo, error) {
	v, err := c.Version()
	if err != nil {
		return nil, err
	}
	return &vkloader.InstanceCreateInfo{APIVersion: v, Extensions: c.Extensions}, nil
}

// Options converts c to loader options. Diagnostics at or above the log
// level go to vkloader.Logger; all of them go to the capture file when one
// is set. The returned function closes the capture file and must be called
// once the loader is no longer used.
func (c Config) Options() ([]vkloader.Option, func() error, error) {
	sev, err := c.Severity()
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() error { return nil }

	var sink diag.Sink = diag.Filter{Min: sev, Next: vkloader.LogSink()}
	if c.Capture != "" {
		capture, err := diag.NewCaptureFile(c.Capture)
		if err != nil {
			return nil, nil, fmt.Errorf("config: capture: %w", err)
		}
		sink = diag.Multi{sink, capture}
		closeFn = capture.Close
	}

	opts := []vkloader.Option{
		vkloader.WithSink(sink),
		vkloader.WithScratchLimit(c.ScratchLimit),
		vkloader.WithLegacyExposure(c.Quirks.exposeBelowCore()),
	}
	if len(c.Drivers) > 0 {
		srcs, err := icd.Sources(c.Drivers...)
		if err != nil {
			_ = closeFn()
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		opts = append(opts, vkloader.WithDrivers(srcs...))
	}
	return opts, closeFn, nil
}
