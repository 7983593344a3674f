// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package vk

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Version is a packed API version: variant (3 bits), major (7 bits),
// minor (10 bits) and patch (12 bits), most significant first.
type Version uint32

// Well-known API versions.
const (
	APIVersion1_0 = Version(1<<22 | 0<<12)
	APIVersion1_1 = Version(1<<22 | 1<<12)
	APIVersion1_2 = Version(1<<22 | 2<<12)
	APIVersion1_3 = Version(1<<22 | 3<<12)
	APIVersion1_4 = Version(1<<22 | 4<<12)
)

// MakeVersion packs a version from its parts. Out-of-range parts are masked.
func MakeVersion(variant, major, minor, patch uint32) Version {
	return Version((variant&0x7)<<29 | (major&0x7f)<<22 | (minor&0x3ff)<<12 | patch&0xfff)
}

// Variant returns the variant bits.
func (v Version) Variant() uint32 { return uint32(v) >> 29 }

// Major returns the major version.
func (v Version) Major() uint32 { return uint32(v) >> 22 & 0x7f }

// Minor returns the minor version.
func (v Version) Minor() uint32 { return uint32(v) >> 12 & 0x3ff }

// Patch returns the patch version.
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

// AtLeast reports whether v meets the required version. Only variant, major
// and minor take part in the comparison: a patch release never gates a
// capability differently from patch zero.
func (v Version) AtLeast(required Version) bool {
	return v&^0xfff >= required&^0xfff
}

// String formats the version as major.minor.patch.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ParseVersion parses a semantic version string such as "1.3" or "1.2.198".
// Prerelease and build metadata are rejected.
func ParseVersion(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return 0, fmt.Errorf("vk: invalid version %q: %w", s, err)
	}
	if sv.Prerelease() != "" || sv.Metadata() != "" {
		return 0, fmt.Errorf("vk: invalid version %q: prerelease and metadata are not supported", s)
	}
	if sv.Major() > 0x7f || sv.Minor() > 0x3ff || sv.Patch() > 0xfff {
		return 0, fmt.Errorf("vk: invalid version %q: component out of range", s)
	}
	return MakeVersion(0, uint32(sv.Major()), uint32(sv.Minor()), uint32(sv.Patch())), nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
