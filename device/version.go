// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import "fmt"

// Version is a Vulkan packed version number
type Version uint32

// MakeVersion packs a version the same way VK_MAKE_VERSION does
func MakeVersion(major, minor, patch uint32) Version {
	return Version(major<<22 | (minor&0x3ff)<<12 | patch&0xfff)
}

// Major version number
func (v Version) Major() uint32 {
	return uint32(v) >> 22
}

// Minor version number
func (v Version) Minor() uint32 {
	return (uint32(v) >> 12) & 0x3ff
}

// Patch version number
func (v Version) Patch() uint32 {
	return uint32(v) & 0xfff
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}
