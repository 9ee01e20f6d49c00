// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

// DeviceType is the category a physical device reports. Values match
// VkPhysicalDeviceType, drivers may report values not listed here.
type DeviceType int32

// Known device types
const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeIntegratedGPU
	DeviceTypeDiscreteGPU
	DeviceTypeVirtualGPU
	DeviceTypeCPU
)

// String maps every device type to a printable name,
// unrecognised values become "Unknown"
func (t DeviceType) String() string {
	switch t {
	case DeviceTypeCPU:
		return "CPU"
	case DeviceTypeDiscreteGPU:
		return "Discrete GPU"
	case DeviceTypeIntegratedGPU:
		return "Integrated GPU"
	case DeviceTypeVirtualGPU:
		return "Virtual GPU"
	case DeviceTypeOther:
		return "Other"
	default:
		return "Unknown"
	}
}
