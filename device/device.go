// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device describes the graphics driver as seen by the reporter:
// a driver hands out a context, the context enumerates physical devices,
// and every physical device can describe itself.
package device

// ApplicationInfo describes the application requesting a driver context
type ApplicationInfo struct {
	ApplicationName    string
	EngineName         string
	ApplicationVersion Version
	EngineVersion      Version
	APIVersion         Version
}

// DefaultApplicationInfo is the application description used by vkreport
var DefaultApplicationInfo = ApplicationInfo{
	ApplicationName:    "Context",
	EngineName:         "Vulkan",
	ApplicationVersion: MakeVersion(1, 0, 0),
	EngineVersion:      MakeVersion(1, 0, 0),
	APIVersion:         MakeVersion(1, 0, 0),
}

// PhysicalDeviceInfo describes available physical properties of a rendering device
type PhysicalDeviceInfo struct {
	ID            uint32
	VendorID      uint32
	DriverVersion uint32
	APIVersion    uint32
	Type          DeviceType
	Name          string
	Extensions    []string

	// Layers and Memory are only filled in by backends that can query them
	Layers []string
	Memory uint64
}

// Driver is the entry point into a graphics driver
type Driver interface {
	// CreateContext initialises a driver context for the application.
	// Failures are reported as *ContextCreationError.
	CreateContext(ApplicationInfo) (Context, error)
}

// Context is an initialised connection to the driver. All queries
// are invalid once Release was called.
type Context interface {
	// Extensions returns the context level extension names
	Extensions() ([]string, error)

	// PhysicalDevices returns the devices visible through the context,
	// in the order the driver reports them
	PhysicalDevices() ([]PhysicalDevice, error)

	// Release destroys the context. Calling it more than once is a no-op.
	Release()
}

// PhysicalDevice is a single device visible through a Context
type PhysicalDevice interface {
	// Properties returns a snapshot of the device properties
	Properties() (PhysicalDeviceInfo, error)

	// Extensions returns the device level extension names
	Extensions() ([]string, error)
}
