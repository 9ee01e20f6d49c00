// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package devicetest provides an in-memory device.Driver for tests.
package devicetest

import (
	"github.com/pkg/errors"

	"github.com/devblok/vkreport/device"
)

// Device is a fake physical device
type Device struct {
	Info device.PhysicalDeviceInfo

	PropertiesErr error
	ExtensionsErr error
}

// Driver is a fake device.Driver. Zero value creates an empty context.
type Driver struct {
	Extensions []string
	Devices    []Device

	CreateErr     error
	ExtensionsErr error
	DevicesErr    error

	// Requested records the application info of every CreateContext call
	Requested []device.ApplicationInfo

	// Contexts holds every context handed out
	Contexts []*Context
}

// CreateContext implements device.Driver
func (d *Driver) CreateContext(app device.ApplicationInfo) (device.Context, error) {
	d.Requested = append(d.Requested, app)
	if d.CreateErr != nil {
		return nil, device.NewContextCreationError(d.CreateErr)
	}
	ctx := &Context{driver: d}
	d.Contexts = append(d.Contexts, ctx)
	return ctx, nil
}

// Context is a fake device.Context
type Context struct {
	driver *Driver

	// Releases counts calls to Release
	Releases int

	// QueriesAfterRelease counts queries made on a released context
	QueriesAfterRelease int
}

func (c *Context) check() error {
	if c.Releases > 0 {
		c.QueriesAfterRelease++
		return device.ErrReleased
	}
	return nil
}

// Extensions implements device.Context
func (c *Context) Extensions() ([]string, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if c.driver.ExtensionsErr != nil {
		return nil, c.driver.ExtensionsErr
	}
	return c.driver.Extensions, nil
}

// PhysicalDevices implements device.Context
func (c *Context) PhysicalDevices() ([]device.PhysicalDevice, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if c.driver.DevicesErr != nil {
		return nil, c.driver.DevicesErr
	}
	devices := make([]device.PhysicalDevice, 0, len(c.driver.Devices))
	for i := range c.driver.Devices {
		devices = append(devices, &physicalDevice{context: c, device: &c.driver.Devices[i]})
	}
	return devices, nil
}

// Release implements device.Context
func (c *Context) Release() {
	c.Releases++
}

// Released reports whether the context was released
func (c *Context) Released() bool {
	return c.Releases > 0
}

type physicalDevice struct {
	context *Context
	device  *Device
}

func (p *physicalDevice) Properties() (device.PhysicalDeviceInfo, error) {
	if err := p.context.check(); err != nil {
		return device.PhysicalDeviceInfo{}, err
	}
	if p.device.PropertiesErr != nil {
		return device.PhysicalDeviceInfo{}, p.device.PropertiesErr
	}
	return p.device.Info, nil
}

func (p *physicalDevice) Extensions() ([]string, error) {
	if err := p.context.check(); err != nil {
		return nil, err
	}
	if p.device.ExtensionsErr != nil {
		return nil, p.device.ExtensionsErr
	}
	return p.device.Info.Extensions, nil
}

// ErrDriverNotFound is a convenience creation failure
var ErrDriverNotFound = errors.New("driver not found")
