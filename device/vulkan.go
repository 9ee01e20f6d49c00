// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package device

import (
	"fmt"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// NewVulkanDriver creates a Driver backed by the system Vulkan loader.
// The loader itself is only opened when a context is requested.
func NewVulkanDriver(logger log.FieldLogger) *Vulkan {
	return &Vulkan{
		logger: logger,
	}
}

// Vulkan is a Driver talking to the system Vulkan loader
type Vulkan struct {
	logger      log.FieldLogger
	loaderReady bool
}

func (v *Vulkan) initLoader() error {
	if v.loaderReady {
		return nil
	}
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return errors.Wrap(ErrNoLoader, err.Error())
	}
	if err := vk.Init(); err != nil {
		return errors.Wrap(err, "vk.Init()")
	}
	v.loaderReady = true
	return nil
}

// CreateContext implements Driver
func (v *Vulkan) CreateContext(app ApplicationInfo) (Context, error) {
	if err := v.initLoader(); err != nil {
		return nil, NewContextCreationError(err)
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		PApplicationName:   safeString(app.ApplicationName),
		ApplicationVersion: uint32(app.ApplicationVersion),
		PEngineName:        safeString(app.EngineName),
		EngineVersion:      uint32(app.EngineVersion),
		ApiVersion:         uint32(app.APIVersion),
	}

	instanceInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	var instance vk.Instance
	if err := vk.Error(vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, NewContextCreationError(errors.Wrap(err, "vk.CreateInstance()"))
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, NewContextCreationError(errors.Wrap(err, "vk.InitInstance()"))
	}

	v.logger.WithField("application", app.ApplicationName).Debug("vulkan instance created")
	return &vulkanContext{
		logger:   v.logger,
		instance: instance,
	}, nil
}

type vulkanContext struct {
	logger   log.FieldLogger
	instance vk.Instance
	released bool
}

func (c *vulkanContext) Extensions() ([]string, error) {
	if c.released {
		return nil, ErrReleased
	}

	var count uint32
	if err := checkResult(vk.EnumerateInstanceExtensionProperties("", &count, nil), "vk.EnumerateInstanceExtensionProperties()"); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := checkResult(vk.EnumerateInstanceExtensionProperties("", &count, props), "vk.EnumerateInstanceExtensionProperties()"); err != nil {
		return nil, err
	}
	return extensionNames(props[:count]), nil
}

func (c *vulkanContext) PhysicalDevices() ([]PhysicalDevice, error) {
	if c.released {
		return nil, ErrReleased
	}

	var deviceCount uint32
	if err := checkResult(vk.EnumeratePhysicalDevices(c.instance, &deviceCount, nil), "vk.EnumeratePhysicalDevices()"); err != nil {
		return nil, err
	}
	handles := make([]vk.PhysicalDevice, deviceCount)
	if err := checkResult(vk.EnumeratePhysicalDevices(c.instance, &deviceCount, handles), "vk.EnumeratePhysicalDevices()"); err != nil {
		return nil, err
	}

	devices := make([]PhysicalDevice, 0, deviceCount)
	for _, handle := range handles[:deviceCount] {
		devices = append(devices, &vulkanPhysicalDevice{
			context: c,
			handle:  handle,
		})
	}
	c.logger.WithField("count", len(devices)).Debug("physical devices enumerated")
	return devices, nil
}

func (c *vulkanContext) Release() {
	if c.released {
		return
	}
	c.released = true
	vk.DestroyInstance(c.instance, nil)
	c.logger.Debug("vulkan instance destroyed")
}

type vulkanPhysicalDevice struct {
	context *vulkanContext
	handle  vk.PhysicalDevice
}

func (d *vulkanPhysicalDevice) Properties() (PhysicalDeviceInfo, error) {
	if d.context.released {
		return PhysicalDeviceInfo{}, ErrReleased
	}

	var properties vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(d.handle, &properties)
	properties.Deref()

	info := PhysicalDeviceInfo{
		ID:            properties.DeviceID,
		VendorID:      properties.VendorID,
		DriverVersion: properties.DriverVersion,
		APIVersion:    properties.ApiVersion,
		Type:          DeviceType(properties.DeviceType),
		Name:          vk.ToString(properties.DeviceName[:]),
	}

	// Get memory info
	var memoryProperties vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(d.handle, &memoryProperties)
	memoryProperties.Deref()
	for iMem := uint32(0); iMem < memoryProperties.MemoryHeapCount; iMem++ {
		memoryProperties.MemoryHeaps[iMem].Deref()
		info.Memory += uint64(memoryProperties.MemoryHeaps[iMem].Size)
	}

	// Get layers info
	var numDeviceLayers uint32
	if err := checkResult(vk.EnumerateDeviceLayerProperties(d.handle, &numDeviceLayers, nil), "vk.EnumerateDeviceLayerProperties()"); err != nil {
		return info, err
	}
	deviceLayers := make([]vk.LayerProperties, numDeviceLayers)
	if err := checkResult(vk.EnumerateDeviceLayerProperties(d.handle, &numDeviceLayers, deviceLayers), "vk.EnumerateDeviceLayerProperties()"); err != nil {
		return info, err
	}
	for i := range deviceLayers[:numDeviceLayers] {
		deviceLayers[i].Deref()
		info.Layers = append(info.Layers, vk.ToString(deviceLayers[i].LayerName[:]))
	}

	return info, nil
}

func (d *vulkanPhysicalDevice) Extensions() ([]string, error) {
	if d.context.released {
		return nil, ErrReleased
	}

	var numDeviceExtensions uint32
	if err := checkResult(vk.EnumerateDeviceExtensionProperties(d.handle, "", &numDeviceExtensions, nil), "vk.EnumerateDeviceExtensionProperties()"); err != nil {
		return nil, err
	}
	deviceExt := make([]vk.ExtensionProperties, numDeviceExtensions)
	if err := checkResult(vk.EnumerateDeviceExtensionProperties(d.handle, "", &numDeviceExtensions, deviceExt), "vk.EnumerateDeviceExtensionProperties()"); err != nil {
		return nil, err
	}
	return extensionNames(deviceExt[:numDeviceExtensions]), nil
}

func extensionNames(props []vk.ExtensionProperties) []string {
	names := make([]string, 0, len(props))
	for i := range props {
		props[i].Deref()
		names = append(names, vk.ToString(props[i].ExtensionName[:]))
	}
	return names
}

// checkResult turns a failed result into an error naming the call
func checkResult(result vk.Result, call string) error {
	if err := vk.Error(result); err != nil {
		return errors.Wrap(err, call)
	}
	return nil
}

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}
