// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devblok/vkreport/core"
	"github.com/devblok/vkreport/device"
	"github.com/devblok/vkreport/device/devicetest"
	"github.com/devblok/vkreport/report"
)

var mockGPU = devicetest.Device{
	Info: device.PhysicalDeviceInfo{
		ID:            4098,
		Name:          "Mock GPU",
		Type:          device.DeviceTypeDiscreteGPU,
		VendorID:      4262,
		DriverVersion: 100663296,
		APIVersion:    4194304,
		Extensions:    []string{"VK_KHR_swapchain"},
	},
}

func newReporter(driver device.Driver, cfg core.ReportConfiguration) (*report.Reporter, *bytes.Buffer, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	out := &bytes.Buffer{}
	return report.NewReporter(driver, out, logger, cfg), out, hook
}

func textConfig() core.ReportConfiguration {
	return core.DefaultConfiguration.Report
}

func TestRunSingleDevice(t *testing.T) {
	driver := &devicetest.Driver{
		Extensions: []string{"VK_KHR_surface", "VK_KHR_xcb_surface"},
		Devices:    []devicetest.Device{mockGPU},
	}
	reporter, out, _ := newReporter(driver, textConfig())

	require.NoError(t, reporter.Run())

	expected := "Instance extensions:\n" +
		"VK_KHR_surface VK_KHR_xcb_surface\n" +
		"\n" +
		"Physical devices:\n" +
		"Id:      4098\n" +
		"Name:    Mock GPU\n" +
		"Type:    Discrete GPU\n" +
		"Vendor:  4262\n" +
		"Driver:  100663296\n" +
		"API ver: 4194304\n" +
		"VK_KHR_swapchain\n" +
		"\n"
	assert.Equal(t, expected, out.String())

	require.Len(t, driver.Requested, 1)
	assert.Equal(t, device.DefaultApplicationInfo, driver.Requested[0])
	require.Len(t, driver.Contexts, 1)
	assert.Equal(t, 1, driver.Contexts[0].Releases)
	assert.Zero(t, driver.Contexts[0].QueriesAfterRelease)
}

func TestRunVendorIsDecimal(t *testing.T) {
	gpu := mockGPU
	gpu.Info.VendorID = 0x10DE
	reporter, out, _ := newReporter(&devicetest.Driver{Devices: []devicetest.Device{gpu}}, textConfig())

	require.NoError(t, reporter.Run())
	assert.Contains(t, out.String(), "Vendor:  4318\n")
}

func TestRunDeviceCount(t *testing.T) {
	for _, n := range []int{0, 1, 3, 8} {
		driver := &devicetest.Driver{}
		for i := 0; i < n; i++ {
			gpu := mockGPU
			gpu.Info.ID = uint32(i)
			gpu.Info.Name = "GPU " + string(rune('A'+i))
			driver.Devices = append(driver.Devices, gpu)
		}
		reporter, out, _ := newReporter(driver, textConfig())
		require.NoError(t, reporter.Run())

		output := out.String()
		assert.Contains(t, output, "Physical devices:\n")
		assert.Equal(t, n, strings.Count(output, "Id:      "), "%d devices", n)

		// records keep the order of the driver
		last := -1
		for i := 0; i < n; i++ {
			idx := strings.Index(output, "Name:    GPU "+string(rune('A'+i))+"\n")
			require.True(t, idx > last, "device %d out of order", i)
			last = idx
		}
	}
}

func TestRunRecordFieldOrder(t *testing.T) {
	reporter, out, _ := newReporter(&devicetest.Driver{Devices: []devicetest.Device{mockGPU}}, textConfig())
	require.NoError(t, reporter.Run())

	lines := strings.Split(out.String(), "\n")
	var labels []string
	for _, line := range lines {
		if i := strings.Index(line, ":"); i > 0 && !strings.HasSuffix(line, ":") {
			labels = append(labels, line[:i])
		}
	}
	assert.Equal(t, []string{"Id", "Name", "Type", "Vendor", "Driver", "API ver"}, labels)
}

func TestRunEmptyExtensionsPrintBlankLines(t *testing.T) {
	gpu := mockGPU
	gpu.Info.Extensions = nil
	reporter, out, _ := newReporter(&devicetest.Driver{Devices: []devicetest.Device{gpu}}, textConfig())
	require.NoError(t, reporter.Run())

	expected := "Instance extensions:\n" +
		"\n" +
		"\n" +
		"Physical devices:\n" +
		"Id:      4098\n" +
		"Name:    Mock GPU\n" +
		"Type:    Discrete GPU\n" +
		"Vendor:  4262\n" +
		"Driver:  100663296\n" +
		"API ver: 4194304\n" +
		"\n" +
		"\n"
	assert.Equal(t, expected, out.String())
}

func TestRunWithoutDeviceExtensions(t *testing.T) {
	gpu := mockGPU
	gpu.ExtensionsErr = errors.New("must not be called")
	cfg := textConfig()
	cfg.DeviceExtensions = false
	reporter, out, _ := newReporter(&devicetest.Driver{Devices: []devicetest.Device{gpu}}, cfg)

	require.NoError(t, reporter.Run())
	assert.True(t, strings.HasSuffix(out.String(), "API ver: 4194304\n\n"))
	assert.NotContains(t, out.String(), "VK_KHR_swapchain")
}

func TestRunContextCreationFailure(t *testing.T) {
	driver := &devicetest.Driver{
		CreateErr: devicetest.ErrDriverNotFound,
		Devices:   []devicetest.Device{mockGPU},
	}
	reporter, out, hook := newReporter(driver, textConfig())

	err := reporter.Run()
	require.Error(t, err)
	assert.True(t, device.IsContextCreation(err))
	assert.Empty(t, out.String())
	assert.Empty(t, driver.Contexts)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "driver context creation failed", hook.LastEntry().Message)

	report.PrintError(out, err)
	assert.Equal(t, "Error!\ndriver not found\n", out.String())
}

type plainDriver struct{}

func (plainDriver) CreateContext(device.ApplicationInfo) (device.Context, error) {
	return nil, errors.New("no instance")
}

func TestRunContextCreationFailureIsTyped(t *testing.T) {
	reporter, _, _ := newReporter(plainDriver{}, textConfig())

	err := reporter.Run()
	assert.True(t, device.IsContextCreation(err))
	assert.Equal(t, "no instance", err.Error())
}

func TestRunCollaboratorFailures(t *testing.T) {
	failure := errors.New("device lost")

	tests := []struct {
		name      string
		driver    *devicetest.Driver
		op        string
		partially string
	}{
		{
			name:   "instance extensions",
			driver: &devicetest.Driver{ExtensionsErr: failure},
			op:     "listing instance extensions",
		},
		{
			name:      "physical devices",
			driver:    &devicetest.Driver{DevicesErr: failure},
			op:        "listing physical devices",
			partially: "Instance extensions:\n",
		},
		{
			name: "properties",
			driver: &devicetest.Driver{Devices: []devicetest.Device{
				mockGPU,
				{PropertiesErr: failure},
			}},
			op:        "querying properties of device 1",
			partially: "Name:    Mock GPU\n",
		},
		{
			name: "device extensions",
			driver: &devicetest.Driver{Devices: []devicetest.Device{
				{Info: mockGPU.Info, ExtensionsErr: failure},
			}},
			op:        "listing extensions of device 0",
			partially: "Physical devices:\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reporter, out, _ := newReporter(tt.driver, textConfig())

			err := reporter.Run()
			require.Error(t, err)
			assert.False(t, device.IsContextCreation(err))
			assert.Equal(t, failure, errors.Cause(err))

			var collab *device.CollaboratorError
			require.True(t, errors.As(err, &collab))
			assert.Equal(t, tt.op, collab.Op)

			// output before the failure stays
			assert.Contains(t, out.String(), tt.partially)

			require.Len(t, tt.driver.Contexts, 1)
			assert.Equal(t, 1, tt.driver.Contexts[0].Releases)
		})
	}
}

func TestPrintError(t *testing.T) {
	out := &bytes.Buffer{}
	report.PrintError(out, &device.CollaboratorError{Op: "listing physical devices", Err: errors.New("device lost")})
	assert.Equal(t, "Error!\ndevice lost\n", out.String())
}

type nilContextDriver struct{}

func (nilContextDriver) CreateContext(device.ApplicationInfo) (device.Context, error) {
	return nil, nil
}

func TestRunNilContextIsCreationFailure(t *testing.T) {
	reporter, out, _ := newReporter(nilContextDriver{}, textConfig())

	err := reporter.Run()
	require.Error(t, err)
	assert.True(t, device.IsContextCreation(err))
	assert.Equal(t, device.ErrNoContext, errors.Cause(err))
	assert.Empty(t, out.String())

	report.PrintError(out, err)
	assert.Equal(t, "Error!\ndriver returned no context\n", out.String())
}

func TestRunJSON(t *testing.T) {
	gpu := mockGPU
	gpu.Info.Layers = []string{"VK_LAYER_KHRONOS_validation"}
	gpu.Info.Memory = 8 << 30
	driver := &devicetest.Driver{
		Extensions: []string{"VK_KHR_surface"},
		Devices:    []devicetest.Device{gpu},
	}
	cfg := textConfig()
	cfg.Format = core.FormatJSON
	reporter, out, _ := newReporter(driver, cfg)

	require.NoError(t, reporter.Run())

	var inventory report.Inventory
	require.NoError(t, json.Unmarshal(out.Bytes(), &inventory))
	assert.Equal(t, []string{"VK_KHR_surface"}, inventory.InstanceExtensions)
	require.Len(t, inventory.Devices, 1)

	record := inventory.Devices[0]
	assert.EqualValues(t, 4098, record.ID)
	assert.Equal(t, "Mock GPU", record.Name)
	assert.Equal(t, "Discrete GPU", record.Type)
	assert.EqualValues(t, 4262, record.VendorID)
	assert.EqualValues(t, 100663296, record.DriverVersion)
	assert.EqualValues(t, 4194304, record.APIVersion)
	assert.Equal(t, "1.0.0", record.API)
	assert.Equal(t, []string{"VK_KHR_swapchain"}, record.Extensions)
	assert.Equal(t, []string{"VK_LAYER_KHRONOS_validation"}, record.Layers)
	assert.EqualValues(t, 8<<30, record.Memory)

	assert.Equal(t, 1, driver.Contexts[0].Releases)
}

func TestRunJSONEmpty(t *testing.T) {
	cfg := textConfig()
	cfg.Format = core.FormatJSON
	reporter, out, _ := newReporter(&devicetest.Driver{}, cfg)

	require.NoError(t, reporter.Run())
	assert.JSONEq(t, `{"instanceExtensions": [], "devices": []}`, out.String())
}

func TestRunJSONFailureWritesNothing(t *testing.T) {
	cfg := textConfig()
	cfg.Format = core.FormatJSON
	driver := &devicetest.Driver{Devices: []devicetest.Device{mockGPU, {PropertiesErr: errors.New("device lost")}}}
	reporter, out, _ := newReporter(driver, cfg)

	require.Error(t, reporter.Run())
	assert.Empty(t, out.String())
	assert.Equal(t, 1, driver.Contexts[0].Releases)
}
