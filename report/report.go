// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package report prints the inventory of physical devices a graphics
// driver exposes.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkreport/core"
	"github.com/devblok/vkreport/device"
)

// NewReporter creates a Reporter writing to out
func NewReporter(driver device.Driver, out io.Writer, logger log.FieldLogger, cfg core.ReportConfiguration) *Reporter {
	return &Reporter{
		App:           device.DefaultApplicationInfo,
		configuration: cfg,
		driver:        driver,
		out:           out,
		logger:        logger,
	}
}

// Reporter queries a driver and prints what it finds
type Reporter struct {
	// App is the application description passed to the driver
	App device.ApplicationInfo

	configuration core.ReportConfiguration
	driver        device.Driver
	out           io.Writer
	logger        log.FieldLogger
}

// Run creates a driver context, reports on it and releases it.
// A failed context creation is returned as *device.ContextCreationError,
// later driver failures as *device.CollaboratorError. Output written
// before a failure is not withdrawn.
func (r *Reporter) Run() error {
	ctx, err := r.driver.CreateContext(r.App)
	if err == nil && ctx == nil {
		err = device.NewContextCreationError(device.ErrNoContext)
	}
	if err != nil {
		if !device.IsContextCreation(err) {
			err = device.NewContextCreationError(err)
		}
		r.logger.WithError(err).Debug("driver context creation failed")
		return err
	}
	defer ctx.Release()

	switch r.configuration.Format {
	case core.FormatJSON:
		return r.writeJSON(ctx)
	default:
		return r.writeText(ctx)
	}
}

func (r *Reporter) writeText(ctx device.Context) error {
	extensions, err := ctx.Extensions()
	if err != nil {
		return &device.CollaboratorError{Op: "listing instance extensions", Err: err}
	}
	r.logger.WithField("count", len(extensions)).Debug("instance extensions queried")

	fmt.Fprintln(r.out, "Instance extensions:")
	writeExtensions(r.out, extensions)
	fmt.Fprintln(r.out)

	devices, err := ctx.PhysicalDevices()
	if err != nil {
		return &device.CollaboratorError{Op: "listing physical devices", Err: err}
	}

	fmt.Fprintln(r.out, "Physical devices:")
	for i, dev := range devices {
		info, err := r.describe(i, dev)
		if err != nil {
			return err
		}
		writeRecord(r.out, info, r.configuration.DeviceExtensions)
	}
	return nil
}

// describe collects properties and, when configured, extensions of one device
func (r *Reporter) describe(index int, dev device.PhysicalDevice) (device.PhysicalDeviceInfo, error) {
	info, err := dev.Properties()
	if err != nil {
		return info, &device.CollaboratorError{Op: fmt.Sprintf("querying properties of device %d", index), Err: err}
	}

	info.Extensions = nil
	if r.configuration.DeviceExtensions {
		extensions, err := dev.Extensions()
		if err != nil {
			return info, &device.CollaboratorError{Op: fmt.Sprintf("listing extensions of device %d", index), Err: err}
		}
		info.Extensions = extensions
	}

	r.logger.WithFields(log.Fields{
		"device": info.Name,
		"count":  len(info.Extensions),
	}).Debug("physical device queried")
	return info, nil
}

func writeRecord(w io.Writer, info device.PhysicalDeviceInfo, extensions bool) {
	fmt.Fprintf(w, "Id:      %d\n", info.ID)
	fmt.Fprintf(w, "Name:    %s\n", info.Name)
	fmt.Fprintf(w, "Type:    %s\n", info.Type)
	fmt.Fprintf(w, "Vendor:  %d\n", info.VendorID)
	fmt.Fprintf(w, "Driver:  %d\n", info.DriverVersion)
	fmt.Fprintf(w, "API ver: %d\n", info.APIVersion)
	if extensions {
		writeExtensions(w, info.Extensions)
	}
	fmt.Fprintln(w)
}

// writeExtensions prints names on one line, an empty list is a blank line
func writeExtensions(w io.Writer, names []string) {
	fmt.Fprintln(w, strings.Join(names, " "))
}

// PrintError writes the error banner. Driver failures print the
// message of the driver, the failing step only goes to the log.
func PrintError(w io.Writer, err error) {
	var collab *device.CollaboratorError
	if errors.As(err, &collab) {
		err = collab.Err
	}
	fmt.Fprintln(w, "Error!")
	fmt.Fprintln(w, err.Error())
}
