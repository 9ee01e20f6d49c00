// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package report

import (
	"encoding/json"

	"github.com/devblok/vkreport/device"
)

// Inventory is the JSON form of a report
type Inventory struct {
	InstanceExtensions []string       `json:"instanceExtensions"`
	Devices            []DeviceRecord `json:"devices"`
}

// DeviceRecord is the JSON form of a single physical device
type DeviceRecord struct {
	ID            uint32   `json:"id"`
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	VendorID      uint32   `json:"vendorId"`
	DriverVersion uint32   `json:"driverVersion"`
	APIVersion    uint32   `json:"apiVersion"`
	API           string   `json:"api"`
	Extensions    []string `json:"extensions,omitempty"`
	Layers        []string `json:"layers,omitempty"`
	Memory        uint64   `json:"memory,omitempty"`
}

func newDeviceRecord(info device.PhysicalDeviceInfo) DeviceRecord {
	return DeviceRecord{
		ID:            info.ID,
		Name:          info.Name,
		Type:          info.Type.String(),
		VendorID:      info.VendorID,
		DriverVersion: info.DriverVersion,
		APIVersion:    info.APIVersion,
		API:           device.Version(info.APIVersion).String(),
		Extensions:    info.Extensions,
		Layers:        info.Layers,
		Memory:        info.Memory,
	}
}

// writeJSON collects the whole inventory first, nothing is written
// when a driver call fails
func (r *Reporter) writeJSON(ctx device.Context) error {
	extensions, err := ctx.Extensions()
	if err != nil {
		return &device.CollaboratorError{Op: "listing instance extensions", Err: err}
	}

	devices, err := ctx.PhysicalDevices()
	if err != nil {
		return &device.CollaboratorError{Op: "listing physical devices", Err: err}
	}

	inventory := Inventory{
		InstanceExtensions: extensions,
		Devices:            make([]DeviceRecord, 0, len(devices)),
	}
	if inventory.InstanceExtensions == nil {
		inventory.InstanceExtensions = []string{}
	}
	for i, dev := range devices {
		info, err := r.describe(i, dev)
		if err != nil {
			return err
		}
		inventory.Devices = append(inventory.Devices, newDeviceRecord(info))
	}

	bytes, err := json.MarshalIndent(inventory, "", "  ")
	if err != nil {
		return err
	}
	_, err = r.out.Write(append(bytes, '\n'))
	return err
}
