// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"io"
	"os"
	"runtime"

	log "github.com/sirupsen/logrus"

	"github.com/devblok/vkreport/core"
	"github.com/devblok/vkreport/device"
	"github.com/devblok/vkreport/report"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run(os.Stdout, os.Stderr, newVulkanDriver))
}

func newVulkanDriver(logger log.FieldLogger) device.Driver {
	return device.NewVulkanDriver(logger)
}

// run returns the process exit status, 1 for any failure
func run(stdout, stderr io.Writer, newDriver func(log.FieldLogger) device.Driver) int {
	cfg, err := core.LoadConfiguration()
	if err != nil {
		report.PrintError(stdout, err)
		return 1
	}

	logger := core.NewLogger(stderr, cfg.Log)
	driver := newDriver(logger)

	if err := report.NewReporter(driver, stdout, logger, cfg.Report).Run(); err != nil {
		logger.WithError(err).Debug("report failed")
		report.PrintError(stdout, err)
		return 1
	}
	return 0
}
