// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"strconv"
	"strings"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Environment keys read by LoadConfiguration
const (
	FormatKey           = "VKREPORT_FORMAT"
	LogLevelKey         = "VKREPORT_LOG_LEVEL"
	DeviceExtensionsKey = "VKREPORT_DEVICE_EXTENSIONS"
	EnvFileKey          = "VKREPORT_ENV_FILE"
)

// Format selects how the report is rendered
type Format string

// Supported report formats
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Configuration defines the global vkreport configuration
type Configuration struct {
	Report ReportConfiguration
	Log    LogConfiguration
}

// ReportConfiguration is used to configure the reporter
type ReportConfiguration struct {
	Format Format

	// DeviceExtensions lists the extensions of every physical device
	// below its record
	DeviceExtensions bool
}

// LogConfiguration is used to configure the diagnostic logger
type LogConfiguration struct {
	Level log.Level
}

// DefaultConfiguration is used for every value not present in the environment
var DefaultConfiguration = Configuration{
	Report: ReportConfiguration{
		Format:           FormatText,
		DeviceExtensions: true,
	},
	Log: LogConfiguration{
		Level: log.WarnLevel,
	},
}

// LoadConfiguration reads the configuration from the environment.
// If VKREPORT_ENV_FILE names a dotenv file its values are used
// for keys the environment does not set.
func LoadConfiguration() (Configuration, error) {
	cfg := DefaultConfiguration

	fileValues := map[string]string{}
	if file := envy.Get(EnvFileKey, ""); file != "" {
		values, err := godotenv.Read(file)
		if err != nil {
			return cfg, errors.Wrapf(err, "reading env file %s", file)
		}
		fileValues = values
	}

	// empty values count as unset
	lookup := func(key string) (string, bool) {
		if v, err := envy.MustGet(key); err == nil && v != "" {
			return v, true
		}
		v, ok := fileValues[key]
		return v, ok && v != ""
	}

	if v, ok := lookup(FormatKey); ok {
		format, err := ParseFormat(v)
		if err != nil {
			return cfg, err
		}
		cfg.Report.Format = format
	}

	if v, ok := lookup(DeviceExtensionsKey); ok {
		enabled, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid %s", DeviceExtensionsKey)
		}
		cfg.Report.DeviceExtensions = enabled
	}

	if v, ok := lookup(LogLevelKey); ok {
		level, err := log.ParseLevel(strings.TrimSpace(v))
		if err != nil {
			return cfg, errors.Wrapf(err, "invalid %s", LogLevelKey)
		}
		cfg.Log.Level = level
	}

	return cfg, nil
}

// ParseFormat parses a report format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", errors.Errorf("unknown report format %q", s)
	}
}
