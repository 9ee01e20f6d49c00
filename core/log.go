// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"io"

	log "github.com/sirupsen/logrus"
)

// NewLogger creates the diagnostic logger. Diagnostics never go to
// the report output, callers pass stderr or a test buffer.
func NewLogger(out io.Writer, cfg LogConfiguration) *log.Logger {
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(cfg.Level)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}
