// Copyright 2026 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package hookenv

import (
	"fmt"
	"io"

	"github.com/juju/loggo/v2"
)

// LogWriter is a loggo.Writer that sends log entries to juju-log, so
// they end up in the unit's debug-log.
type LogWriter struct {
	tools *Tools

	// fallback receives entries juju-log could not take.
	fallback io.Writer
}

// NewLogWriter returns a LogWriter. Entries that cannot be delivered to
// juju-log are written to fallback.
func NewLogWriter(tools *Tools, fallback io.Writer) *LogWriter {
	return &LogWriter{tools: tools, fallback: fallback}
}

// Write is part of the loggo.Writer interface.
func (w *LogWriter) Write(entry loggo.Entry) {
	message := fmt.Sprintf("[%s] %s", entry.Module, entry.Message)
	if err := w.tools.JujuLog(entry.Level, message); err != nil && w.fallback != nil {
		fmt.Fprintf(w.fallback, "%s %s (juju-log: %v)\n", entry.Level, message, err)
	}
}
