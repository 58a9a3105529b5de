package cmdlog

import (
	"time"

	"snsdedupe/internal/logging"
	"snsdedupe/internal/metrics"
)

// Run wraps a subcommand body with run/error counters and a closing log line.
func Run(cmd string, f func() error) error {
	metrics.IncCommandRun(cmd)
	start := time.Now()
	err := f()
	fields := map[string]any{"elapsed_ms": time.Since(start).Milliseconds()}
	if err != nil {
		metrics.IncCommandError(cmd)
		fields["error"] = err.Error()
		logging.Error(cmd+"_error", fields)
	} else {
		logging.Info(cmd+"_ok", fields)
	}
	return err
}
