package app

import (
	"fmt"
	"os"

	"github.com/DataDeltas/autoCMSCheck/internal/controller"
)

// writeOutputs appends the quantum's informational outputs in the
// platform's key=value format. An empty path means the platform did not
// ask for outputs, which is a no-op, not an error.
func writeOutputs(path string, out controller.Outcome) error {
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open outputs file: %w", err)
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "current_run=%d\nelapsed_minutes=%d\n",
		out.State.CurrentRun, int(out.Elapsed.Minutes()))
	if err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}
	return nil
}
