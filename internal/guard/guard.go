// Package guard detects overlapping controller executions. It is a
// best-effort check, not a lock: it polls the platform for in-progress
// runs of the controller's own workflow once per quantum, after the state
// write. An activation arriving between this check and the next quantum's
// start can still slip through; that residual window is an accepted
// limitation of the platform.
package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
)

// ErrConcurrentExecution reports more than one in-progress execution.
// Fatal for the current quantum only: the caller must abort without
// mutating or removing the session record, so an operator can inspect the
// racing chains.
var ErrConcurrentExecution = errors.New("concurrent execution detected")

// RunCounter is the status query the guard needs from the platform.
type RunCounter interface {
	CountInProgressRuns(ctx context.Context, workflowFile string) (int, error)
}

// Guard checks for overlapping executions of one workflow.
type Guard struct {
	runs     RunCounter
	workflow string
}

// New builds a Guard for the given workflow file.
func New(runs RunCounter, workflow string) *Guard {
	return &Guard{runs: runs, workflow: workflow}
}

// Check queries the platform and returns ErrConcurrentExecution when more
// than one run, counting the caller's own, is in progress.
func (g *Guard) Check(ctx context.Context) error {
	count, err := g.runs.CountInProgressRuns(ctx, g.workflow)
	if err != nil {
		return fmt.Errorf("query active executions: %w", err)
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Active execution count.", "workflow", g.workflow, "count", count)

	if count > 1 {
		return fmt.Errorf("%w: %d runs of %s in progress", ErrConcurrentExecution, count, g.workflow)
	}
	return nil
}
