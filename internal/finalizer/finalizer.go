// Package finalizer ends a session: it removes the durable record and
// verifies it is gone, so the next manual start begins a fresh session
// instead of mis-resuming a finished one.
package finalizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
	"github.com/DataDeltas/autoCMSCheck/internal/session"
	"github.com/DataDeltas/autoCMSCheck/internal/store"
)

// ErrCleanupFailure reports that the record could not be removed. The
// session's work is still complete; this condition exists to force
// operator attention before the next manual start, not to undo anything.
var ErrCleanupFailure = errors.New("could not remove session record")

// Finalizer removes the session record at STOP.
type Finalizer struct {
	store store.Store
}

// New builds a Finalizer over the session store.
func New(st store.Store) *Finalizer {
	return &Finalizer{store: st}
}

// Finalize removes the durable record and confirms its absence, which is
// the declared success condition. Only ever called on a STOP decision.
func (f *Finalizer) Finalize(ctx context.Context, st session.State) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Session complete, removing record.",
		"total_runs", st.CurrentRun, "start_time", st.StartTime)

	if err := f.store.Remove(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrCleanupFailure, err)
	}

	// Removal reported success; trust only the observed absence.
	if _, err := f.store.Load(ctx); !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: record still present after removal", ErrCleanupFailure)
	}

	logger.Info("Session terminated.", "phase", session.PhaseTerminated.String())
	return nil
}
