// Package controller implements the per-quantum session state machine. A
// quantum observes the durable record, advances it, persists it, and emits
// a single decision: continue the chain, stop it, or abort this quantum.
// The decision trichotomy is explicit so it can be tested independent of
// timing and of the platform.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DataDeltas/autoCMSCheck/internal/ctxlog"
	"github.com/DataDeltas/autoCMSCheck/internal/session"
	"github.com/DataDeltas/autoCMSCheck/internal/store"
)

// Decision is the controller's verdict for the current quantum.
type Decision int

const (
	// DecisionContinue schedules another quantum.
	DecisionContinue Decision = iota
	// DecisionStop ends the session and removes the record.
	DecisionStop
	// DecisionAbort kills this quantum, leaving the record untouched for
	// operator inspection.
	DecisionAbort
)

// String returns the decision name for logs.
func (d Decision) String() string {
	switch d {
	case DecisionContinue:
		return "CONTINUE"
	case DecisionStop:
		return "STOP"
	case DecisionAbort:
		return "ABORT"
	default:
		return "UNKNOWN"
	}
}

// Checker is the concurrency guard's contract.
type Checker interface {
	Check(ctx context.Context) error
}

// Outcome describes what the quantum did and what should happen next.
type Outcome struct {
	Decision Decision
	// State is the record as persisted by this quantum.
	State session.State
	// Phase is the lifecycle phase after the decision, before any
	// dispatch or cleanup.
	Phase session.Phase
	// Elapsed is the session age at decision time.
	Elapsed time.Duration
	// Limits is the effective budget configuration for this quantum.
	Limits session.Limits
}

// Controller drives one quantum of the session.
type Controller struct {
	store store.Store
	guard Checker
	now   func() time.Time
}

// New builds a Controller. now defaults to time.Now when nil.
func New(st store.Store, guard Checker, now func() time.Time) *Controller {
	if now == nil {
		now = time.Now
	}
	return &Controller{store: st, guard: guard, now: now}
}

// Advance runs the state machine for the current quantum under the given
// budget limits. Limit asymmetry across quanta is a platform property, not
// a controller concern: chained activations invoke the entry point without
// parameters, so every quantum after the first arrives here with the
// defaults.
//
// On error the returned Outcome still reflects how far the quantum got,
// so the caller can log it.
func (c *Controller) Advance(ctx context.Context, limits session.Limits) (Outcome, error) {
	logger := ctxlog.FromContext(ctx)
	now := c.now()

	var next session.State

	prev, err := c.store.Load(ctx)
	switch {
	case errors.Is(err, store.ErrNotFound):
		// INIT -> ACTIVE: first quantum of a fresh session.
		next = session.New(now)
		logger.Info("No session record found, starting a fresh session.",
			"start_time", next.StartTime,
			"duration", limits.Duration,
			"max_runs", limits.MaxRuns,
		)
	case err != nil:
		return Outcome{}, fmt.Errorf("load session record: %w", err)
	default:
		// ACTIVE(n) -> ACTIVE(n+1).
		next = prev.Next()
		logger.Info("Resuming session.", "current_run", next.CurrentRun)
	}

	if err := c.store.Save(ctx, next); err != nil {
		return Outcome{State: next, Limits: limits}, err
	}

	elapsed := next.Elapsed(now)
	out := Outcome{
		State:   next,
		Elapsed: elapsed,
		Limits:  limits,
	}
	if limits.Exhausted(elapsed, next.CurrentRun) {
		out.Decision = DecisionStop
		out.Phase = session.PhaseStopping
	} else {
		out.Decision = DecisionContinue
		out.Phase = session.PhaseActive
	}

	// The guard runs after the state write regardless of the decision, so
	// an in-flight duplicate is caught before it can chain further.
	if err := c.guard.Check(ctx); err != nil {
		out.Decision = DecisionAbort
		return out, err
	}

	logger.Info("Quantum decision.",
		"decision", out.Decision.String(),
		"phase", out.Phase.String(),
		"current_run", next.CurrentRun,
		"elapsed_minutes", int(elapsed.Minutes()),
	)
	return out, nil
}
