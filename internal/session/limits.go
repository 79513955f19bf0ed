package session

import "time"

// Default budget values, applied whenever a quantum arrives without
// explicit limits. Chained activations carry no parameters, so every
// quantum after the first runs on these.
const (
	DefaultDuration = 4 * time.Hour
	DefaultMaxRuns  = 120
	DefaultSleep    = 120 * time.Second
)

// Limits is the per-session budget configuration. It is immutable for the
// session's lifetime and honored only when the session is created; it is
// never persisted alongside the record.
type Limits struct {
	// Duration is the session wall-clock budget.
	Duration time.Duration
	// MaxRuns is the session run-count budget.
	MaxRuns int
	// Sleep is the delay before activating the next quantum.
	Sleep time.Duration
}

// DefaultLimits returns the canonical budget configuration.
func DefaultLimits() Limits {
	return Limits{
		Duration: DefaultDuration,
		MaxRuns:  DefaultMaxRuns,
		Sleep:    DefaultSleep,
	}
}

// Exhausted reports whether either budget has been reached. Both budgets
// use strict comparison: the run that lands exactly on a budget is the
// last valid one, never one past it.
func (l Limits) Exhausted(elapsed time.Duration, currentRun int) bool {
	return elapsed >= l.Duration || currentRun >= l.MaxRuns
}
