package controller

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DataDeltas/autoCMSCheck/internal/guard"
	"github.com/DataDeltas/autoCMSCheck/internal/session"
	"github.com/DataDeltas/autoCMSCheck/internal/store"
)

// memStore is an in-memory stand-in for the durable record.
type memStore struct {
	state   *session.State
	loadErr error
	saveErr error
	saves   int
	removes int
}

func (m *memStore) Load(context.Context) (session.State, error) {
	if m.loadErr != nil {
		return session.State{}, m.loadErr
	}
	if m.state == nil {
		return session.State{}, store.ErrNotFound
	}
	return *m.state, nil
}

func (m *memStore) Save(_ context.Context, st session.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = &st
	return nil
}

func (m *memStore) Remove(context.Context) error {
	m.removes++
	m.state = nil
	return nil
}

type stubGuard struct {
	err error
}

func (s *stubGuard) Check(context.Context) error { return s.err }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestAdvance_InitCreatesFirstRun(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	start := time.Unix(1756400000, 0)
	st := &memStore{}
	c := New(st, &stubGuard{}, fixedClock(start))

	// --- Act ---
	out, err := c.Advance(context.Background(), session.DefaultLimits())

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, DecisionContinue, out.Decision)
	require.Equal(t, session.PhaseActive, out.Phase)
	require.Equal(t, session.State{StartTime: start.Unix(), CurrentRun: 1}, out.State)
	require.Equal(t, 1, st.saves)
}

func TestAdvance_RunSequenceHasNoGaps(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Default budgets, one quantum every 294 seconds: run 49 sees
	// elapsed 14112s < 4h and continues, run 50 sees 14406s >= 4h and
	// stops even though max_runs (120) is far away.
	start := time.Unix(1756400000, 0)
	limits := session.DefaultLimits()
	st := &memStore{}

	var runs []int
	var last Outcome
	for quantum := 0; ; quantum++ {
		now := start.Add(time.Duration(quantum) * 294 * time.Second)
		c := New(st, &stubGuard{}, fixedClock(now))

		out, err := c.Advance(context.Background(), limits)
		require.NoError(t, err)
		runs = append(runs, out.State.CurrentRun)
		last = out

		if out.Decision != DecisionContinue {
			break
		}
		require.Less(t, quantum, 200, "session never stopped")
	}

	// --- Assert ---
	require.Equal(t, DecisionStop, last.Decision)
	require.Equal(t, session.PhaseStopping, last.Phase)
	require.Equal(t, 50, last.State.CurrentRun)
	for i, run := range runs {
		require.Equal(t, i+1, run, "run counter must be exactly 1..k")
	}
}

func TestAdvance_RunCountBudgetStopsFirst(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// max_runs=3 with plenty of time budget: runs 1 and 2 continue,
	// run 3 stops before the duration budget matters.
	start := time.Unix(1756400000, 0)
	limits := session.Limits{Duration: 4 * time.Hour, MaxRuns: 3, Sleep: time.Second}
	st := &memStore{}
	ctx := context.Background()

	// --- Act / Assert ---
	for want := 1; want <= 2; want++ {
		c := New(st, &stubGuard{}, fixedClock(start.Add(time.Duration(want-1)*time.Minute)))
		out, err := c.Advance(ctx, limits)
		require.NoError(t, err)
		require.Equal(t, DecisionContinue, out.Decision)
		require.Equal(t, want, out.State.CurrentRun)
	}

	c := New(st, &stubGuard{}, fixedClock(start.Add(2*time.Minute)))
	out, err := c.Advance(ctx, limits)
	require.NoError(t, err)
	require.Equal(t, DecisionStop, out.Decision)
	require.Equal(t, 3, out.State.CurrentRun)
}

func TestAdvance_CorruptRecordIsFatal(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st := &memStore{loadErr: fmt.Errorf("decode: %w", session.ErrCorruptState)}
	c := New(st, &stubGuard{}, fixedClock(time.Unix(1756400000, 0)))

	// --- Act ---
	_, err := c.Advance(context.Background(), session.DefaultLimits())

	// --- Assert ---
	require.ErrorIs(t, err, session.ErrCorruptState)
	require.Equal(t, 0, st.saves, "a corrupt record must never be overwritten")
}

func TestAdvance_PersistenceFailureIsFatal(t *testing.T) {
	t.Parallel()

	st := &memStore{saveErr: fmt.Errorf("%w: upstream down", store.ErrPersistence)}
	c := New(st, &stubGuard{}, fixedClock(time.Unix(1756400000, 0)))

	_, err := c.Advance(context.Background(), session.DefaultLimits())

	require.ErrorIs(t, err, store.ErrPersistence)
}

func TestAdvance_ConcurrentExecutionAborts(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st := &memStore{}
	g := &stubGuard{err: fmt.Errorf("%w: 2 runs in progress", guard.ErrConcurrentExecution)}
	c := New(st, g, fixedClock(time.Unix(1756400000, 0)))

	// --- Act ---
	out, err := c.Advance(context.Background(), session.DefaultLimits())

	// --- Assert ---
	require.ErrorIs(t, err, guard.ErrConcurrentExecution)
	require.Equal(t, DecisionAbort, out.Decision)
	// The state write happens before the guard check; the record must be
	// left as written, never removed.
	require.Equal(t, 1, st.saves)
	require.Equal(t, 0, st.removes)
	require.NotNil(t, st.state)
}

func TestAdvance_GuardQueryFailureIsFatal(t *testing.T) {
	t.Parallel()

	st := &memStore{}
	g := &stubGuard{err: errors.New("status query failed")}
	c := New(st, g, fixedClock(time.Unix(1756400000, 0)))

	out, err := c.Advance(context.Background(), session.DefaultLimits())

	require.Error(t, err)
	require.Equal(t, DecisionAbort, out.Decision)
}
