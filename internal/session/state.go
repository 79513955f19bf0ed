package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrCorruptState reports a durable record that exists but does not hold
// two well-formed non-negative integers. This is a fatal configuration
// error: the controller never repairs or defaults a corrupt record.
var ErrCorruptState = errors.New("session record is corrupt")

// State is the persisted session record. It is overwritten whole once per
// quantum; StartTime is fixed at session creation and never mutated after.
type State struct {
	// StartTime is the session creation time in seconds since the epoch.
	StartTime int64
	// CurrentRun is the 1-based quantum counter, incremented by exactly
	// one per quantum.
	CurrentRun int
}

// New creates the record for the first quantum of a fresh session.
func New(now time.Time) State {
	return State{
		StartTime:  now.Unix(),
		CurrentRun: 1,
	}
}

// Next returns the record advanced by one quantum. StartTime carries over
// untouched.
func (s State) Next() State {
	return State{StartTime: s.StartTime, CurrentRun: s.CurrentRun + 1}
}

// Elapsed returns how long the session has been running as of now.
func (s State) Elapsed(now time.Time) time.Duration {
	return now.Sub(time.Unix(s.StartTime, 0))
}

// Encode renders the record in its durable form: two lines of decimal
// digits, start time then run counter, with a trailing newline.
func (s State) Encode() []byte {
	return fmt.Appendf(nil, "%d\n%d\n", s.StartTime, s.CurrentRun)
}

// Decode parses a durable record. Anything other than two lines of
// decimal digits, with the run counter at least 1, yields ErrCorruptState
// wrapped with the offending detail.
func Decode(data []byte) (State, error) {
	text := strings.TrimSuffix(string(data), "\n")
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		return State{}, fmt.Errorf("%w: expected 2 lines, got %d", ErrCorruptState, len(lines))
	}

	start, err := parseField("start_time", lines[0])
	if err != nil {
		return State{}, err
	}
	run, err := parseField("current_run", lines[1])
	if err != nil {
		return State{}, err
	}
	if run < 1 {
		return State{}, fmt.Errorf("%w: current_run must be positive, got %d", ErrCorruptState, run)
	}

	return State{StartTime: start, CurrentRun: int(run)}, nil
}

// parseField accepts only plain decimal digits. strconv alone would also
// admit signs and leading "+", which the record format forbids.
func parseField(name, raw string) (int64, error) {
	if raw == "" {
		return 0, fmt.Errorf("%w: %s is empty", ErrCorruptState, name)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: %s %q is not a non-negative integer", ErrCorruptState, name, raw)
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q overflows: %v", ErrCorruptState, name, raw, err)
	}
	return v, nil
}
