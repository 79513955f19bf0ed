package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecode_RoundTrip(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	st := State{StartTime: 1756400000, CurrentRun: 42}

	// --- Act ---
	decoded, err := Decode(st.Encode())

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, st, decoded)
}

func TestDecode_WithoutTrailingNewline(t *testing.T) {
	t.Parallel()

	decoded, err := Decode([]byte("1756400000\n7"))

	require.NoError(t, err)
	require.Equal(t, State{StartTime: 1756400000, CurrentRun: 7}, decoded)
}

func TestDecode_CorruptRecords(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":              "",
		"single line":        "1756400000\n",
		"three lines":        "1\n2\n3\n",
		"non-numeric run":    "1756400000\nabc\n",
		"non-numeric start":  "yesterday\n3\n",
		"negative start":     "-100\n3\n",
		"signed run":         "1756400000\n+3\n",
		"float run":          "1756400000\n3.5\n",
		"zero run":           "1756400000\n0\n",
		"blank second line":  "1756400000\n\n",
		"whitespace padding": " 1756400000\n3\n",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode([]byte(raw))

			// A malformed record must surface as corrupt, never as a
			// silently defaulted state.
			require.ErrorIs(t, err, ErrCorruptState, "input %q", raw)
		})
	}
}

func TestState_NextKeepsStartTime(t *testing.T) {
	t.Parallel()

	st := New(time.Unix(1756400000, 0))
	require.Equal(t, 1, st.CurrentRun)

	next := st.Next()

	require.Equal(t, st.StartTime, next.StartTime)
	require.Equal(t, 2, next.CurrentRun)
}

func TestLimits_Exhausted(t *testing.T) {
	t.Parallel()

	limits := Limits{Duration: 4 * time.Hour, MaxRuns: 120}

	// Strictly under both budgets keeps the session alive.
	require.False(t, limits.Exhausted(4*time.Hour-time.Second, 119))

	// Reaching either budget exactly stops it.
	require.True(t, limits.Exhausted(4*time.Hour, 119))
	require.True(t, limits.Exhausted(time.Minute, 120))
}
