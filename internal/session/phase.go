package session

// Phase is a stage in the session lifecycle. A quantum observes the
// session in one phase and may move it forward; phases never move
// backwards within a session.
type Phase int

const (
	// PhaseInit means no durable record exists yet.
	PhaseInit Phase = iota
	// PhaseActive means a record exists and neither budget is exhausted.
	PhaseActive
	// PhaseStopping means a budget is exhausted and cleanup is pending.
	PhaseStopping
	// PhaseTerminated means the record has been removed.
	PhaseTerminated
)

// String returns the phase name for logs.
func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "INIT"
	case PhaseActive:
		return "ACTIVE"
	case PhaseStopping:
		return "STOPPING"
	case PhaseTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}
