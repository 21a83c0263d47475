package domain

// SessionState is the lifecycle state of one preview session.
//
// Closed → Opening (fetches in flight) → Ready (both fetches terminal)
// → Closed. Opening a new request resets the machine; closing releases
// every transient resource the session acquired.
type SessionState int

const (
	// SessionClosed means no preview is active.
	SessionClosed SessionState = iota

	// SessionOpening means fetches are in flight.
	SessionOpening

	// SessionReady means both fetches have settled (ready or failed
	// each count as terminal).
	SessionReady
)

// String returns the state name.
func (s SessionState) String() string {
	switch s {
	case SessionClosed:
		return "closed"
	case SessionOpening:
		return "opening"
	case SessionReady:
		return "ready"
	default:
		return "unknown"
	}
}
