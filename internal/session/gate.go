package session

// Decision is the tri-state access decision derived from the session.
type Decision int

const (
	// DecisionPending means verification has not concluded; protected views
	// render only a loading indicator.
	DecisionPending Decision = iota
	// DecisionDenied means there is no usable session; protected views give
	// way to the login entry point.
	DecisionDenied
	// DecisionGranted means the session is verified and protected views may
	// render.
	DecisionGranted
)

func (d Decision) String() string {
	switch d {
	case DecisionPending:
		return "pending"
	case DecisionDenied:
		return "denied"
	case DecisionGranted:
		return "granted"
	default:
		return "unknown"
	}
}

// Decide derives the access decision from the store. It holds no state of
// its own. Without a token there is nothing to verify, so the absence of a
// token is denial even while the status is still Unverified.
func Decide(s *Store) Decision {
	if s.Status() == StatusVerified {
		return DecisionGranted
	}
	if !s.HasToken() || s.Status() == StatusInvalid {
		return DecisionDenied
	}
	return DecisionPending
}
