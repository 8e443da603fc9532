// Package session owns the bearer token and the resolved user identity,
// including verification, expiry handling and the access decision derived
// from them.
package session

import (
	"pocket-panel/internal/domain"

	"github.com/charmbracelet/log"
)

// Status is the verification state of the current session.
type Status int

const (
	StatusUnverified Status = iota
	StatusVerifying
	StatusVerified
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusUnverified:
		return "unverified"
	case StatusVerifying:
		return "verifying"
	case StatusVerified:
		return "verified"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Ticket tags an in-flight request with the token it was issued under.
// A result whose ticket no longer matches the current token is stale and
// must be discarded by whichever component owns the state it targets.
type Ticket struct {
	token string
}

// TicketFor builds a ticket for a token held by another component, such as
// the resource cache's bound token.
func TicketFor(token string) Ticket { return Ticket{token: token} }

// Token returns the token the ticket was issued for.
func (t Ticket) Token() string { return t.token }

// Valid reports whether the ticket was issued under an actual token.
func (t Ticket) Valid() bool { return t.token != "" }

// Store holds the current token and user identity. All mutation happens on
// the UI update loop, so the store needs no locking. The user field is
// non-nil exactly while the status is Verified.
type Store struct {
	storage TokenStorage
	logger  *log.Logger

	token  string
	user   *domain.UserProfile
	status Status
}

// NewStore reads any persisted token from storage. A persisted token leaves
// the store Unverified until the caller begins verification.
func NewStore(storage TokenStorage, logger *log.Logger) *Store {
	s := &Store{storage: storage, logger: logger}
	token, err := storage.Load()
	if err != nil {
		logger.Warn("could not load persisted token", "err", err)
		return s
	}
	s.token = token
	return s
}

func (s *Store) Token() string             { return s.token }
func (s *Store) Status() Status            { return s.status }
func (s *Store) User() *domain.UserProfile { return s.user }
func (s *Store) HasToken() bool            { return s.token != "" }

// Invalidate terminates the session in response to an authorization failure
// reported by any request issued under the given ticket. Stale tickets are
// ignored. It returns true when the session was terminated.
func (s *Store) Invalidate(t Ticket) bool {
	if !t.Valid() || t.token != s.token {
		return false
	}
	s.logger.Warn("session rejected by backend, logging out")
	s.token = ""
	s.user = nil
	s.status = StatusInvalid
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("could not clear persisted token", "err", err)
	}
	return true
}

// Ticket issues a ticket for the current token.
func (s *Store) Ticket() Ticket { return Ticket{token: s.token} }

// SetToken installs a freshly issued token (login success), persists it and
// moves the session to Verifying. The returned ticket tags the verification
// the caller must now perform.
func (s *Store) SetToken(token string) Ticket {
	s.token = token
	s.user = nil
	s.status = StatusVerifying
	if err := s.storage.Save(token); err != nil {
		s.logger.Warn("could not persist token", "err", err)
	}
	return Ticket{token: token}
}

// BeginVerify starts verification of an already-held token (the startup
// path). It returns false when there is no token to verify.
func (s *Store) BeginVerify() (Ticket, bool) {
	if s.token == "" {
		return Ticket{}, false
	}
	s.status = StatusVerifying
	return Ticket{token: s.token}, true
}

// ResolveVerify applies a verification outcome. Results for a superseded
// token are discarded so a stale verification can never overwrite state
// established for a newer token. Any verification failure terminates the
// session: token cleared, persisted storage dropped, status Invalid.
// It returns false when the result was discarded as stale.
func (s *Store) ResolveVerify(t Ticket, user *domain.UserProfile, verifyErr error) bool {
	if !t.Valid() || t.token != s.token {
		s.logger.Debug("discarding stale verification result", "status", s.status.String())
		return false
	}
	if verifyErr != nil {
		s.logger.Warn("session verification failed", "err", verifyErr)
		s.token = ""
		s.user = nil
		s.status = StatusInvalid
		if err := s.storage.Clear(); err != nil {
			s.logger.Warn("could not clear persisted token", "err", err)
		}
		return true
	}
	s.user = user
	s.status = StatusVerified
	return true
}

// Logout clears the token, the user and the persisted storage. It is
// idempotent and performs no network call.
func (s *Store) Logout() {
	s.token = ""
	s.user = nil
	s.status = StatusUnverified
	if err := s.storage.Clear(); err != nil {
		s.logger.Warn("could not clear persisted token", "err", err)
	}
}
