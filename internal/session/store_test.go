package session

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"pocket-panel/internal/domain"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func newTestStore(persisted string) *Store {
	return NewStore(NewMemoryTokenStorage(persisted), testLogger())
}

func TestNewStoreReadsPersistedToken(t *testing.T) {
	s := newTestStore("tok1")
	if s.Token() != "tok1" {
		t.Fatalf("expected persisted token, got %q", s.Token())
	}
	if s.Status() != StatusUnverified {
		t.Fatalf("expected unverified, got %s", s.Status())
	}
}

func TestLoginThenVerifySuccess(t *testing.T) {
	storage := NewMemoryTokenStorage("")
	s := NewStore(storage, testLogger())

	ticket := s.SetToken("tok1")
	if s.Status() != StatusVerifying {
		t.Fatalf("expected verifying after SetToken, got %s", s.Status())
	}
	if tok, _ := storage.Load(); tok != "tok1" {
		t.Fatal("token should be persisted on login")
	}

	user := &domain.UserProfile{ID: "1", Username: "alice"}
	if !s.ResolveVerify(ticket, user, nil) {
		t.Fatal("resolution should apply")
	}
	if s.Status() != StatusVerified {
		t.Fatalf("expected verified, got %s", s.Status())
	}
	if s.User() == nil || s.User().Username != "alice" {
		t.Fatalf("expected user alice, got %+v", s.User())
	}
}

func TestVerifyFailureClearsSession(t *testing.T) {
	storage := NewMemoryTokenStorage("tok1")
	s := NewStore(storage, testLogger())

	ticket, ok := s.BeginVerify()
	if !ok {
		t.Fatal("expected verification to begin for persisted token")
	}
	if !s.ResolveVerify(ticket, nil, errors.New("401")) {
		t.Fatal("resolution should apply")
	}

	if s.Status() != StatusInvalid {
		t.Fatalf("expected invalid, got %s", s.Status())
	}
	if s.HasToken() {
		t.Fatal("token should be cleared on verification failure")
	}
	if s.User() != nil {
		t.Fatal("user should be cleared on verification failure")
	}
	if tok, _ := storage.Load(); tok != "" {
		t.Fatal("persisted token should be dropped")
	}
}

func TestStaleVerificationDiscarded(t *testing.T) {
	s := newTestStore("")

	t1 := s.SetToken("tok1")
	t2 := s.SetToken("tok2")

	// tok2 verifies first.
	if !s.ResolveVerify(t2, &domain.UserProfile{ID: "2", Username: "bob"}, nil) {
		t.Fatal("tok2 result should apply")
	}

	// tok1's late failure must not touch tok2's verified state.
	if s.ResolveVerify(t1, nil, errors.New("expired")) {
		t.Fatal("tok1 result should be discarded as stale")
	}
	if s.Status() != StatusVerified {
		t.Fatalf("expected verified, got %s", s.Status())
	}
	if s.Token() != "tok2" {
		t.Fatalf("expected tok2, got %q", s.Token())
	}
}

func TestVerifyAfterLogoutDiscarded(t *testing.T) {
	s := newTestStore("")
	ticket := s.SetToken("tok1")
	s.Logout()

	if s.ResolveVerify(ticket, &domain.UserProfile{ID: "1"}, nil) {
		t.Fatal("result for a logged-out token should be discarded")
	}
	if s.HasToken() || s.User() != nil {
		t.Fatal("logout state must remain cleared")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	s := newTestStore("tok1")
	s.Logout()
	s.Logout()
	if s.HasToken() || s.Status() != StatusUnverified {
		t.Fatal("repeated logout should leave a clean unauthenticated state")
	}
}

func TestBeginVerifyWithoutToken(t *testing.T) {
	s := newTestStore("")
	if _, ok := s.BeginVerify(); ok {
		t.Fatal("verification should not begin without a token")
	}
}

func TestFileTokenStorageRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel", "token")
	storage := NewFileTokenStorage(path)

	if tok, err := storage.Load(); err != nil || tok != "" {
		t.Fatalf("missing file should load empty, got %q err %v", tok, err)
	}

	if err := storage.Save("tok1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if tok, err := storage.Load(); err != nil || tok != "tok1" {
		t.Fatalf("load after save = %q, %v", tok, err)
	}

	if err := storage.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := storage.Clear(); err != nil {
		t.Fatalf("clear should be idempotent: %v", err)
	}
	if tok, _ := storage.Load(); tok != "" {
		t.Fatal("token should be gone after clear")
	}
}
