// Package errsink keeps one "last error" slot per UI scope. Each failure
// overwrites the previous one in its scope; the slot is cleared explicitly
// by the user or by the next successful operation in the same scope.
package errsink

// Scope identifies the part of the panel an error belongs to.
type Scope string

const (
	ScopeLogin      Scope = "login"
	ScopeRegister   Scope = "register"
	ScopeDashboard  Scope = "dashboard"
	ScopeAccounts   Scope = "accounts"
	ScopeStrategies Scope = "strategies"
	ScopeHistory    Scope = "history"
)

// Sink holds the last error per scope. It is not a list: errors in the
// same scope replace each other.
type Sink struct {
	last map[Scope]error
}

func New() *Sink {
	return &Sink{last: make(map[Scope]error)}
}

// Set records err as the latest error for scope. A nil err clears the scope.
func (s *Sink) Set(scope Scope, err error) {
	if err == nil {
		delete(s.last, scope)
		return
	}
	s.last[scope] = err
}

// Clear removes the error for scope, if any.
func (s *Sink) Clear(scope Scope) {
	delete(s.last, scope)
}

// ClearAll drops every recorded error. Used on logout.
func (s *Sink) ClearAll() {
	s.last = make(map[Scope]error)
}

// Get returns the last error for scope, or nil.
func (s *Sink) Get(scope Scope) error {
	return s.last[scope]
}

// Has reports whether scope currently holds an error.
func (s *Sink) Has(scope Scope) bool {
	return s.last[scope] != nil
}
