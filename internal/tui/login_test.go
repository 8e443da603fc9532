package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pocket-panel/internal/errsink"
)

func typeLogin(m LoginModel, text string) LoginModel {
	for _, r := range text {
		m, _ = m.Update(keyRune(r))
	}
	return m
}

func TestLoginEmptyFieldsRejected(t *testing.T) {
	svc, backend := testServices()
	m := NewLoginModel(svc)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for empty credentials")
	}
	if backend.loginCalls != 0 {
		t.Fatal("expected no login call")
	}
	if svc.Errors.Get(errsink.ScopeLogin) == nil {
		t.Fatal("expected a login-scope error")
	}
	_ = m
}

func TestLoginSubmitIssuesCommand(t *testing.T) {
	svc, backend := testServices()
	m := NewLoginModel(svc)

	m = typeLogin(m, "trader")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeLogin(m, "secret")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a login command")
	}
	if !m.Busy() {
		t.Fatal("expected the screen to go busy")
	}

	// Keys are ignored while busy.
	m2, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if backend.loginCalls != 0 {
		t.Fatal("the command has not run yet")
	}

	var result loginResultMsg
	var found bool
	for _, msg := range runCmds(cmd) {
		if r, ok := msg.(loginResultMsg); ok {
			result, found = r, true
		}
	}
	if !found || result.token != "tok-1" {
		t.Fatalf("expected a token result, got %#v", result)
	}
	if backend.loginCalls != 1 {
		t.Fatalf("expected 1 login call, got %d", backend.loginCalls)
	}

	m2, _ = m2.Update(result)
	if m2.Busy() {
		t.Fatal("expected busy to clear once the result lands")
	}
}

func typeRegister(m RegisterModel, text string) RegisterModel {
	for _, r := range text {
		m, _ = m.Update(keyRune(r))
	}
	return m
}

func TestRegisterPasswordMismatchRejected(t *testing.T) {
	svc, backend := testServices()
	m := NewRegisterModel(svc)

	m = typeRegister(m, "trader")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "t@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "longenough")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "different")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for mismatched passwords")
	}
	if backend.registerCalls != 0 {
		t.Fatal("expected no register call")
	}
	if svc.Errors.Get(errsink.ScopeRegister) == nil {
		t.Fatal("expected a register-scope error")
	}
}

func TestRegisterShortPasswordRejected(t *testing.T) {
	svc, _ := testServices()
	m := NewRegisterModel(svc)

	m = typeRegister(m, "trader")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "t@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "short")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "short")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no command for a short password")
	}
	if svc.Errors.Get(errsink.ScopeRegister) == nil {
		t.Fatal("expected a register-scope error")
	}
}

func TestRegisterSubmitLogsIn(t *testing.T) {
	svc, backend := testServices()
	m := NewRegisterModel(svc)

	m = typeRegister(m, "trader")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "t@example.com")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "longenough")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeRegister(m, "longenough")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a register command")
	}

	var result loginResultMsg
	var found bool
	for _, msg := range runCmds(cmd) {
		if r, ok := msg.(loginResultMsg); ok {
			result, found = r, true
		}
	}
	if backend.registerCalls != 1 || backend.loginCalls != 1 {
		t.Fatalf("expected register then login, got %d/%d", backend.registerCalls, backend.loginCalls)
	}
	if !found || result.token != "tok-1" {
		t.Fatalf("expected a token result, got %#v", result)
	}
	_ = m
}
