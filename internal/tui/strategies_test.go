package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pocket-panel/internal/domain"
	"pocket-panel/internal/errsink"
)

func grantedStrategies(t *testing.T) (StrategiesModel, Services) {
	t.Helper()
	svc, _ := testServices()
	ticket := svc.Session.SetToken("tok-1")
	svc.Session.ResolveVerify(ticket, &domain.UserProfile{ID: "u1"}, nil)
	svc.Resources.Bind(svc.Session.Ticket())
	svc.Resources.ApplyStrategies(svc.Resources.Ticket(), []domain.Strategy{
		{ID: "s1", Name: "RSI Strategy", RSIUpper: 60, RSILower: 40, TradeAmount: 10, ExpiryTime: 60},
	})
	return NewStrategiesModel(svc), svc
}

func typeInto(m StrategiesModel, text string) StrategiesModel {
	for _, r := range text {
		m, _ = m.Update(keyRune(r))
	}
	return m
}

func TestStrategyThresholdOrderRejected(t *testing.T) {
	m, svc := grantedStrategies(t)

	m, _ = m.Update(keyRune('n'))
	m = typeInto(m, "Bad")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "40") // upper
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "60") // lower above upper
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "10")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no network command for inverted thresholds")
	}
	if !errors.Is(svc.Errors.Get(errsink.ScopeStrategies), domain.ErrThresholdOrder) {
		t.Fatalf("expected ErrThresholdOrder, got %v", svc.Errors.Get(errsink.ScopeStrategies))
	}
}

func TestStrategyNonNumericRejected(t *testing.T) {
	m, svc := grantedStrategies(t)

	m, _ = m.Update(keyRune('n'))
	m = typeInto(m, "Bad")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "abc")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil {
		t.Fatal("expected no network command for a non-numeric threshold")
	}
	if svc.Errors.Get(errsink.ScopeStrategies) == nil {
		t.Fatal("expected a strategies-scope error")
	}
}

func TestStrategyCreate(t *testing.T) {
	m, svc := grantedStrategies(t)

	m, _ = m.Update(keyRune('n'))
	m = typeInto(m, "Scalp")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "70")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "30")
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = typeInto(m, "25")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a create command")
	}
	msg := cmd().(strategySavedMsg)
	if msg.err != nil {
		t.Fatalf("unexpected error: %v", msg.err)
	}
	svc.Resources.ApplyStrategySaved(msg.ticket, *msg.strategy)
	m, _ = m.Update(msg)

	if m.FormOpen() {
		t.Fatal("expected the form to close")
	}
	if len(svc.Resources.Strategies()) != 2 {
		t.Fatalf("expected 2 strategies, got %d", len(svc.Resources.Strategies()))
	}
}

func TestStrategyEditPrefillsAndReplacesInPlace(t *testing.T) {
	m, svc := grantedStrategies(t)

	m, _ = m.Update(keyRune('e'))
	if !m.FormOpen() {
		t.Fatal("expected the edit form to open")
	}
	if m.inputs[0].Value() != "RSI Strategy" {
		t.Fatalf("expected the name to be prefilled, got %q", m.inputs[0].Value())
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected an update command")
	}
	msg := cmd().(strategySavedMsg)
	if msg.strategy.ID != "s1" {
		t.Fatalf("expected the edit to keep id s1, got %q", msg.strategy.ID)
	}
	svc.Resources.ApplyStrategySaved(msg.ticket, *msg.strategy)

	if len(svc.Resources.Strategies()) != 1 {
		t.Fatal("expected the edit to replace in place, not append")
	}
}
