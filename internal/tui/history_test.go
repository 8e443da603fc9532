package tui

import (
	"testing"
	"time"

	"pocket-panel/internal/domain"
)

func TestHistoryRefresh(t *testing.T) {
	svc, backend := testServices()
	ticket := svc.Session.SetToken("tok-1")
	svc.Session.ResolveVerify(ticket, &domain.UserProfile{ID: "u1"}, nil)
	svc.Resources.Bind(svc.Session.Ticket())

	backend.history = []domain.TradeRecord{
		{ID: "t2", Asset: "EUR/USD", SignalType: domain.SignalCall, Amount: 10, ExpiryTime: 60, Result: domain.ResultWin, CreatedAt: time.Now()},
		{ID: "t1", Asset: "EUR/USD", SignalType: domain.SignalPut, Amount: 10, ExpiryTime: 60, CreatedAt: time.Now().Add(-time.Minute)},
	}

	m := NewHistoryModel(svc)
	m, cmd := m.Update(keyRune('R'))
	if cmd == nil {
		t.Fatal("expected a refresh command")
	}
	if !m.Busy() {
		t.Fatal("expected the screen to go busy")
	}

	msg := cmd().(historyMsg)
	if svc.Resources.ApplyHistory(msg.ticket, msg.trades); len(svc.Resources.History()) != 2 {
		t.Fatal("expected the snapshot to replace the cache")
	}
	m, _ = m.Update(msg)
	if m.Busy() {
		t.Fatal("expected busy to clear")
	}

	// Server order is preserved as-is.
	if svc.Resources.History()[0].ID != "t2" {
		t.Fatal("expected the snapshot order to be kept")
	}
	if m.View() == "" {
		t.Fatal("expected a rendered view")
	}
}
