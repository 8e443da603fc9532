package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"pocket-panel/internal/bot"
	"pocket-panel/internal/domain"
	"pocket-panel/internal/errsink"
)

func grantedDashboard(t *testing.T) (DashboardModel, Services, *stubBackend) {
	t.Helper()
	svc, backend := testServices()
	ticket := svc.Session.SetToken("tok-1")
	svc.Session.ResolveVerify(ticket, &domain.UserProfile{ID: "u1", Username: "trader"}, nil)
	svc.Resources.Bind(svc.Session.Ticket())
	rt := svc.Resources.Ticket()
	svc.Resources.ApplyAccounts(rt, []domain.Account{
		{ID: "a1", AccountName: "Demo", IsDemo: true},
		{ID: "a2", AccountName: "Real"},
	})
	svc.Resources.ApplyStrategies(rt, []domain.Strategy{
		{ID: "s1", Name: "RSI Strategy", RSIUpper: 60, RSILower: 40, TradeAmount: 10, ExpiryTime: 60},
	})
	return NewDashboardModel(svc), svc, backend
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestStartWithoutSelectionIsLocalError(t *testing.T) {
	svc, backend := testServices()
	m := NewDashboardModel(svc)

	m, cmd := m.Update(keyRune('b'))
	if cmd != nil {
		t.Fatal("expected no network command without a selection")
	}
	if backend.simulateCalls != 0 {
		t.Fatal("expected no simulate call")
	}
	if svc.Errors.Get(errsink.ScopeDashboard) == nil {
		t.Fatal("expected a dashboard-scope error")
	}
	_ = m
}

func TestStartIssuesTrigger(t *testing.T) {
	m, svc, _ := grantedDashboard(t)

	m, cmd := m.Update(keyRune('b'))
	if cmd == nil {
		t.Fatal("expected a trigger command")
	}
	if svc.Bot.Mode() != bot.ModeStarting {
		t.Fatalf("expected starting, got %v", svc.Bot.Mode())
	}

	done := cmd().(triggerDoneMsg)
	if done.trigger.AccountID != "a1" || done.trigger.StrategyID != "s1" {
		t.Fatalf("trigger carries the default selection, got %+v", done.trigger)
	}
	if done.trigger.Charging {
		t.Fatal("expected a plain run, not charging")
	}

	m, _ = m.Update(done)
	if m.LastMessage() == "" {
		t.Fatal("expected the execution message to be recorded")
	}
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	m, svc, backend := grantedDashboard(t)

	m, _ = m.Update(keyRune('b'))
	before := backend.simulateCalls

	m, cmd := m.Update(keyRune('b'))
	if cmd != nil {
		t.Fatal("expected the second start to be rejected locally")
	}
	if backend.simulateCalls != before {
		t.Fatal("expected no additional simulate call")
	}
	if svc.Errors.Get(errsink.ScopeDashboard) == nil {
		t.Fatal("expected a dashboard-scope error")
	}
	_ = m
}

func TestSelectionCycling(t *testing.T) {
	m, svc, _ := grantedDashboard(t)

	if svc.Resources.Selection().AccountID != "a1" {
		t.Fatalf("expected default account a1, got %q", svc.Resources.Selection().AccountID)
	}
	m, _ = m.Update(keyRune('a'))
	if svc.Resources.Selection().AccountID != "a2" {
		t.Fatalf("expected a2 after cycling, got %q", svc.Resources.Selection().AccountID)
	}
	m, _ = m.Update(keyRune('a'))
	if svc.Resources.Selection().AccountID != "a1" {
		t.Fatal("expected cycling to wrap around")
	}

	m, _ = m.Update(keyRune('m'))
	if svc.Resources.Selection().Mode != domain.ModeReal {
		t.Fatal("expected real mode after toggle")
	}
	m, _ = m.Update(keyRune('g'))
	if svc.Resources.Selection().Source != domain.SourceTradingView {
		t.Fatal("expected tradingview source after toggle")
	}

	before := svc.Resources.Selection().Symbol
	m, _ = m.Update(keyRune('y'))
	if svc.Resources.Selection().Symbol == before {
		t.Fatal("expected the symbol to change")
	}
	_ = m
}

func TestStopDuringFlight(t *testing.T) {
	m, svc, _ := grantedDashboard(t)

	m, cmd := m.Update(keyRune('b'))
	done := cmd().(triggerDoneMsg)

	m, _ = m.Update(keyRune('x'))
	if svc.Bot.Mode() != bot.ModeStopping {
		t.Fatalf("expected stopping while the trigger is in flight, got %v", svc.Bot.Mode())
	}

	res := svc.Bot.ResolveTrigger(done.trigger, done.err)
	if !res.Applied || svc.Bot.Mode() != bot.ModeIdle {
		t.Fatalf("expected idle once the resolution lands, got %v", svc.Bot.Mode())
	}
	_ = m
}

func TestDashboardViewShowsWebhookForTradingView(t *testing.T) {
	m, svc, _ := grantedDashboard(t)
	m.SetSize(100, 40)

	svc.Resources.SetSource(domain.SourceTradingView)
	view := m.View()
	if view == "" {
		t.Fatal("expected a rendered view")
	}
	if !strings.Contains(view, "webhook/tradingview/u1") {
		t.Fatal("expected the webhook URL to be shown for tradingview source")
	}
}
