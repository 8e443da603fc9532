package bot

import (
	"errors"
	"io"
	"testing"
	"time"

	"pocket-panel/internal/domain"
	"pocket-panel/internal/session"

	"github.com/charmbracelet/log"
)

func newTestController() *Controller {
	return NewController(DefaultChargingRevert, log.New(io.Discard))
}

func completeSelection() domain.Selection {
	return domain.Selection{AccountID: "a1", StrategyID: "s1", Symbol: "EUR/USD", Mode: domain.ModeDemo}
}

func ticket() session.Ticket { return session.TicketFor("tok1") }

func TestStartRequiresSelection(t *testing.T) {
	c := newTestController()

	_, err := c.Start(ticket(), domain.Selection{StrategyID: "s1", Symbol: "EUR/USD"})
	if !errors.Is(err, ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("rejected start must not change state, got %s", c.Mode())
	}
}

func TestStartWhileNotIdleRejected(t *testing.T) {
	c := newTestController()
	if _, err := c.Start(ticket(), completeSelection()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := c.Start(ticket(), completeSelection()); !errors.Is(err, ErrNotIdle) {
		t.Fatalf("expected ErrNotIdle, got %v", err)
	}
}

func TestStartResolveSuccess(t *testing.T) {
	c := newTestController()
	tr, err := c.Start(ticket(), completeSelection())
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if c.Mode() != ModeStarting {
		t.Fatalf("expected starting, got %s", c.Mode())
	}
	if tr.AccountID != "a1" || tr.StrategyID != "s1" || tr.Asset != "EUR/USD" || tr.Charging {
		t.Fatalf("unexpected trigger %+v", tr)
	}

	res := c.ResolveTrigger(tr, nil)
	if !res.Applied || !res.RefreshHistory {
		t.Fatalf("resolution should apply and refresh history: %+v", res)
	}
	if c.Mode() != ModeRunning {
		t.Fatalf("expected running, got %s", c.Mode())
	}
	if c.LastError() != nil {
		t.Fatalf("unexpected error: %v", c.LastError())
	}
}

func TestStartResolveFailureStillRuns(t *testing.T) {
	c := newTestController()
	tr, _ := c.Start(ticket(), completeSelection())

	res := c.ResolveTrigger(tr, errors.New("503"))
	if !res.RefreshHistory {
		t.Fatal("history must be refreshed even on failure")
	}
	if c.Mode() != ModeRunning {
		t.Fatalf("controller must reach a stable state, got %s", c.Mode())
	}
	if c.LastError() == nil {
		t.Fatal("failure should be recorded")
	}
}

func TestStopIsLocalAndImmediate(t *testing.T) {
	c := newTestController()
	tr, _ := c.Start(ticket(), completeSelection())
	c.ResolveTrigger(tr, nil)

	if !c.Stop() {
		t.Fatal("stop from running should succeed")
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %s", c.Mode())
	}
	if c.Stop() {
		t.Fatal("stop on idle should be a no-op")
	}
}

func TestStopDuringInFlightTrigger(t *testing.T) {
	c := newTestController()
	tr, _ := c.Start(ticket(), completeSelection())

	if !c.Stop() {
		t.Fatal("stop while starting should be accepted")
	}
	if c.Mode() != ModeStopping {
		t.Fatalf("expected stopping while trigger is in flight, got %s", c.Mode())
	}

	res := c.ResolveTrigger(tr, nil)
	if !res.Applied || !res.RefreshHistory {
		t.Fatalf("late resolution should still apply and refresh: %+v", res)
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle after resolution, got %s", c.Mode())
	}
}

func TestChargingSuccessArmsRevert(t *testing.T) {
	c := newTestController()
	tr, err := c.StartCharging(ticket(), completeSelection())
	if err != nil {
		t.Fatalf("start charging: %v", err)
	}
	if c.Mode() != ModeCharging || !tr.Charging {
		t.Fatalf("expected charging trigger, got mode %s trigger %+v", c.Mode(), tr)
	}

	res := c.ResolveTrigger(tr, nil)
	if !res.ArmRevert || !res.RefreshHistory {
		t.Fatalf("success should arm the revert timer and refresh: %+v", res)
	}
	if c.Mode() != ModeCharging {
		t.Fatalf("mode must remain charging until revert or stop, got %s", c.Mode())
	}

	if !c.ExpireCharging(res.Run) {
		t.Fatal("revert timer for the current run should apply")
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle after revert, got %s", c.Mode())
	}
}

func TestChargingFailureWaitsForStop(t *testing.T) {
	c := newTestController()
	tr, _ := c.StartCharging(ticket(), completeSelection())

	res := c.ResolveTrigger(tr, errors.New("503"))
	if res.ArmRevert {
		t.Fatal("a failed charging trigger must not arm the revert timer")
	}
	if c.Mode() != ModeCharging {
		t.Fatalf("charging must not leave on failure, got %s", c.Mode())
	}

	if !c.Stop() {
		t.Fatal("explicit stop should be accepted")
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %s", c.Mode())
	}
}

func TestStaleRevertTimerIgnored(t *testing.T) {
	c := newTestController()
	tr, _ := c.StartCharging(ticket(), completeSelection())
	res := c.ResolveTrigger(tr, nil)
	c.Stop()

	// A second run begins; the first run's timer must not touch it.
	tr2, _ := c.StartCharging(ticket(), completeSelection())
	c.ResolveTrigger(tr2, nil)

	if c.ExpireCharging(res.Run) {
		t.Fatal("stale revert timer should be ignored")
	}
	if c.Mode() != ModeCharging {
		t.Fatalf("new run must be unaffected, got %s", c.Mode())
	}
}

func TestResolutionAfterResetDiscarded(t *testing.T) {
	c := newTestController()
	tr, _ := c.Start(ticket(), completeSelection())
	c.Reset()

	res := c.ResolveTrigger(tr, nil)
	if res.Applied {
		t.Fatal("resolution for a reset run should be discarded")
	}
	if c.Mode() != ModeIdle {
		t.Fatalf("expected idle, got %s", c.Mode())
	}
}

func TestConfigurableRevertDuration(t *testing.T) {
	c := NewController(5*time.Second, log.New(io.Discard))
	if c.ChargingRevert() != 5*time.Second {
		t.Fatalf("expected configured duration, got %s", c.ChargingRevert())
	}
	if NewController(0, log.New(io.Discard)).ChargingRevert() != DefaultChargingRevert {
		t.Fatal("zero duration should fall back to the default")
	}
}
