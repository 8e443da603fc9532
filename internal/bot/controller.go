// Package bot implements the state machine governing a single logical bot
// run: idle, starting, running, charging, stopping. The controller never
// performs network IO itself; Start and StartCharging hand the caller a
// Trigger to dispatch, and ResolveTrigger applies the outcome. Exactly one
// run exists per session.
package bot

import (
	"errors"
	"time"

	"pocket-panel/internal/domain"
	"pocket-panel/internal/session"

	"github.com/charmbracelet/log"
)

// Mode is the current run state. Starting, charging and stopping are
// transient; idle and running are the states the controller rests in.
type Mode int

const (
	ModeIdle Mode = iota
	ModeStarting
	ModeRunning
	ModeCharging
	ModeStopping
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeStarting:
		return "starting"
	case ModeRunning:
		return "running"
	case ModeCharging:
		return "charging"
	case ModeStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

var (
	// ErrNotIdle rejects a start while a run already exists. Requests are
	// rejected, never queued.
	ErrNotIdle = errors.New("bot is already running")
	// ErrNoSelection rejects a start before both an account and a strategy
	// are selected. This is a local validation failure; no network call is
	// made.
	ErrNoSelection = errors.New("select an account and a strategy first")
)

// Trigger describes the trade-simulation request the caller must issue.
// It carries the session ticket and run number it was issued under so a
// late resolution for a superseded run is recognised and dropped.
type Trigger struct {
	AccountID  string
	StrategyID string
	Asset      string
	Charging   bool

	ticket session.Ticket
	run    uint64
}

// Ticket returns the session identity the trigger was issued under.
func (t Trigger) Ticket() session.Ticket { return t.ticket }

// Resolution tells the caller what to do after ResolveTrigger.
type Resolution struct {
	// Applied is false when the result was stale and nothing changed.
	Applied bool
	// RefreshHistory requests a trade-history refetch. It is set on every
	// applied resolution, success or failure.
	RefreshHistory bool
	// ArmRevert requests the charging auto-revert timer, tagged with Run.
	ArmRevert bool
	// Run tags timer messages back to this run.
	Run uint64
}

// Controller coordinates start, stop and the charging run variant. It is
// driven entirely from the UI update loop and holds no locks.
type Controller struct {
	logger *log.Logger

	mode      Mode
	startedAt time.Time
	lastErr   error

	run      uint64
	ticket   session.Ticket
	inFlight bool

	chargingRevert time.Duration
}

// DefaultChargingRevert is how long a charging run stays in charging mode
// after a successful trigger before reverting on its own. It is part of the
// public contract and overridable through configuration.
const DefaultChargingRevert = 60 * time.Second

func NewController(chargingRevert time.Duration, logger *log.Logger) *Controller {
	if chargingRevert <= 0 {
		chargingRevert = DefaultChargingRevert
	}
	return &Controller{logger: logger, chargingRevert: chargingRevert}
}

func (c *Controller) Mode() Mode                    { return c.mode }
func (c *Controller) StartedAt() time.Time          { return c.startedAt }
func (c *Controller) LastError() error              { return c.lastErr }
func (c *Controller) ChargingRevert() time.Duration { return c.chargingRevert }

// Start begins a normal run. The selection must be complete and the
// controller idle, otherwise the call is rejected with no state change and
// no network call.
func (c *Controller) Start(t session.Ticket, sel domain.Selection) (Trigger, error) {
	return c.begin(t, sel, false)
}

// StartCharging begins a charging run: the same trigger with the
// charging_mode flag, staying in charging mode until stopped or until the
// auto-revert timer elapses after a successful trigger.
func (c *Controller) StartCharging(t session.Ticket, sel domain.Selection) (Trigger, error) {
	return c.begin(t, sel, true)
}

func (c *Controller) begin(t session.Ticket, sel domain.Selection, charging bool) (Trigger, error) {
	if c.mode != ModeIdle {
		return Trigger{}, ErrNotIdle
	}
	if !sel.Complete() {
		return Trigger{}, ErrNoSelection
	}

	c.run++
	c.ticket = t
	c.inFlight = true
	c.startedAt = time.Now()
	c.lastErr = nil
	if charging {
		c.mode = ModeCharging
	} else {
		c.mode = ModeStarting
	}

	return Trigger{
		AccountID:  sel.AccountID,
		StrategyID: sel.StrategyID,
		Asset:      sel.Symbol,
		Charging:   charging,
		ticket:     t,
		run:        c.run,
	}, nil
}

// ResolveTrigger applies the collaborator's response for a trigger. The
// controller always reaches a stable state: starting becomes running
// whether or not the request failed, charging stays charging (a failed
// charging trigger waits for an explicit stop), and a run the user already
// stopped lands in idle. Every applied resolution asks for a history
// refresh so the cached view matches whatever the server recorded.
func (c *Controller) ResolveTrigger(t Trigger, err error) Resolution {
	if t.run != c.run || t.ticket.Token() != c.ticket.Token() {
		c.logger.Debug("discarding stale trigger resolution", "run", t.run)
		return Resolution{}
	}

	c.inFlight = false
	if err != nil {
		c.lastErr = err
	}

	res := Resolution{Applied: true, RefreshHistory: true, Run: c.run}
	switch c.mode {
	case ModeStarting:
		c.mode = ModeRunning
	case ModeCharging:
		if err == nil {
			res.ArmRevert = true
		}
	case ModeStopping:
		c.mode = ModeIdle
	}
	return res
}

// Stop ends the run indication locally; it does not claim to halt
// server-side execution. If a trigger is still in flight the controller
// parks in stopping until the resolution arrives. Stop on an idle
// controller is a no-op.
func (c *Controller) Stop() bool {
	switch c.mode {
	case ModeIdle:
		return false
	case ModeStarting, ModeCharging:
		if c.inFlight {
			c.mode = ModeStopping
			return true
		}
		c.mode = ModeIdle
		return true
	case ModeStopping:
		return false
	default:
		c.mode = ModeIdle
		return true
	}
}

// ExpireCharging handles the auto-revert timer. Timers for superseded runs
// are ignored.
func (c *Controller) ExpireCharging(run uint64) bool {
	if run != c.run || c.mode != ModeCharging || c.inFlight {
		return false
	}
	c.mode = ModeIdle
	return true
}

// Reset returns the controller to idle, dropping any in-flight run. Called
// on logout and on token change; the run counter keeps advancing so stale
// resolutions from the previous session stay identifiable.
func (c *Controller) Reset() {
	c.run++
	c.ticket = session.Ticket{}
	c.inFlight = false
	c.mode = ModeIdle
	c.lastErr = nil
	c.startedAt = time.Time{}
}
