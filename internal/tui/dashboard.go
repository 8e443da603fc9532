package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/bot"
	"pocket-panel/internal/domain"
	"pocket-panel/internal/errsink"
)

const recentTrades = 5

// DashboardModel is the main screen: the current selection, the bot run
// state and the most recent trades. Selection changes mutate the shared
// cache directly; they never touch the network.
type DashboardModel struct {
	services    Services
	lastMessage string
	width       int
	height      int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(svc Services) DashboardModel {
	return DashboardModel{services: svc}
}

// Init does nothing; data loading is driven by the access gate.
func (m DashboardModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case triggerDoneMsg:
		if msg.err == nil && msg.result != nil {
			m.lastMessage = msg.result.Message
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	keys := DefaultKeyMap
	res := m.services.Resources

	switch {
	case key.Matches(msg, keys.StartBot):
		return m.start(false)

	case key.Matches(msg, keys.StartCharging):
		return m.start(true)

	case key.Matches(msg, keys.StopBot):
		if m.services.Bot.Stop() {
			m.lastMessage = ""
		}
		return m, nil

	case key.Matches(msg, keys.CycleAccount):
		if next := nextID(accountIDs(res.Accounts()), res.Selection().AccountID); next != "" {
			res.SelectAccount(next)
		}
		return m, nil

	case key.Matches(msg, keys.CycleStrategy):
		if next := nextID(strategyIDs(res.Strategies()), res.Selection().StrategyID); next != "" {
			res.SelectStrategy(next)
		}
		return m, nil

	case key.Matches(msg, keys.CycleSymbol):
		res.SetSymbol(nextID(symbolOptions, res.Selection().Symbol))
		return m, nil

	case key.Matches(msg, keys.ToggleMode):
		if res.Selection().Mode == domain.ModeDemo {
			res.SetMode(domain.ModeReal)
		} else {
			res.SetMode(domain.ModeDemo)
		}
		return m, nil

	case key.Matches(msg, keys.ToggleSource):
		if res.Selection().Source == domain.SourceBuiltIn {
			res.SetSource(domain.SourceTradingView)
		} else {
			res.SetSource(domain.SourceBuiltIn)
		}
		return m, nil
	}
	return m, nil
}

func (m DashboardModel) start(charging bool) (DashboardModel, tea.Cmd) {
	ticket := m.services.Session.Ticket()
	sel := m.services.Resources.Selection()

	var trig bot.Trigger
	var err error
	if charging {
		trig, err = m.services.Bot.StartCharging(ticket, sel)
	} else {
		trig, err = m.services.Bot.Start(ticket, sel)
	}
	if err != nil {
		m.services.Errors.Set(errsink.ScopeDashboard, err)
		return m, nil
	}
	m.services.Errors.Clear(errsink.ScopeDashboard)
	m.lastMessage = ""
	return m, triggerCmd(m.services, trig)
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	var sections []string

	sections = append(sections, m.renderStatus())
	sections = append(sections, BorderStyle.Render(m.renderSelection()))
	sections = append(sections, BorderStyle.Render(m.renderTrades()))

	if err := m.services.Errors.Get(errsink.ScopeDashboard); err != nil {
		sections = append(sections, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	}
	if m.lastMessage != "" {
		sections = append(sections, NoticeStyle.Render("  "+m.lastMessage))
	}

	sections = append(sections, SubtextStyle.Render(
		"  b: start • c: charge • x: stop • a/s/y: select • m: demo/real • g: source • ctrl+l: log out"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m DashboardModel) renderStatus() string {
	var who string
	if u := m.services.Session.User(); u != nil {
		who = u.Username
	}
	return fmt.Sprintf("  %s  %s",
		HeaderStyle.Render(who),
		renderMode(m.services.Bot.Mode()),
	)
}

func (m DashboardModel) renderSelection() string {
	res := m.services.Resources
	sel := res.Selection()

	account := "none"
	if a := res.AccountByID(sel.AccountID); a != nil {
		account = a.AccountName
		if a.IsDemo {
			account += " (demo)"
		}
	}
	strategy := "none"
	if s := res.StrategyByID(sel.StrategyID); s != nil {
		strategy = fmt.Sprintf("%s  RSI %.0f/%.0f  $%.2f  %ds",
			s.Name, s.RSILower, s.RSIUpper, s.TradeAmount, s.ExpiryTime)
	}

	lines := []string{
		HeaderStyle.Render("  Bot Setup"),
		fmt.Sprintf("  %s %s", LabelStyle.Render("Account: "), account),
		fmt.Sprintf("  %s %s", LabelStyle.Render("Strategy:"), strategy),
		fmt.Sprintf("  %s %s", LabelStyle.Render("Symbol:  "), sel.Symbol),
		fmt.Sprintf("  %s %s", LabelStyle.Render("Mode:    "), string(sel.Mode)),
		fmt.Sprintf("  %s %s", LabelStyle.Render("Signals: "), string(sel.Source)),
	}

	if sel.Source == domain.SourceTradingView {
		if u := m.services.Session.User(); u != nil {
			lines = append(lines, SubtextStyle.Render("  Webhook: "+m.services.Backend.WebhookURL(u.ID)))
		}
	}

	return strings.Join(lines, "\n")
}

func (m DashboardModel) renderTrades() string {
	lines := []string{HeaderStyle.Render("  Recent Trades")}

	history := m.services.Resources.History()
	count := len(history)
	if count > recentTrades {
		count = recentTrades
	}
	for i := 0; i < count; i++ {
		lines = append(lines, "  "+FormatTrade(history[i]))
	}
	if len(history) == 0 {
		lines = append(lines, SubtextStyle.Render("  No trades yet"))
	}

	return strings.Join(lines, "\n")
}

// SetSize updates the model dimensions.
func (m *DashboardModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// LastMessage returns the latest execution message (for testing).
func (m DashboardModel) LastMessage() string { return m.lastMessage }

func renderMode(mode bot.Mode) string {
	label := strings.ToUpper(mode.String())
	switch mode {
	case bot.ModeRunning:
		return ModeRunningStyle.Render(label)
	case bot.ModeCharging:
		return ModeChargingStyle.Render(label)
	case bot.ModeStarting, bot.ModeStopping:
		return ModeBusyStyle.Render(label)
	default:
		return ModeIdleStyle.Render(label)
	}
}

func accountIDs(accounts []domain.Account) []string {
	ids := make([]string, len(accounts))
	for i, a := range accounts {
		ids[i] = a.ID
	}
	return ids
}

func strategyIDs(strategies []domain.Strategy) []string {
	ids := make([]string, len(strategies))
	for i, s := range strategies {
		ids[i] = s.ID
	}
	return ids
}

// nextID returns the element after current, wrapping around. An unknown or
// empty current yields the first element.
func nextID(ids []string, current string) string {
	if len(ids) == 0 {
		return ""
	}
	for i, id := range ids {
		if id == current {
			return ids[(i+1)%len(ids)]
		}
	}
	return ids[0]
}
