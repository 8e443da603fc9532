package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/api"
	"pocket-panel/internal/errsink"
	"pocket-panel/internal/session"
)

// Tab represents a protected screen tab.
type Tab int

const (
	TabDashboard Tab = iota
	TabAccounts
	TabStrategies
	TabHistory
)

var tabNames = []string{"1:Dashboard", "2:Accounts", "3:Strategies", "4:History"}

// authView selects which entry screen is shown while access is denied.
type authView int

const (
	authLogin authView = iota
	authRegister
)

// AppModel is the root Bubble Tea model. It derives the access decision on
// every render, routes messages, and is the only place the shared session,
// resource and bot state is mutated in response to network results.
type AppModel struct {
	services Services
	keys     KeyMap

	auth     authView
	login    LoginModel
	register RegisterModel
	spin     spinner.Model

	activeTab  Tab
	dashboard  DashboardModel
	accounts   AccountsModel
	strategies StrategiesModel
	history    HistoryModel

	width    int
	height   int
	quitting bool
}

// NewAppModel creates the root application model with all child screens.
func NewAppModel(svc Services) AppModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return AppModel{
		services:   svc,
		keys:       DefaultKeyMap,
		login:      NewLoginModel(svc),
		register:   NewRegisterModel(svc),
		spin:       sp,
		dashboard:  NewDashboardModel(svc),
		accounts:   NewAccountsModel(svc),
		strategies: NewStrategiesModel(svc),
		history:    NewHistoryModel(svc),
	}
}

// Init begins verification of any persisted token. Without one the app sits
// on the login screen.
func (m AppModel) Init() tea.Cmd {
	if t, ok := m.services.Session.BeginVerify(); ok {
		return tea.Batch(verifyCmd(m.services, t), m.spin.Tick)
	}
	return nil
}

// Update handles incoming messages.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.propagateSize()
		return m, nil

	case spinner.TickMsg:
		switch session.Decide(m.services.Session) {
		case session.DecisionPending:
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		case session.DecisionDenied:
			return m.forwardAuth(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		switch session.Decide(m.services.Session) {
		case session.DecisionDenied:
			return m.updateAuthKey(msg)
		case session.DecisionGranted:
			return m.updateGrantedKey(msg)
		default:
			return m, nil
		}

	case loginResultMsg:
		return m.applyLoginResult(msg)

	case verifiedMsg:
		return m.applyVerified(msg)

	case accountsMsg:
		if m.resultApplies(msg.ticket, msg.err, errsink.ScopeAccounts) {
			m.services.Resources.ApplyAccounts(msg.ticket, msg.accounts)
		}
		var cmd tea.Cmd
		m.accounts, cmd = m.accounts.Update(msg)
		return m, cmd

	case strategiesMsg:
		if m.resultApplies(msg.ticket, msg.err, errsink.ScopeStrategies) {
			m.services.Resources.ApplyStrategies(msg.ticket, msg.strategies)
		}
		var cmd tea.Cmd
		m.strategies, cmd = m.strategies.Update(msg)
		return m, cmd

	case historyMsg:
		if m.resultApplies(msg.ticket, msg.err, errsink.ScopeHistory) {
			m.services.Resources.ApplyHistory(msg.ticket, msg.trades)
		}
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd

	case accountCreatedMsg:
		if m.resultApplies(msg.ticket, msg.err, errsink.ScopeAccounts) && msg.account != nil {
			m.services.Resources.ApplyAccountCreated(msg.ticket, *msg.account)
		}
		var cmd tea.Cmd
		m.accounts, cmd = m.accounts.Update(msg)
		return m, cmd

	case accountDeletedMsg:
		if m.resultApplies(msg.ticket, msg.err, errsink.ScopeAccounts) {
			m.services.Resources.ApplyAccountDeleted(msg.ticket, msg.id)
		}
		var cmd tea.Cmd
		m.accounts, cmd = m.accounts.Update(msg)
		return m, cmd

	case accountTestedMsg:
		m.resultApplies(msg.ticket, msg.err, errsink.ScopeAccounts)
		var cmd tea.Cmd
		m.accounts, cmd = m.accounts.Update(msg)
		return m, cmd

	case strategySavedMsg:
		if m.resultApplies(msg.ticket, msg.err, errsink.ScopeStrategies) && msg.strategy != nil {
			m.services.Resources.ApplyStrategySaved(msg.ticket, *msg.strategy)
		}
		var cmd tea.Cmd
		m.strategies, cmd = m.strategies.Update(msg)
		return m, cmd

	case triggerDoneMsg:
		return m.applyTriggerDone(msg)

	case chargingRevertMsg:
		m.services.Bot.ExpireCharging(msg.run)
		return m, nil
	}

	// Everything else goes to the active screen.
	return m.forward(msg)
}

// applyLoginResult installs a freshly issued token and kicks off
// verification. Errors land in the sink scope of whichever entry screen is
// showing.
func (m AppModel) applyLoginResult(msg loginResultMsg) (tea.Model, tea.Cmd) {
	scope := errsink.ScopeLogin
	if m.auth == authRegister {
		scope = errsink.ScopeRegister
	}

	if msg.err != nil {
		m.services.Errors.Set(scope, msg.err)
		return m.forwardAuth(msg)
	}

	m.services.Errors.Clear(scope)
	t := m.services.Session.SetToken(msg.token)
	var cmd tea.Cmd
	var model tea.Model
	model, cmd = m.forwardAuth(msg)
	m = model.(AppModel)
	return m, tea.Batch(cmd, verifyCmd(m.services, t), m.spin.Tick)
}

func (m AppModel) applyVerified(msg verifiedMsg) (tea.Model, tea.Cmd) {
	if !m.services.Session.ResolveVerify(msg.ticket, msg.user, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		// Session terminated; explain on the login screen.
		m.services.Errors.Set(errsink.ScopeLogin, errors.New("session expired, please sign in again"))
		m.auth = authLogin
		return m, nil
	}
	return m, m.syncGate()
}

func (m AppModel) applyTriggerDone(msg triggerDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && api.IsUnauthorized(msg.err) && m.services.Session.Invalidate(msg.trigger.Ticket()) {
		m.teardown()
		return m, nil
	}

	res := m.services.Bot.ResolveTrigger(msg.trigger, msg.err)
	if !res.Applied {
		return m, nil
	}
	m.services.Errors.Set(errsink.ScopeDashboard, msg.err)

	var cmds []tea.Cmd
	if res.RefreshHistory && session.Decide(m.services.Session) == session.DecisionGranted {
		cmds = append(cmds, fetchHistoryCmd(m.services, m.services.Resources.Ticket()))
	}
	if res.ArmRevert {
		cmds = append(cmds, chargingRevertCmd(res.Run, m.services.Bot.ChargingRevert()))
	}

	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// resultApplies vets a ticketed network result. A 401 terminates the session
// when the ticket is still current; other failures land in the sink. It
// returns true when the payload should be applied to the cache.
func (m *AppModel) resultApplies(t session.Ticket, err error, scope errsink.Scope) bool {
	if err == nil {
		if session.Decide(m.services.Session) == session.DecisionGranted {
			m.services.Errors.Clear(scope)
		}
		return true
	}
	if api.IsUnauthorized(err) {
		if m.services.Session.Invalidate(t) {
			m.teardown()
		}
		return false
	}
	// Only surface failures for the session we still hold.
	if t.Token() == m.services.Resources.Ticket().Token() {
		m.services.Errors.Set(scope, err)
	}
	return false
}

// syncGate performs the once-per-session resource load after access is
// granted. Re-renders and repeat verifications never trigger another load.
func (m *AppModel) syncGate() tea.Cmd {
	if session.Decide(m.services.Session) != session.DecisionGranted {
		return nil
	}
	if !m.services.Resources.Bind(m.services.Session.Ticket()) {
		return nil
	}
	t := m.services.Resources.Ticket()
	return tea.Batch(
		fetchAccountsCmd(m.services, t),
		fetchStrategiesCmd(m.services, t),
		fetchHistoryCmd(m.services, t),
	)
}

// teardown clears everything derived from the dead session and resets the
// protected screens. Responses still in flight for the old token will be
// recognised as stale and dropped.
func (m *AppModel) teardown() {
	m.services.Resources.Clear()
	m.services.Bot.Reset()
	m.services.Errors.ClearAll()
	m.activeTab = TabDashboard
	m.dashboard = NewDashboardModel(m.services)
	m.accounts = NewAccountsModel(m.services)
	m.strategies = NewStrategiesModel(m.services)
	m.history = NewHistoryModel(m.services)
	m.login = NewLoginModel(m.services)
	m.register = NewRegisterModel(m.services)
	m.auth = authLogin
	m.propagateSize()
}

func (m AppModel) updateAuthKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Switch between sign-in and sign-up.
	if msg.String() == "ctrl+r" {
		if m.auth == authLogin {
			m.auth = authRegister
		} else {
			m.auth = authLogin
		}
		return m, nil
	}
	return m.forwardAuth(msg)
}

func (m AppModel) updateGrantedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text inputs on the protected screens capture plain keys while a form
	// is open; only chrome-level bindings are handled here.
	if !m.formOpen() {
		switch {
		case key.Matches(msg, m.keys.Logout):
			m.services.Session.Logout()
			m.teardown()
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.activeTab = Tab((int(m.activeTab) + 1) % len(tabNames))
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			next := int(m.activeTab) - 1
			if next < 0 {
				next = len(tabNames) - 1
			}
			m.activeTab = Tab(next)
			return m, nil
		case msg.String() == "1":
			m.activeTab = TabDashboard
			return m, nil
		case msg.String() == "2":
			m.activeTab = TabAccounts
			return m, nil
		case msg.String() == "3":
			m.activeTab = TabStrategies
			return m, nil
		case msg.String() == "4":
			m.activeTab = TabHistory
			return m, nil
		}
	}
	return m.forward(msg)
}

func (m AppModel) formOpen() bool {
	switch m.activeTab {
	case TabAccounts:
		return m.accounts.FormOpen()
	case TabStrategies:
		return m.strategies.FormOpen()
	default:
		return false
	}
}

func (m AppModel) forwardAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.auth == authRegister {
		m.register, cmd = m.register.Update(msg)
	} else {
		m.login, cmd = m.login.Update(msg)
	}
	return m, cmd
}

func (m AppModel) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	if session.Decide(m.services.Session) == session.DecisionDenied {
		return m.forwardAuth(msg)
	}
	var cmd tea.Cmd
	switch m.activeTab {
	case TabDashboard:
		m.dashboard, cmd = m.dashboard.Update(msg)
	case TabAccounts:
		m.accounts, cmd = m.accounts.Update(msg)
	case TabStrategies:
		m.strategies, cmd = m.strategies.Update(msg)
	case TabHistory:
		m.history, cmd = m.history.Update(msg)
	}
	return m, cmd
}

// View renders according to the access decision: a spinner while pending,
// the entry screens while denied, the tabbed panel while granted.
func (m AppModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	switch session.Decide(m.services.Session) {
	case session.DecisionPending:
		return "\n  " + m.spin.View() + " Checking session...\n"
	case session.DecisionDenied:
		if m.auth == authRegister {
			return m.register.View()
		}
		return m.login.View()
	}

	tabBar := m.renderTabBar()
	var content string
	switch m.activeTab {
	case TabDashboard:
		content = m.dashboard.View()
	case TabAccounts:
		content = m.accounts.View()
	case TabStrategies:
		content = m.strategies.View()
	case TabHistory:
		content = m.history.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content)
}

// SetSize updates dimensions on the root model and propagates to children.
func (m *AppModel) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.propagateSize()
}

// ActiveTab returns the currently active tab (for testing).
func (m AppModel) ActiveTab() Tab { return m.activeTab }

func (m *AppModel) propagateSize() {
	contentHeight := m.height - 2 // account for tab bar
	m.dashboard.SetSize(m.width, contentHeight)
	m.accounts.SetSize(m.width, contentHeight)
	m.strategies.SetSize(m.width, contentHeight)
	m.history.SetSize(m.width, contentHeight)
}

func (m AppModel) renderTabBar() string {
	var tabs []string
	for i, name := range tabNames {
		if Tab(i) == m.activeTab {
			tabs = append(tabs, ActiveTabStyle.Render(name))
		} else {
			tabs = append(tabs, InactiveTabStyle.Render(name))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}
