package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/domain"
	"pocket-panel/internal/errsink"
)

// AccountsModel lists the broker accounts and hosts the create form.
type AccountsModel struct {
	services Services
	cursor   int

	formOpen bool
	inputs   []textinput.Model
	focus    int
	demo     bool

	busy    bool
	message string
	width   int
	height  int
}

var accountLabels = []string{"Name", "Username", "Password"}

// NewAccountsModel creates the accounts screen.
func NewAccountsModel(svc Services) AccountsModel {
	inputs := make([]textinput.Model, 3)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[0].Placeholder = "My Pocket Option account"
	inputs[1].Placeholder = "broker username"
	inputs[2].Placeholder = "broker password"
	inputs[2].EchoMode = textinput.EchoPassword
	inputs[0].Focus()

	return AccountsModel{services: svc, inputs: inputs, demo: true}
}

// Init initializes the accounts model.
func (m AccountsModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m AccountsModel) Update(msg tea.Msg) (AccountsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case accountsMsg:
		m.clampCursor()
		return m, nil

	case accountCreatedMsg:
		m.busy = false
		if msg.err == nil {
			m.closeForm()
			m.message = "Account created"
		}
		return m, nil

	case accountDeletedMsg:
		m.busy = false
		if msg.err == nil {
			m.message = "Account deleted"
			m.clampCursor()
		}
		return m, nil

	case accountTestedMsg:
		m.busy = false
		if msg.err == nil {
			m.message = msg.message
		}
		return m, nil

	case tea.KeyMsg:
		if m.formOpen {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m AccountsModel) updateList(msg tea.KeyMsg) (AccountsModel, tea.Cmd) {
	keys := DefaultKeyMap
	accounts := m.services.Resources.Accounts()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(accounts)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Submit):
		if m.cursor < len(accounts) {
			m.services.Resources.SelectAccount(accounts[m.cursor].ID)
			m.message = "Selected " + accounts[m.cursor].AccountName
		}
	case key.Matches(msg, keys.New):
		m.formOpen = true
		m.message = ""
		return m, textinput.Blink
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(accounts) && !m.busy {
			m.busy = true
			m.message = ""
			return m, deleteAccountCmd(m.services, m.services.Resources.Ticket(), accounts[m.cursor].ID)
		}
	case key.Matches(msg, keys.Test):
		if m.cursor < len(accounts) && !m.busy {
			m.busy = true
			m.message = ""
			return m, testAccountCmd(m.services, m.services.Resources.Ticket(), accounts[m.cursor].ID)
		}
	}
	return m, nil
}

func (m AccountsModel) updateForm(msg tea.KeyMsg) (AccountsModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.closeForm()
		m.services.Errors.Clear(errsink.ScopeAccounts)
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case tea.KeyEnter:
		return m.submit()
	}
	if msg.String() == "ctrl+d" {
		m.demo = !m.demo
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m AccountsModel) submit() (AccountsModel, tea.Cmd) {
	in := domain.AccountInput{
		AccountName: strings.TrimSpace(m.inputs[0].Value()),
		Username:    strings.TrimSpace(m.inputs[1].Value()),
		Password:    m.inputs[2].Value(),
		IsDemo:      m.demo,
	}
	if err := in.Validate(); err != nil {
		m.services.Errors.Set(errsink.ScopeAccounts, err)
		return m, nil
	}
	m.services.Errors.Clear(errsink.ScopeAccounts)
	m.busy = true
	return m, createAccountCmd(m.services, m.services.Resources.Ticket(), in)
}

// View renders the accounts screen.
func (m AccountsModel) View() string {
	if m.formOpen {
		return m.viewForm()
	}

	lines := []string{HeaderStyle.Render("  Broker Accounts"), ""}

	accounts := m.services.Resources.Accounts()
	selected := m.services.Resources.Selection().AccountID
	for i, a := range accounts {
		marker := "  "
		if i == m.cursor {
			marker = SelectedStyle.Render("> ")
		}
		name := a.AccountName
		if a.ID == selected {
			name += " *"
		}
		kind := "real"
		if a.IsDemo {
			kind = "demo"
		}
		lines = append(lines, fmt.Sprintf("%s%-28s %-16s %s",
			marker, name, a.Username, SubtextStyle.Render(kind)))
	}
	if len(accounts) == 0 {
		lines = append(lines, SubtextStyle.Render("  No accounts yet. Press n to add one."))
	}

	lines = append(lines, "")
	if err := m.services.Errors.Get(errsink.ScopeAccounts); err != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	} else if m.message != "" {
		lines = append(lines, NoticeStyle.Render("  "+m.message))
	}
	lines = append(lines, SubtextStyle.Render("  enter: select • n: new • t: test • D: delete • j/k: move"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m AccountsModel) viewForm() string {
	lines := []string{HeaderStyle.Render("  New Broker Account"), ""}
	for i, in := range m.inputs {
		label := LabelStyle.Render(fmt.Sprintf("%-8s", accountLabels[i]))
		lines = append(lines, "  "+label+"  "+in.View())
	}
	kind := "real"
	if m.demo {
		kind = "demo"
	}
	lines = append(lines, "  "+LabelStyle.Render("Type    ")+"  "+kind)
	lines = append(lines, "")

	if m.busy {
		lines = append(lines, SubtextStyle.Render("  Saving..."))
	} else if err := m.services.Errors.Get(errsink.ScopeAccounts); err != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	}
	lines = append(lines, SubtextStyle.Render("  enter: save • ctrl+d: demo/real • esc: cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the model dimensions.
func (m *AccountsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// FormOpen reports whether the create form is capturing input.
func (m AccountsModel) FormOpen() bool { return m.formOpen }

// Message returns the current status line (for testing).
func (m AccountsModel) Message() string { return m.message }

func (m *AccountsModel) closeForm() {
	m.formOpen = false
	m.demo = true
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
}

func (m *AccountsModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *AccountsModel) clampCursor() {
	if n := len(m.services.Resources.Accounts()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
