package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/errsink"
)

// LoginModel is the sign-in entry screen shown while access is denied.
type LoginModel struct {
	services Services
	username textinput.Model
	password textinput.Model
	focus    int
	spinner  spinner.Model
	busy     bool
}

// NewLoginModel creates the sign-in screen with the username field focused.
func NewLoginModel(svc Services) LoginModel {
	user := textinput.New()
	user.Placeholder = "username"
	user.CharLimit = 64
	user.Width = 32
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.CharLimit = 128
	pass.Width = 32
	pass.EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return LoginModel{
		services: svc,
		username: user,
		password: pass,
		spinner:  sp,
	}
}

// Init initializes the login model.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
		if msg.err == nil {
			m.password.SetValue("")
		}
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyTab, tea.KeyDown, tea.KeyShiftTab, tea.KeyUp:
			m.setFocus(1 - m.focus)
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	if m.focus == 0 {
		m.username, cmd = m.username.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	username := strings.TrimSpace(m.username.Value())
	password := m.password.Value()
	if username == "" || password == "" {
		m.services.Errors.Set(errsink.ScopeLogin, fmt.Errorf("username and password are required"))
		return m, nil
	}
	m.services.Errors.Clear(errsink.ScopeLogin)
	m.busy = true
	return m, tea.Batch(loginCmd(m.services, username, password), m.spinner.Tick)
}

// View renders the sign-in screen.
func (m LoginModel) View() string {
	var sections []string
	sections = append(sections, "")
	sections = append(sections, HeaderStyle.Render("  Pocket Panel"))
	sections = append(sections, SubtextStyle.Render("  Sign in to your trading bot"))
	sections = append(sections, "")
	sections = append(sections, "  "+LabelStyle.Render("Username")+"  "+m.username.View())
	sections = append(sections, "  "+LabelStyle.Render("Password")+"  "+m.password.View())
	sections = append(sections, "")

	if m.busy {
		sections = append(sections, fmt.Sprintf("  %s Signing in...", m.spinner.View()))
	} else if err := m.services.Errors.Get(errsink.ScopeLogin); err != nil {
		sections = append(sections, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	}

	sections = append(sections, "")
	sections = append(sections, SubtextStyle.Render("  enter: sign in • ctrl+r: create account • ctrl+c: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Busy reports whether a sign-in is in flight (for testing).
func (m LoginModel) Busy() bool { return m.busy }

func (m *LoginModel) setFocus(i int) {
	m.focus = i
	if i == 0 {
		m.username.Focus()
		m.password.Blur()
	} else {
		m.username.Blur()
		m.password.Focus()
	}
}
