package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/api"
	"pocket-panel/internal/errsink"
)

const minPasswordLen = 8

// RegisterModel is the sign-up entry screen. Validation that needs no
// server round trip (matching passwords, minimum length) happens here
// before anything is sent.
type RegisterModel struct {
	services Services
	inputs   []textinput.Model
	focus    int
	spinner  spinner.Model
	busy     bool
}

var registerLabels = []string{"Username", "Email", "Password", "Confirm"}

// NewRegisterModel creates the sign-up screen.
func NewRegisterModel(svc Services) RegisterModel {
	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 128
		ti.Width = 32
		inputs[i] = ti
	}
	inputs[0].Placeholder = "username"
	inputs[0].CharLimit = 64
	inputs[0].Focus()
	inputs[1].Placeholder = "you@example.com"
	inputs[2].Placeholder = "min 8 characters"
	inputs[2].EchoMode = textinput.EchoPassword
	inputs[3].Placeholder = "repeat password"
	inputs[3].EchoMode = textinput.EchoPassword

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(SpinnerColor)

	return RegisterModel{services: svc, inputs: inputs, spinner: sp}
}

// Init initializes the register model.
func (m RegisterModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles incoming messages.
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.busy = false
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
		case tea.KeyTab, tea.KeyDown:
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}
	}

	if m.busy {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m RegisterModel) submit() (RegisterModel, tea.Cmd) {
	username := strings.TrimSpace(m.inputs[0].Value())
	email := strings.TrimSpace(m.inputs[1].Value())
	password := m.inputs[2].Value()
	confirm := m.inputs[3].Value()

	var err error
	switch {
	case username == "" || email == "" || password == "":
		err = fmt.Errorf("all fields are required")
	case len(password) < minPasswordLen:
		err = fmt.Errorf("password must be at least %d characters", minPasswordLen)
	case password != confirm:
		err = fmt.Errorf("passwords do not match")
	}
	if err != nil {
		m.services.Errors.Set(errsink.ScopeRegister, err)
		return m, nil
	}

	m.services.Errors.Clear(errsink.ScopeRegister)
	m.busy = true
	req := api.RegisterRequest{Username: username, Email: email, Password: password}
	return m, tea.Batch(registerCmd(m.services, req), m.spinner.Tick)
}

// View renders the sign-up screen.
func (m RegisterModel) View() string {
	var sections []string
	sections = append(sections, "")
	sections = append(sections, HeaderStyle.Render("  Pocket Panel"))
	sections = append(sections, SubtextStyle.Render("  Create a new account"))
	sections = append(sections, "")
	for i, in := range m.inputs {
		label := LabelStyle.Render(fmt.Sprintf("%-8s", registerLabels[i]))
		sections = append(sections, "  "+label+"  "+in.View())
	}
	sections = append(sections, "")

	if m.busy {
		sections = append(sections, fmt.Sprintf("  %s Creating account...", m.spinner.View()))
	} else if err := m.services.Errors.Get(errsink.ScopeRegister); err != nil {
		sections = append(sections, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	}

	sections = append(sections, "")
	sections = append(sections, SubtextStyle.Render("  enter: create • ctrl+r: back to sign in • ctrl+c: quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// Busy reports whether a sign-up is in flight (for testing).
func (m RegisterModel) Busy() bool { return m.busy }

func (m *RegisterModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}
