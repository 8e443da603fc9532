package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/domain"
	"pocket-panel/internal/errsink"
)

// StrategiesModel lists the RSI strategies and hosts the create/edit form.
type StrategiesModel struct {
	services Services
	cursor   int

	formOpen  bool
	editingID string
	inputs    []textinput.Model
	focus     int
	expiryIdx int

	busy    bool
	message string
	width   int
	height  int
}

var strategyLabels = []string{"Name", "RSI upper", "RSI lower", "Amount"}

// NewStrategiesModel creates the strategies screen.
func NewStrategiesModel(svc Services) StrategiesModel {
	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 64
		ti.Width = 24
		inputs[i] = ti
	}
	inputs[0].Placeholder = "RSI Strategy"
	inputs[1].Placeholder = "60"
	inputs[2].Placeholder = "40"
	inputs[3].Placeholder = "10.00"
	inputs[0].Focus()

	m := StrategiesModel{services: svc, inputs: inputs}
	m.expiryIdx = defaultExpiryIdx()
	return m
}

func defaultExpiryIdx() int {
	for i, opt := range domain.ExpiryOptions {
		if opt == 60 {
			return i
		}
	}
	return 0
}

// Init initializes the strategies model.
func (m StrategiesModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m StrategiesModel) Update(msg tea.Msg) (StrategiesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case strategiesMsg:
		m.clampCursor()
		return m, nil

	case strategySavedMsg:
		m.busy = false
		if msg.err == nil {
			m.closeForm()
			m.message = "Strategy saved"
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

func (m StrategiesModel) updateList(msg tea.KeyMsg) (StrategiesModel, tea.Cmd) {
	keys := DefaultKeyMap
	strategies := m.services.Resources.Strategies()

	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(strategies)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Submit):
		if m.cursor < len(strategies) {
			m.services.Resources.SelectStrategy(strategies[m.cursor].ID)
			m.message = "Selected " + strategies[m.cursor].Name
		}
	case key.Matches(msg, keys.New):
		m.openForm(nil)
		return m, textinput.Blink
	case key.Matches(msg, keys.Edit):
		if m.cursor < len(strategies) {
			m.openForm(&strategies[m.cursor])
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m StrategiesModel) updateForm(msg tea.KeyMsg) (StrategiesModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.closeForm()
		m.services.Errors.Clear(errsink.ScopeStrategies)
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		m.setFocus((m.focus + 1) % len(m.inputs))
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, nil
	case tea.KeyLeft:
		m.expiryIdx = (m.expiryIdx + len(domain.ExpiryOptions) - 1) % len(domain.ExpiryOptions)
		return m, nil
	case tea.KeyRight:
		m.expiryIdx = (m.expiryIdx + 1) % len(domain.ExpiryOptions)
		return m, nil
	case tea.KeyEnter:
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m StrategiesModel) submit() (StrategiesModel, tea.Cmd) {
	in, err := m.parseForm()
	if err != nil {
		m.services.Errors.Set(errsink.ScopeStrategies, err)
		return m, nil
	}
	if err := in.Validate(); err != nil {
		m.services.Errors.Set(errsink.ScopeStrategies, err)
		return m, nil
	}

	m.services.Errors.Clear(errsink.ScopeStrategies)
	m.busy = true
	t := m.services.Resources.Ticket()
	if m.editingID != "" {
		return m, updateStrategyCmd(m.services, t, m.editingID, in)
	}
	return m, createStrategyCmd(m.services, t, in)
}

func (m StrategiesModel) parseForm() (domain.StrategyInput, error) {
	upper, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[1].Value()), 64)
	if err != nil {
		return domain.StrategyInput{}, fmt.Errorf("RSI upper threshold must be a number")
	}
	lower, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[2].Value()), 64)
	if err != nil {
		return domain.StrategyInput{}, fmt.Errorf("RSI lower threshold must be a number")
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(m.inputs[3].Value()), 64)
	if err != nil {
		return domain.StrategyInput{}, fmt.Errorf("trade amount must be a number")
	}
	return domain.StrategyInput{
		Name:        strings.TrimSpace(m.inputs[0].Value()),
		RSIUpper:    upper,
		RSILower:    lower,
		TradeAmount: amount,
		ExpiryTime:  domain.ExpiryOptions[m.expiryIdx],
	}, nil
}

// View renders the strategies screen.
func (m StrategiesModel) View() string {
	if m.formOpen {
		return m.viewForm()
	}

	lines := []string{HeaderStyle.Render("  Strategies"), ""}

	strategies := m.services.Resources.Strategies()
	selected := m.services.Resources.Selection().StrategyID
	for i, s := range strategies {
		marker := "  "
		if i == m.cursor {
			marker = SelectedStyle.Render("> ")
		}
		name := s.Name
		if s.ID == selected {
			name += " *"
		}
		lines = append(lines, fmt.Sprintf("%s%-28s RSI %.0f/%.0f  $%.2f  %ds",
			marker, name, s.RSILower, s.RSIUpper, s.TradeAmount, s.ExpiryTime))
	}
	if len(strategies) == 0 {
		lines = append(lines, SubtextStyle.Render("  No strategies yet. Press n to add one."))
	}

	lines = append(lines, "")
	if err := m.services.Errors.Get(errsink.ScopeStrategies); err != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	} else if m.message != "" {
		lines = append(lines, NoticeStyle.Render("  "+m.message))
	}
	lines = append(lines, SubtextStyle.Render("  enter: select • n: new • e: edit • j/k: move"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m StrategiesModel) viewForm() string {
	title := "  New Strategy"
	if m.editingID != "" {
		title = "  Edit Strategy"
	}
	lines := []string{HeaderStyle.Render(title), ""}
	for i, in := range m.inputs {
		label := LabelStyle.Render(fmt.Sprintf("%-10s", strategyLabels[i]))
		lines = append(lines, "  "+label+"  "+in.View())
	}
	expiry := fmt.Sprintf("< %ds >", domain.ExpiryOptions[m.expiryIdx])
	lines = append(lines, "  "+LabelStyle.Render(fmt.Sprintf("%-10s", "Expiry"))+"  "+expiry)
	lines = append(lines, "")

	if m.busy {
		lines = append(lines, SubtextStyle.Render("  Saving..."))
	} else if err := m.services.Errors.Get(errsink.ScopeStrategies); err != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	}
	lines = append(lines, SubtextStyle.Render("  enter: save • left/right: expiry • esc: cancel"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the model dimensions.
func (m *StrategiesModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// FormOpen reports whether the create/edit form is capturing input.
func (m StrategiesModel) FormOpen() bool { return m.formOpen }

// Message returns the current status line (for testing).
func (m StrategiesModel) Message() string { return m.message }

func (m *StrategiesModel) openForm(s *domain.Strategy) {
	m.formOpen = true
	m.message = ""
	m.expiryIdx = defaultExpiryIdx()
	m.editingID = ""
	if s != nil {
		m.editingID = s.ID
		m.inputs[0].SetValue(s.Name)
		m.inputs[1].SetValue(strconv.FormatFloat(s.RSIUpper, 'f', -1, 64))
		m.inputs[2].SetValue(strconv.FormatFloat(s.RSILower, 'f', -1, 64))
		m.inputs[3].SetValue(strconv.FormatFloat(s.TradeAmount, 'f', -1, 64))
		for i, opt := range domain.ExpiryOptions {
			if opt == s.ExpiryTime {
				m.expiryIdx = i
			}
		}
	}
	m.setFocus(0)
}

func (m *StrategiesModel) closeForm() {
	m.formOpen = false
	m.editingID = ""
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focus = 0
	m.inputs[0].Focus()
	m.expiryIdx = defaultExpiryIdx()
}

func (m *StrategiesModel) setFocus(i int) {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
}

func (m *StrategiesModel) clampCursor() {
	if n := len(m.services.Resources.Strategies()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
