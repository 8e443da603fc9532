package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pocket-panel/internal/errsink"
)

// HistoryModel shows the trade history snapshot in server order.
type HistoryModel struct {
	services Services
	offset   int
	busy     bool
	width    int
	height   int
}

// NewHistoryModel creates the history screen.
func NewHistoryModel(svc Services) HistoryModel {
	return HistoryModel{services: svc}
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages.
func (m HistoryModel) Update(msg tea.Msg) (HistoryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyMsg:
		m.busy = false
		m.offset = 0
		return m, nil

	case tea.KeyMsg:
		keys := DefaultKeyMap
		switch {
		case key.Matches(msg, keys.Up):
			if m.offset > 0 {
				m.offset--
			}
		case key.Matches(msg, keys.Down):
			if m.offset < len(m.services.Resources.History())-1 {
				m.offset++
			}
		case key.Matches(msg, keys.Refresh):
			if !m.busy {
				m.busy = true
				return m, fetchHistoryCmd(m.services, m.services.Resources.Ticket())
			}
		}
	}
	return m, nil
}

// View renders the history screen.
func (m HistoryModel) View() string {
	lines := []string{HeaderStyle.Render("  Trading History"), ""}

	history := m.services.Resources.History()
	rows := m.visibleRows()
	for i := m.offset; i < len(history) && i < m.offset+rows; i++ {
		lines = append(lines, "  "+FormatTrade(history[i]))
	}
	if len(history) == 0 {
		lines = append(lines, SubtextStyle.Render("  No trades recorded"))
	}

	lines = append(lines, "")
	if m.busy {
		lines = append(lines, SubtextStyle.Render("  Refreshing..."))
	} else if err := m.services.Errors.Get(errsink.ScopeHistory); err != nil {
		lines = append(lines, ErrorStyle.Render(fmt.Sprintf("  %v", err)))
	}
	lines = append(lines, SubtextStyle.Render("  R: refresh • j/k: scroll"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the model dimensions.
func (m *HistoryModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// Busy reports whether a refresh is in flight (for testing).
func (m HistoryModel) Busy() bool { return m.busy }

func (m HistoryModel) visibleRows() int {
	rows := m.height - 6
	if rows < 5 {
		rows = 20
	}
	return rows
}
