package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines key bindings used across the panel.
type KeyMap struct {
	Tab      key.Binding
	ShiftTab key.Binding
	Quit     key.Binding
	Logout   key.Binding
	Refresh  key.Binding

	// Dashboard run controls
	StartBot      key.Binding
	StartCharging key.Binding
	StopBot       key.Binding

	// Selection controls
	CycleAccount  key.Binding
	CycleStrategy key.Binding
	CycleSymbol   key.Binding
	ToggleMode    key.Binding
	ToggleSource  key.Binding

	// List screens
	New    key.Binding
	Edit   key.Binding
	Delete key.Binding
	Test   key.Binding
	Up     key.Binding
	Down   key.Binding
	Submit key.Binding
	Cancel key.Binding
}

// DefaultKeyMap provides the default key bindings.
var DefaultKeyMap = KeyMap{
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Logout:   key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "log out")),
	Refresh:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "refresh")),

	StartBot:      key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "start bot")),
	StartCharging: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "start charging")),
	StopBot:       key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop bot")),

	CycleAccount:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "cycle account")),
	CycleStrategy: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle strategy")),
	CycleSymbol:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "cycle symbol")),
	ToggleMode:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "demo/real")),
	ToggleSource:  key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "signal source")),

	New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete")),
	Test:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "test connection")),
	Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
	Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}

// symbolOptions are the assets offered on the dashboard.
var symbolOptions = []string{
	"EUR/USD", "GBP/USD", "USD/JPY", "AUD/USD", "USD/CAD", "BTC/USD",
}
