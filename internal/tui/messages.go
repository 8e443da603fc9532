package tui

import (
	"pocket-panel/internal/api"
	"pocket-panel/internal/bot"
	"pocket-panel/internal/domain"
	"pocket-panel/internal/session"
)

// loginResultMsg carries the token issued by a login or a
// register-then-login exchange.
type loginResultMsg struct {
	token string
	err   error
}

// verifiedMsg carries the outcome of a token verification.
type verifiedMsg struct {
	ticket session.Ticket
	user   *domain.UserProfile
	err    error
}

type accountsMsg struct {
	ticket   session.Ticket
	accounts []domain.Account
	err      error
}

type strategiesMsg struct {
	ticket     session.Ticket
	strategies []domain.Strategy
	err        error
}

type historyMsg struct {
	ticket session.Ticket
	trades []domain.TradeRecord
	err    error
}

type accountCreatedMsg struct {
	ticket  session.Ticket
	account *domain.Account
	err     error
}

type accountDeletedMsg struct {
	ticket session.Ticket
	id     string
	err    error
}

type accountTestedMsg struct {
	ticket  session.Ticket
	id      string
	message string
	err     error
}

type strategySavedMsg struct {
	ticket   session.Ticket
	strategy *domain.Strategy
	err      error
}

// triggerDoneMsg carries the outcome of a simulate-trading call.
type triggerDoneMsg struct {
	trigger bot.Trigger
	result  *api.TradeResult
	err     error
}

// chargingRevertMsg fires when the charging window elapses.
type chargingRevertMsg struct {
	run uint64
}
