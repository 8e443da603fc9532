package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pocket-panel/internal/api"
	"pocket-panel/internal/bot"
	"pocket-panel/internal/domain"
	"pocket-panel/internal/session"
)

// Every network call runs inside a tea.Cmd so the update loop never blocks.
// Results come back as messages tagged with the ticket they were issued
// under; the owning component decides whether they still apply.

const requestTimeout = 15 * time.Second

func reqContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func loginCmd(svc Services, username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		token, err := svc.Backend.Login(ctx, username, password)
		return loginResultMsg{token: token, err: err}
	}
}

// registerCmd creates the user and immediately logs in with the same
// credentials, so a successful registration lands in a live session.
func registerCmd(svc Services, in api.RegisterRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		if _, err := svc.Backend.Register(ctx, in); err != nil {
			return loginResultMsg{err: err}
		}
		token, err := svc.Backend.Login(ctx, in.Username, in.Password)
		return loginResultMsg{token: token, err: err}
	}
}

func verifyCmd(svc Services, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		user, err := svc.Backend.Me(ctx, t.Token())
		return verifiedMsg{ticket: t, user: user, err: err}
	}
}

func fetchAccountsCmd(svc Services, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		accounts, err := svc.Backend.ListAccounts(ctx, t.Token())
		return accountsMsg{ticket: t, accounts: accounts, err: err}
	}
}

func fetchStrategiesCmd(svc Services, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		strategies, err := svc.Backend.ListStrategies(ctx, t.Token())
		return strategiesMsg{ticket: t, strategies: strategies, err: err}
	}
}

func fetchHistoryCmd(svc Services, t session.Ticket) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		trades, err := svc.Backend.TradingHistory(ctx, t.Token())
		return historyMsg{ticket: t, trades: trades, err: err}
	}
}

func createAccountCmd(svc Services, t session.Ticket, in domain.AccountInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		acct, err := svc.Backend.CreateAccount(ctx, t.Token(), in)
		return accountCreatedMsg{ticket: t, account: acct, err: err}
	}
}

func deleteAccountCmd(svc Services, t session.Ticket, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		err := svc.Backend.DeleteAccount(ctx, t.Token(), id)
		return accountDeletedMsg{ticket: t, id: id, err: err}
	}
}

func testAccountCmd(svc Services, t session.Ticket, id string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		msg, err := svc.Backend.TestAccount(ctx, t.Token(), id)
		return accountTestedMsg{ticket: t, id: id, message: msg, err: err}
	}
}

func createStrategyCmd(svc Services, t session.Ticket, in domain.StrategyInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		s, err := svc.Backend.CreateStrategy(ctx, t.Token(), in)
		return strategySavedMsg{ticket: t, strategy: s, err: err}
	}
}

func updateStrategyCmd(svc Services, t session.Ticket, id string, in domain.StrategyInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		s, err := svc.Backend.UpdateStrategy(ctx, t.Token(), id, in)
		return strategySavedMsg{ticket: t, strategy: s, err: err}
	}
}

func triggerCmd(svc Services, trig bot.Trigger) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := reqContext()
		defer cancel()
		result, err := svc.Backend.SimulateTrading(ctx, trig.Ticket().Token(), api.TradeRequest{
			AccountID:    trig.AccountID,
			StrategyID:   trig.StrategyID,
			Asset:        trig.Asset,
			ChargingMode: trig.Charging,
		})
		return triggerDoneMsg{trigger: trig, result: result, err: err}
	}
}

func chargingRevertCmd(run uint64, after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return chargingRevertMsg{run: run}
	})
}
