// Package resource caches the three server-backed collections a session
// needs (accounts, strategies, trade history) and owns the current
// selection. Collections are keyed by the token they were fetched under and
// replaced wholesale from authoritative server responses, never merged.
package resource

import (
	"pocket-panel/internal/domain"
	"pocket-panel/internal/session"

	"github.com/charmbracelet/log"
)

// Sync owns the cached collections for one granted session. Like the rest
// of the core it is only ever touched from the UI update loop.
type Sync struct {
	logger *log.Logger

	token      string
	accounts   []domain.Account
	strategies []domain.Strategy
	history    []domain.TradeRecord

	sel            domain.Selection
	manualAccount  bool
	manualStrategy bool
}

func NewSync(defaultSymbol string, logger *log.Logger) *Sync {
	return &Sync{
		logger: logger,
		sel: domain.Selection{
			Symbol: defaultSymbol,
			Mode:   domain.ModeDemo,
			Source: domain.SourceBuiltIn,
		},
	}
}

// Bind attaches the cache to the session identified by the ticket. On a
// token change all collections and the selection are reset. It returns true
// exactly when a full reload should be performed, which makes the reload
// happen once per distinct granted session rather than on every render.
func (s *Sync) Bind(t session.Ticket) bool {
	if !t.Valid() || t.Token() == s.token {
		return false
	}
	symbol := s.sel.Symbol
	*s = Sync{logger: s.logger, token: t.Token()}
	s.sel = domain.Selection{Symbol: symbol, Mode: domain.ModeDemo, Source: domain.SourceBuiltIn}
	return true
}

// Clear drops everything, including the binding. Called on logout so that
// late responses for the old token can never repopulate the cache.
func (s *Sync) Clear() {
	symbol := s.sel.Symbol
	*s = Sync{logger: s.logger}
	s.sel = domain.Selection{Symbol: symbol, Mode: domain.ModeDemo, Source: domain.SourceBuiltIn}
}

// Ticket issues a ticket tagged with the bound token for fetches the caller
// is about to perform.
func (s *Sync) Ticket() session.Ticket { return session.TicketFor(s.token) }

func (s *Sync) Accounts() []domain.Account    { return s.accounts }
func (s *Sync) Strategies() []domain.Strategy { return s.strategies }
func (s *Sync) History() []domain.TradeRecord { return s.history }
func (s *Sync) Selection() domain.Selection   { return s.sel }

func (s *Sync) AccountByID(id string) *domain.Account {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return &s.accounts[i]
		}
	}
	return nil
}

func (s *Sync) StrategyByID(id string) *domain.Strategy {
	for i := range s.strategies {
		if s.strategies[i].ID == id {
			return &s.strategies[i]
		}
	}
	return nil
}

// stale reports whether a result tagged with t belongs to a session this
// cache is no longer bound to.
func (s *Sync) stale(t session.Ticket) bool {
	if !t.Valid() || t.Token() != s.token {
		s.logger.Debug("discarding stale resource result")
		return true
	}
	return false
}

// ApplyAccounts replaces the account collection. Stale results are
// discarded and leave the cache untouched.
func (s *Sync) ApplyAccounts(t session.Ticket, accounts []domain.Account) bool {
	if s.stale(t) {
		return false
	}
	s.accounts = accounts
	s.applyDefaults()
	return true
}

// ApplyStrategies replaces the strategy collection.
func (s *Sync) ApplyStrategies(t session.Ticket, strategies []domain.Strategy) bool {
	if s.stale(t) {
		return false
	}
	s.strategies = strategies
	s.applyDefaults()
	return true
}

// ApplyHistory replaces the trade history with the server snapshot, in
// server order.
func (s *Sync) ApplyHistory(t session.Ticket, history []domain.TradeRecord) bool {
	if s.stale(t) {
		return false
	}
	s.history = history
	return true
}

// ApplyAccountCreated appends the server-returned record so that
// server-assigned fields (id, created_at) are never guessed locally.
func (s *Sync) ApplyAccountCreated(t session.Ticket, account domain.Account) bool {
	if s.stale(t) {
		return false
	}
	s.accounts = append(s.accounts, account)
	s.applyDefaults()
	return true
}

// ApplyAccountDeleted removes the account from the collection. If it was
// the selected account the selection falls back to the default choice.
func (s *Sync) ApplyAccountDeleted(t session.Ticket, id string) bool {
	if s.stale(t) {
		return false
	}
	kept := s.accounts[:0]
	for _, a := range s.accounts {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	s.accounts = kept
	if s.sel.AccountID == id {
		s.sel.AccountID = ""
		s.manualAccount = false
		s.applyDefaults()
	}
	return true
}

// ApplyStrategySaved applies the authoritative record for a created or
// updated strategy: replace in place when the id is known, append otherwise.
func (s *Sync) ApplyStrategySaved(t session.Ticket, strategy domain.Strategy) bool {
	if s.stale(t) {
		return false
	}
	for i := range s.strategies {
		if s.strategies[i].ID == strategy.ID {
			s.strategies[i] = strategy
			return true
		}
	}
	s.strategies = append(s.strategies, strategy)
	s.applyDefaults()
	return true
}

// SelectAccount records an explicit account choice. Defaults never override
// it afterwards.
func (s *Sync) SelectAccount(id string) bool {
	if s.AccountByID(id) == nil {
		return false
	}
	s.sel.AccountID = id
	s.manualAccount = true
	return true
}

// SelectStrategy records an explicit strategy choice.
func (s *Sync) SelectStrategy(id string) bool {
	if s.StrategyByID(id) == nil {
		return false
	}
	s.sel.StrategyID = id
	s.manualStrategy = true
	return true
}

func (s *Sync) SetSymbol(symbol string) {
	if symbol != "" {
		s.sel.Symbol = symbol
	}
}

func (s *Sync) SetMode(mode domain.TradingMode)   { s.sel.Mode = mode }
func (s *Sync) SetSource(src domain.SignalSource) { s.sel.Source = src }

// applyDefaults fills empty selection fields with the first element of the
// corresponding collection. A field that already holds a value, manual or
// defaulted, is never overwritten.
func (s *Sync) applyDefaults() {
	if s.sel.AccountID == "" && !s.manualAccount && len(s.accounts) > 0 {
		s.sel.AccountID = s.accounts[0].ID
	}
	if s.sel.StrategyID == "" && !s.manualStrategy && len(s.strategies) > 0 {
		s.sel.StrategyID = s.strategies[0].ID
	}
}
