package tui

import (
	"context"

	"github.com/charmbracelet/log"

	"pocket-panel/internal/api"
	"pocket-panel/internal/bot"
	"pocket-panel/internal/domain"
	"pocket-panel/internal/errsink"
	"pocket-panel/internal/resource"
	"pocket-panel/internal/session"
)

// Backend is the control-panel API surface the TUI talks to. *api.Client
// implements it; tests substitute a stub.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, in api.RegisterRequest) (*domain.UserProfile, error)
	Me(ctx context.Context, token string) (*domain.UserProfile, error)

	ListAccounts(ctx context.Context, token string) ([]domain.Account, error)
	CreateAccount(ctx context.Context, token string, in domain.AccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, token, id string) error
	TestAccount(ctx context.Context, token, id string) (string, error)

	ListStrategies(ctx context.Context, token string) ([]domain.Strategy, error)
	CreateStrategy(ctx context.Context, token string, in domain.StrategyInput) (*domain.Strategy, error)
	UpdateStrategy(ctx context.Context, token, id string, in domain.StrategyInput) (*domain.Strategy, error)

	TradingHistory(ctx context.Context, token string) ([]domain.TradeRecord, error)
	SimulateTrading(ctx context.Context, token string, in api.TradeRequest) (*api.TradeResult, error)

	WebhookURL(userID string) string
}

// Services bundles everything the screen models share.
type Services struct {
	Backend   Backend
	Session   *session.Store
	Resources *resource.Sync
	Bot       *bot.Controller
	Errors    *errsink.Sink
	Logger    *log.Logger
}
