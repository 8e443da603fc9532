package domain

import (
	"errors"
	"fmt"
	"time"
)

// UserProfile is the identity returned by the backend for the session owner.
// It is owned by the session store and replaced wholesale on each verification.
type UserProfile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Account is a broker account as stored by the backend. The password is
// opaque to the panel and only ever echoed back from the server.
type Account struct {
	ID          string    `json:"id"`
	AccountName string    `json:"account_name"`
	Username    string    `json:"username"`
	Password    string    `json:"password"`
	IsDemo      bool      `json:"is_demo"`
	CreatedAt   time.Time `json:"created_at"`
}

// Strategy holds the RSI thresholds and stake parameters for a bot run.
type Strategy struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RSIUpper     float64   `json:"rsi_upper_threshold"`
	RSILower     float64   `json:"rsi_lower_threshold"`
	TradeAmount  float64   `json:"trade_amount"`
	ExpiryTime   int       `json:"expiry_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type SignalType string

const (
	SignalCall SignalType = "CALL"
	SignalPut  SignalType = "PUT"
)

// Trade results. An empty result means the trade is still pending.
const (
	ResultWin  = "WIN"
	ResultLoss = "LOSS"
)

// TradeRecord is one executed (or pending) trade as reported by the backend.
// The history collection is always the authoritative server snapshot in
// server order; the panel never reorders or merges it.
type TradeRecord struct {
	ID         string     `json:"id"`
	AccountID  string     `json:"account_id"`
	StrategyID string     `json:"strategy_id"`
	SignalType SignalType `json:"signal_type"`
	Asset      string     `json:"asset"`
	Amount     float64    `json:"amount"`
	ExpiryTime int        `json:"expiry_time"`
	Executed   bool       `json:"executed"`
	Result     string     `json:"result,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// Pending reports whether the trade has no result yet.
func (t TradeRecord) Pending() bool { return t.Result == "" }

type TradingMode string

const (
	ModeDemo TradingMode = "demo"
	ModeReal TradingMode = "real"
)

type SignalSource string

const (
	SourceBuiltIn     SignalSource = "built-in"
	SourceTradingView SignalSource = "tradingview"
)

// Selection is the user's current choice for a prospective bot run. Accounts
// and strategies are referenced by id so that edits elsewhere stay visible.
// It is transient and never persisted.
type Selection struct {
	AccountID  string
	StrategyID string
	Symbol     string
	Mode       TradingMode
	Source     SignalSource
}

// Complete reports whether both an account and a strategy are selected.
func (s Selection) Complete() bool {
	return s.AccountID != "" && s.StrategyID != ""
}

// ExpiryOptions are the expiry durations (seconds) the backend accepts.
var ExpiryOptions = []int{5, 10, 15, 30, 60}

var (
	ErrAccountNameRequired  = errors.New("account name is required")
	ErrUsernameRequired     = errors.New("username is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrStrategyNameRequired = errors.New("strategy name is required")
	ErrThresholdOrder       = errors.New("lower RSI threshold must be below the upper threshold")
	ErrTradeAmount          = errors.New("trade amount must be greater than zero")
)

// AccountInput is the payload for creating a broker account.
type AccountInput struct {
	AccountName string `json:"account_name"`
	Username    string `json:"username"`
	Password    string `json:"password"`
	IsDemo      bool   `json:"is_demo"`
}

func (in AccountInput) Validate() error {
	if in.AccountName == "" {
		return ErrAccountNameRequired
	}
	if in.Username == "" {
		return ErrUsernameRequired
	}
	if in.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// StrategyInput is the payload for creating or updating a strategy.
type StrategyInput struct {
	Name        string  `json:"name"`
	RSIUpper    float64 `json:"rsi_upper_threshold"`
	RSILower    float64 `json:"rsi_lower_threshold"`
	TradeAmount float64 `json:"trade_amount"`
	ExpiryTime  int     `json:"expiry_time"`
}

// Validate checks what the panel can verify before submitting: threshold
// ordering, a positive stake and a supported expiry. Numeric threshold
// bounds beyond ordering are left to the backend.
func (in StrategyInput) Validate() error {
	if in.Name == "" {
		return ErrStrategyNameRequired
	}
	if in.RSILower >= in.RSIUpper {
		return ErrThresholdOrder
	}
	if in.TradeAmount <= 0 {
		return ErrTradeAmount
	}
	for _, opt := range ExpiryOptions {
		if in.ExpiryTime == opt {
			return nil
		}
	}
	return fmt.Errorf("expiry time %ds is not supported", in.ExpiryTime)
}
