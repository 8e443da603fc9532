package domain

import (
	"errors"
	"testing"
)

func validStrategyInput() StrategyInput {
	return StrategyInput{
		Name:        "RSI Strategy",
		RSIUpper:    60,
		RSILower:    40,
		TradeAmount: 10,
		ExpiryTime:  60,
	}
}

func TestStrategyInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StrategyInput)
		wantErr error
	}{
		{"valid", func(in *StrategyInput) {}, nil},
		{"missing name", func(in *StrategyInput) { in.Name = "" }, ErrStrategyNameRequired},
		{"lower above upper", func(in *StrategyInput) { in.RSILower = 70 }, ErrThresholdOrder},
		{"lower equals upper", func(in *StrategyInput) { in.RSILower = 60 }, ErrThresholdOrder},
		{"zero amount", func(in *StrategyInput) { in.TradeAmount = 0 }, ErrTradeAmount},
		{"negative amount", func(in *StrategyInput) { in.TradeAmount = -5 }, ErrTradeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validStrategyInput()
			tt.mutate(&in)
			err := in.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStrategyInputValidateExpiry(t *testing.T) {
	in := validStrategyInput()
	in.ExpiryTime = 45
	if err := in.Validate(); err == nil {
		t.Fatal("expected error for unsupported expiry")
	}

	for _, opt := range ExpiryOptions {
		in.ExpiryTime = opt
		if err := in.Validate(); err != nil {
			t.Fatalf("expiry %d should be valid: %v", opt, err)
		}
	}
}

func TestAccountInputValidate(t *testing.T) {
	in := AccountInput{AccountName: "Demo", Username: "alice@example.com", Password: "pw", IsDemo: true}
	if err := in.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.Password = ""
	if !errors.Is(in.Validate(), ErrPasswordRequired) {
		t.Fatal("expected password error")
	}
}

func TestSelectionComplete(t *testing.T) {
	var sel Selection
	if sel.Complete() {
		t.Fatal("empty selection should not be complete")
	}
	sel.AccountID = "a1"
	if sel.Complete() {
		t.Fatal("selection without strategy should not be complete")
	}
	sel.StrategyID = "s1"
	if !sel.Complete() {
		t.Fatal("selection with both ids should be complete")
	}
}

func TestTradeRecordPending(t *testing.T) {
	if !(TradeRecord{}).Pending() {
		t.Fatal("empty result should be pending")
	}
	if (TradeRecord{Result: ResultWin}).Pending() {
		t.Fatal("WIN should not be pending")
	}
}
