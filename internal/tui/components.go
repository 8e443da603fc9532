package tui

import (
	"fmt"
	"time"

	"pocket-panel/internal/domain"
)

// FormatTrade renders a trade record as a single line.
func FormatTrade(t domain.TradeRecord) string {
	signal := CallStyle.Render(string(domain.SignalCall))
	if t.SignalType == domain.SignalPut {
		signal = PutStyle.Render(string(domain.SignalPut))
	}

	result := PendingStyle.Render("PENDING")
	switch t.Result {
	case domain.ResultWin:
		result = WinStyle.Render(domain.ResultWin)
	case domain.ResultLoss:
		result = LossStyle.Render(domain.ResultLoss)
	}

	return fmt.Sprintf("%s %-10s %s  $%-8.2f %3ds  %s",
		t.CreatedAt.Format(time.RFC822),
		t.Asset,
		signal,
		t.Amount,
		t.ExpiryTime,
		result,
	)
}
