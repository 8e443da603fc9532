package mockapi

import (
	"testing"

	"pocket-panel/internal/domain"
)

func risingPrices(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + float64(i)
	}
	return prices
}

func TestRSIBounds(t *testing.T) {
	series := rsi(risingPrices(50), 14)
	for i, v := range series {
		if v < 0 || v > 100 {
			t.Fatalf("rsi[%d] = %f out of bounds", i, v)
		}
	}
	if last := series[len(series)-1]; last < 90 {
		t.Fatalf("monotonic rise should put RSI near 100, got %f", last)
	}
}

func TestRSIShortSeries(t *testing.T) {
	if got := rsi(nil, 14); len(got) != 0 {
		t.Fatalf("empty input should give empty output, got %d values", len(got))
	}
	series := rsi([]float64{100, 101, 102}, 14)
	for _, v := range series {
		if v != 0 {
			t.Fatalf("series shorter than the period should stay zero, got %f", v)
		}
	}
}

func TestTradingSignalCallOnFallFromOverbought(t *testing.T) {
	// Long rise pushes RSI above the upper threshold, then a dip makes it
	// fall while still overbought.
	prices := risingPrices(60)
	prices = append(prices, prices[len(prices)-1]-0.5)

	if got := tradingSignal(prices, 60, 40); got != domain.SignalCall {
		t.Fatalf("expected CALL, got %q", got)
	}
}

func TestTradingSignalNoneWhileRising(t *testing.T) {
	if got := tradingSignal(risingPrices(60), 60, 40); got != "" {
		t.Fatalf("rising RSI must not fire, got %q", got)
	}
}

func TestTradingSignalPutOnFallBelowOversold(t *testing.T) {
	// Rise first, then sell off with growing losses so the RSI keeps
	// falling once it is under the lower threshold.
	prices := risingPrices(30)
	for j := 1; j <= 30; j++ {
		prices = append(prices, prices[len(prices)-1]-(1+0.1*float64(j)))
	}
	if got := tradingSignal(prices, 60, 40); got != domain.SignalPut {
		t.Fatalf("expected PUT, got %q", got)
	}
}

func TestRandomWalkLength(t *testing.T) {
	if got := randomWalk(100); len(got) != 100 {
		t.Fatalf("expected 100 prices, got %d", len(got))
	}
}
