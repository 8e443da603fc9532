package mockapi

import (
	"math/rand"

	"pocket-panel/internal/domain"
)

// rsi computes a Wilder-smoothed RSI over the close series. Index i holds
// the RSI as of prices[i]; entries before one full period are zero.
func rsi(prices []float64, n int) []float64 {
	out := make([]float64, len(prices))
	if n <= 0 || len(prices) == 0 {
		return out
	}
	var gain, loss float64
	for i := 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if i <= n {
			if d > 0 {
				gain += d
			} else {
				loss -= d
			}
			if i == n {
				out[i] = rsiValue(gain/float64(n), loss/float64(n))
			}
			continue
		}
		if d > 0 {
			gain = (gain*float64(n-1) + d) / float64(n)
			loss = (loss * float64(n-1)) / float64(n)
		} else {
			gain = (gain * float64(n-1)) / float64(n)
			loss = (loss*float64(n-1) - d) / float64(n)
		}
		out[i] = rsiValue(gain, loss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// tradingSignal applies the backend's rule: a signal fires only while RSI is
// falling, CALL above the upper threshold and PUT below the lower one.
func tradingSignal(prices []float64, upper, lower float64) domain.SignalType {
	series := rsi(prices, 14)
	if len(series) < 2 {
		return ""
	}
	current := series[len(series)-1]
	previous := series[len(series)-2]
	if current >= previous {
		return ""
	}
	if current > upper {
		return domain.SignalCall
	}
	if current < lower {
		return domain.SignalPut
	}
	return ""
}

// randomWalk generates the mock price series the simulation runs on,
// normally distributed around 100.
func randomWalk(n int) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = 100 + rand.NormFloat64()*2
	}
	return prices
}
