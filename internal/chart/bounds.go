package chart

import (
	"errors"
	"math"
)

// valueRange scans every plotted value (lows and highs for candles) and
// returns the extremes.
func valueRange(p Plan) (low, high float64, err error) {
	low = math.Inf(1)
	high = math.Inf(-1)
	seen := false
	for _, s := range p.Series {
		for i := range s.Days {
			lo, hi := s.Close[i], s.Close[i]
			if p.Type == candlestickType {
				lo, hi = s.Candles[i].Low, s.Candles[i].High
			}
			if lo < low {
				low = lo
			}
			if hi > high {
				high = hi
			}
			seen = true
		}
	}
	if !seen {
		return 0, 0, errors.New("no values to bound")
	}
	return low, high, nil
}

// padRange widens [low, high] by 5% on each side. A flat range is widened
// around its value so the axis never collapses.
func padRange(low, high float64) (float64, float64) {
	if high < low {
		low, high = high, low
	}
	span := high - low
	if span == 0 {
		span = math.Abs(low) * 0.02
		if span == 0 {
			span = 2
		}
		return low - span/2, high + span/2
	}
	pad := span * 0.05
	return low - pad, high + pad
}
