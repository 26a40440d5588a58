package calculator

import (
	"errors"
	"math"

	"TradeView/internal/model"
)

// Range scans rows and returns the highest high and the lowest low.
func Range(rows []model.PriceRow) (high, low float64, err error) {
	if len(rows) == 0 {
		return 0, 0, errors.New("no rows provided")
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, r := range rows {
		if r.High > high {
			high = r.High
		}
		if r.Low < low {
			low = r.Low
		}
	}
	return high, low, nil
}

// Position returns where current sits within [low, high] (0.0~1.0).
func Position(current, high, low float64) (float64, error) {
	if high == low {
		return 0.5, nil
	}
	if high < low {
		return 0, errors.New("high must be >= low")
	}
	pos := (current - low) / (high - low)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, nil
}
