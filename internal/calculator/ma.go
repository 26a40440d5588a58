package calculator

import (
	"errors"

	"TradeView/internal/model"
)

// Mean computes the simple average of values.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("not enough data for mean calculation")
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values)), nil
}

// SeasonalMean averages the closes of rec over years. Years without a value
// on that day are skipped; ok is false when none of them has one.
func SeasonalMean(rec model.ChartRecord, years []int) (mean float64, ok bool) {
	closes := make([]float64, 0, len(years))
	for _, y := range years {
		if v, has := rec.Values[y]; has {
			closes = append(closes, v)
		}
	}
	m, err := Mean(closes)
	if err != nil {
		return 0, false
	}
	return m, true
}
