// Package seasonal derives the exchange/instrument catalog from price rows
// and reshapes one instrument's history into per-day-of-year records.
package seasonal

import (
	"slices"

	"TradeView/internal/model"
)

// Build filters rows to exchange/instrument and groups them by day of year.
// Each record carries one value per year that had a row on that day. When a
// year has several rows for the same day the last one wins. The result is
// ordered by month, then day, and is empty when nothing is selected.
func Build(rows []model.PriceRow, exchange, instrument string) []model.ChartRecord {
	if exchange == "" || instrument == "" {
		return []model.ChartRecord{}
	}

	byDay := make(map[model.DayKey]*model.ChartRecord)
	for _, r := range rows {
		if r.Exchange != exchange || r.InstrumentName != instrument {
			continue
		}
		key := model.DayKeyOf(r.Date)
		rec, ok := byDay[key]
		if !ok {
			rec = &model.ChartRecord{
				Day:     key,
				Values:  make(map[int]float64),
				Candles: make(map[int]model.OHLC),
			}
			byDay[key] = rec
		}
		year := r.Year()
		rec.Values[year] = r.Close
		rec.Candles[year] = r.OHLC()
	}

	out := make([]model.ChartRecord, 0, len(byDay))
	for _, rec := range byDay {
		out = append(out, *rec)
	}
	slices.SortFunc(out, func(a, b model.ChartRecord) int {
		switch {
		case a.Day.Less(b.Day):
			return -1
		case b.Day.Less(a.Day):
			return 1
		}
		return 0
	})
	return out
}

// Years returns every year that contributes a value to records, ascending.
func Years(records []model.ChartRecord) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, rec := range records {
		for y := range rec.Values {
			if _, ok := seen[y]; ok {
				continue
			}
			seen[y] = struct{}{}
			out = append(out, y)
		}
	}
	slices.Sort(out)
	return out
}
