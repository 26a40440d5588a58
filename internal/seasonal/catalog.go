package seasonal

import (
	"slices"
	"strings"

	"TradeView/internal/calculator"
	"TradeView/internal/model"
)

// Exchanges returns the distinct exchanges in rows, sorted.
func Exchanges(rows []model.PriceRow) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		if _, ok := seen[r.Exchange]; ok {
			continue
		}
		seen[r.Exchange] = struct{}{}
		out = append(out, r.Exchange)
	}
	slices.Sort(out)
	return out
}

// Instruments returns the distinct instruments listed on exchange, sorted.
// The exchange match is exact and case-sensitive.
func Instruments(rows []model.PriceRow, exchange string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, r := range rows {
		if r.Exchange != exchange {
			continue
		}
		if _, ok := seen[r.InstrumentName]; ok {
			continue
		}
		seen[r.InstrumentName] = struct{}{}
		out = append(out, r.InstrumentName)
	}
	slices.Sort(out)
	return out
}

// Filter keeps the values containing q, ignoring case. An empty q keeps
// everything.
func Filter(values []string, q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return values
	}
	out := []string{}
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), q) {
			out = append(out, v)
		}
	}
	return out
}

type pair struct{ exchange, instrument string }

// Summaries describes every exchange/instrument pair, ordered by exchange
// then instrument.
func Summaries(rows []model.PriceRow) []model.MarketSummary {
	index := make(map[pair]int)
	years := make(map[pair]map[int]struct{})
	groups := make(map[pair][]model.PriceRow)
	var out []model.MarketSummary
	for _, r := range rows {
		k := pair{r.Exchange, r.InstrumentName}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			years[k] = make(map[int]struct{})
			out = append(out, model.MarketSummary{
				Exchange:   r.Exchange,
				Instrument: r.InstrumentName,
				First:      r.Date,
				Last:       r.Date,
				LastClose:  r.Close,
			})
		}
		s := &out[i]
		s.Rows++
		if r.Date.Before(s.First) {
			s.First = r.Date
		}
		if !r.Date.Before(s.Last) {
			s.Last = r.Date
			s.LastClose = r.Close
		}
		years[k][r.Year()] = struct{}{}
		groups[k] = append(groups[k], r)
	}
	for i := range out {
		k := pair{out[i].Exchange, out[i].Instrument}
		for y := range years[k] {
			out[i].Years = append(out[i].Years, y)
		}
		slices.Sort(out[i].Years)

		// groups are never empty, so neither call can fail
		out[i].High, out[i].Low, _ = calculator.Range(groups[k])
		out[i].Position, _ = calculator.Position(out[i].LastClose, out[i].High, out[i].Low)
	}
	slices.SortFunc(out, func(a, b model.MarketSummary) int {
		if a.Exchange != b.Exchange {
			if a.Exchange < b.Exchange {
				return -1
			}
			return 1
		}
		switch {
		case a.Instrument < b.Instrument:
			return -1
		case a.Instrument > b.Instrument:
			return 1
		}
		return 0
	})
	return out
}
