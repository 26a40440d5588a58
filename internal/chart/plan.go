package chart

import (
	"TradeView/internal/model"
	"TradeView/internal/seasonal"
)

const candlestickType = model.ChartCandlestick

// Series is one year's worth of points, already filtered to days the year
// actually has. Missing days are simply absent.
type Series struct {
	Year    int
	Color   string
	Days    []model.DayKey
	Close   []float64
	Candles []model.OHLC
}

// Plan is everything needed to draw one chart.
type Plan struct {
	Title  string
	Type   model.ChartType
	Scheme model.ColorScheme
	Years  []int
	Series []Series
}

// Empty reports whether there is nothing to draw.
func (p Plan) Empty() bool { return len(p.Series) == 0 }

// NewPlan picks the series to draw from records. Colours are assigned over
// every year in records, so toggling years on and off never recolours the
// rest. Years with no value are skipped.
func NewPlan(records []model.ChartRecord, sel model.Selection, scheme model.ColorScheme) Plan {
	ct := sel.ChartType
	if ct == "" {
		ct = model.ChartLine
	}
	years := seasonal.Years(records)
	p := Plan{
		Title:  sel.Exchange + " / " + sel.Instrument,
		Type:   ct,
		Scheme: scheme,
		Years:  years,
	}
	for _, y := range years {
		if !sel.YearSelected(y) {
			continue
		}
		s := Series{Year: y, Color: ColorFor(scheme, years, y)}
		for _, rec := range records {
			v, ok := rec.Values[y]
			if !ok {
				continue
			}
			s.Days = append(s.Days, rec.Day)
			s.Close = append(s.Close, v)
			s.Candles = append(s.Candles, rec.Candles[y])
		}
		if len(s.Days) > 0 {
			p.Series = append(p.Series, s)
		}
	}
	return p
}
