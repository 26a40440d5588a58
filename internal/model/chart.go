package model

import (
	"fmt"
	"slices"
)

// ChartType selects how each year is drawn.
type ChartType string

const (
	ChartLine        ChartType = "line"
	ChartCandlestick ChartType = "candlestick"
)

// ParseChartType maps user input to a ChartType. Empty input means line.
func ParseChartType(s string) (ChartType, error) {
	switch ChartType(s) {
	case "", ChartLine:
		return ChartLine, nil
	case ChartCandlestick:
		return ChartCandlestick, nil
	default:
		return "", fmt.Errorf("unknown chart type %q", s)
	}
}

// ChartRecord holds every year's prices for one day of the year.
type ChartRecord struct {
	Day     DayKey          `json:"day"`
	Values  map[int]float64 `json:"values"`
	Candles map[int]OHLC    `json:"candles"`
}

// Years returns the years present in the record, ascending.
func (r ChartRecord) Years() []int {
	years := make([]int, 0, len(r.Values))
	for y := range r.Values {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Selection is the user's current view of the data.
type Selection struct {
	Exchange   string
	Instrument string
	ChartType  ChartType
	Years      []int
}

// WithExchange returns a copy pointed at exchange. Switching to a different
// exchange clears the instrument.
func (s Selection) WithExchange(exchange string) Selection {
	if exchange != s.Exchange {
		s.Instrument = ""
	}
	s.Exchange = exchange
	return s
}

// Ready reports whether both exchange and instrument are chosen.
func (s Selection) Ready() bool {
	return s.Exchange != "" && s.Instrument != ""
}

// YearSelected reports whether year should be drawn. No explicit years means all.
func (s Selection) YearSelected(year int) bool {
	if len(s.Years) == 0 {
		return true
	}
	return slices.Contains(s.Years, year)
}
