package model

import "time"

// PriceRow is one parsed line of the historical price CSV.
type PriceRow struct {
	Date           time.Time
	Exchange       string
	InstrumentName string
	Open           float64
	High           float64
	Low            float64
	Close          float64
}

// Year returns the calendar year the row belongs to.
func (r PriceRow) Year() int { return r.Date.Year() }

// OHLC returns the row's prices as a candle.
func (r PriceRow) OHLC() OHLC {
	return OHLC{Open: r.Open, High: r.High, Low: r.Low, Close: r.Close}
}

// OHLC holds the open/high/low/close prices of one trading day.
type OHLC struct {
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Up reports whether the candle closed above its open.
func (c OHLC) Up() bool { return c.Close > c.Open }

// MarketSummary describes the rows available for one exchange/instrument pair.
type MarketSummary struct {
	Exchange   string    `json:"exchange"`
	Instrument string    `json:"instrument"`
	Rows       int       `json:"rows"`
	First      time.Time `json:"first"`
	Last       time.Time `json:"last"`
	Years      []int     `json:"years"`
	High       float64   `json:"high"`
	Low        float64   `json:"low"`
	LastClose  float64   `json:"last_close"`
	// Position is where LastClose sits within [Low, High], from 0 to 1.
	Position float64 `json:"position"`
}
