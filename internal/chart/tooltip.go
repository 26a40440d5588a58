package chart

import (
	"fmt"
	"strings"

	"TradeView/internal/model"
)

// FormatDay renders the hover text for one day: the date, then one line per
// year that has a value on that day.
func FormatDay(rec model.ChartRecord, years []int) string {
	var b strings.Builder
	b.WriteString(rec.Day.String())
	for _, y := range years {
		v, ok := rec.Values[y]
		if !ok {
			continue
		}
		c, ok := rec.Candles[y]
		if !ok {
			b.WriteString(fmt.Sprintf("\n%d: C %.2f", y, v))
			continue
		}
		b.WriteString(fmt.Sprintf("\n%d: O %.2f H %.2f L %.2f C %.2f", y, c.Open, c.High, c.Low, c.Close))
	}
	return b.String()
}
