package server

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"TradeView/internal/apperrors"
	"TradeView/internal/model"

	"github.com/gin-gonic/gin"
)

// parseSelection reads the selection query parameters. Invalid year values
// are dropped. An unknown chart type is an error; HTML handlers fall back to
// line themselves.
func parseSelection(c *gin.Context) (model.Selection, error) {
	sel := model.Selection{
		Exchange:   c.Query("exchange"),
		Instrument: c.Query("instrument"),
		Years:      parseYears(c.QueryArray("years")),
	}
	if prev, ok := c.GetQuery("prev_exchange"); ok {
		exchange := sel.Exchange
		sel.Exchange = prev
		sel = sel.WithExchange(exchange)
	}

	ct, err := model.ParseChartType(c.Query("type"))
	if err != nil {
		sel.ChartType = model.ChartLine
		return sel, apperrors.Wrap(apperrors.CodeInvalidParameter, "type", err)
	}
	sel.ChartType = ct
	return sel, nil
}

func parseYears(raw []string) []int {
	var years []int
	for _, v := range raw {
		for _, part := range strings.Split(v, ",") {
			y, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || y <= 0 {
				continue
			}
			years = append(years, y)
		}
	}
	slices.Sort(years)
	return slices.Compact(years)
}

// selectionQuery encodes sel back into query parameters.
func selectionQuery(sel model.Selection) string {
	q := url.Values{}
	q.Set("exchange", sel.Exchange)
	q.Set("instrument", sel.Instrument)
	if sel.ChartType != "" {
		q.Set("type", string(sel.ChartType))
	}
	if len(sel.Years) > 0 {
		parts := make([]string, len(sel.Years))
		for i, y := range sel.Years {
			parts[i] = strconv.Itoa(y)
		}
		q.Set("years", strings.Join(parts, ","))
	}
	return q.Encode()
}
