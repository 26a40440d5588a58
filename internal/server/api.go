package server

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"TradeView/internal/calculator"
	"TradeView/internal/chart"
	"TradeView/internal/model"
	"TradeView/internal/seasonal"

	"github.com/gin-gonic/gin"
)

type settingsPayload struct {
	Mode   string `json:"mode" binding:"required,oneof=light dark"`
	Scheme string `json:"color_scheme" binding:"required,oneof=blue green purple orange"`
}

type seriesRecord struct {
	model.ChartRecord
	// Mean is the average close over the selected years, absent when none
	// of them traded that day.
	Mean    *float64 `json:"mean,omitempty"`
	Tooltip string   `json:"tooltip"`
}

type seriesResponse struct {
	Exchange   string         `json:"exchange"`
	Instrument string         `json:"instrument"`
	ChartType  string         `json:"type"`
	Years      []int          `json:"years"`
	Selected   []int          `json:"selected_years"`
	Records    []seriesRecord `json:"records"`
}

type statusResponse struct {
	Loaded    bool       `json:"loaded"`
	Version   uint64     `json:"version"`
	Rows      int        `json:"rows"`
	LoadedAt  *time.Time `json:"loaded_at,omitempty"`
	LastError string     `json:"last_error,omitempty"`
}

func (h *Handler) getExchanges(c *gin.Context) {
	rows := h.data.Snapshot().Rows
	c.JSON(http.StatusOK, gin.H{"exchanges": seasonal.Filter(seasonal.Exchanges(rows), c.Query("q"))})
}

func (h *Handler) getInstruments(c *gin.Context) {
	rows := h.data.Snapshot().Rows
	instruments := seasonal.Instruments(rows, c.Query("exchange"))
	c.JSON(http.StatusOK, gin.H{"instruments": seasonal.Filter(instruments, c.Query("q"))})
}

func (h *Handler) getSeries(c *gin.Context) {
	sel, err := parseSelection(c)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}

	records := seasonal.Build(h.data.Snapshot().Rows, sel.Exchange, sel.Instrument)
	years := seasonal.Years(records)
	selected := make([]int, 0, len(years))
	for _, y := range years {
		if sel.YearSelected(y) {
			selected = append(selected, y)
		}
	}

	out := make([]seriesRecord, len(records))
	for i, rec := range records {
		out[i] = seriesRecord{ChartRecord: rec, Tooltip: chart.FormatDay(rec, selected)}
		if m, ok := calculator.SeasonalMean(rec, selected); ok {
			out[i].Mean = &m
		}
	}
	if years == nil {
		years = []int{}
	}
	c.JSON(http.StatusOK, seriesResponse{
		Exchange:   sel.Exchange,
		Instrument: sel.Instrument,
		ChartType:  string(sel.ChartType),
		Years:      years,
		Selected:   selected,
		Records:    out,
	})
}

func (h *Handler) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Get())
}

func (h *Handler) updateSettings(c *gin.Context) {
	var payload settingsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	s, err := h.settings.Update(c.Request.Context(), model.Settings{
		Mode:   model.ThemeMode(payload.Mode),
		Scheme: model.ColorScheme(payload.Scheme),
	})
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) getStatus(c *gin.Context) {
	snap := h.data.Snapshot()
	resp := statusResponse{
		Loaded:  snap.Loaded,
		Version: snap.Version,
		Rows:    len(snap.Rows),
	}
	if snap.Loaded {
		resp.LoadedAt = &snap.LoadedAt
	}
	if snap.LastErr != nil {
		resp.LastError = snap.LastErr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) reload(c *gin.Context) {
	h.reloader.Trigger()
	c.JSON(http.StatusAccepted, gin.H{"status": "reloading"})
}

// chartImage renders the query selection. An empty selection or a selection
// with nothing to draw answers 204 so the page can show its placeholder.
func (h *Handler) chartImage(format chart.Format) gin.HandlerFunc {
	return func(c *gin.Context) {
		sel, err := parseSelection(c)
		if err != nil {
			writeError(c, statusFor(err), err)
			return
		}
		if !sel.Ready() {
			c.Status(http.StatusNoContent)
			return
		}

		var buf bytes.Buffer
		if err := h.render(&buf, sel, format); err != nil {
			if errors.Is(err, chart.ErrNoData) {
				c.Status(http.StatusNoContent)
				return
			}
			h.log.WithError(err).Error("render chart")
			writeError(c, statusFor(err), err)
			return
		}
		c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
	}
}

func (h *Handler) render(buf *bytes.Buffer, sel model.Selection, format chart.Format) error {
	s := h.settings.Get()
	records := seasonal.Build(h.data.Snapshot().Rows, sel.Exchange, sel.Instrument)
	plan := chart.NewPlan(records, sel, s.Scheme)
	return chart.Render(buf, plan, chart.Options{
		Format: format,
		Width:  h.width,
		Height: h.height,
		Mode:   s.Mode,
	})
}
