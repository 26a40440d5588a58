package server

import (
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"time"

	"TradeView/internal/apperrors"
	"TradeView/internal/chart"
	"TradeView/internal/model"
	"TradeView/internal/seasonal"

	"github.com/gin-gonic/gin"
)

const placeholderText = "Select an exchange and instrument to view the chart"

var templateFuncs = template.FuncMap{
	"yearChecked": func(sel model.Selection, year int) bool { return sel.YearSelected(year) },
	"date":        func(t time.Time) string { return t.Format("2006-01-02") },
	"percent":     func(f float64) float64 { return f * 100 },
}

// page is the data every template receives.
type page struct {
	Title    string
	Nav      []NavItem
	Settings model.Settings
	Loaded   bool
	Error    string
}

func (h *Handler) newPage(c *gin.Context, title string) page {
	snap := h.data.Snapshot()
	return page{
		Title:    title,
		Nav:      Menu(c.Request.URL.Path),
		Settings: h.settings.Get(),
		Loaded:   snap.Loaded,
	}
}

type seasonalityView struct {
	page
	Selection   model.Selection
	ExchangeQ   string
	InstrumentQ string
	Exchanges   []string
	Instruments []string
	Years       []int
	ChartTypes  []model.ChartType
	ChartURL    string
	Placeholder string
}

func (h *Handler) seasonalityPage(c *gin.Context) {
	// an unknown chart type falls back to line here
	sel, _ := parseSelection(c)
	rows := h.data.Snapshot().Rows

	data := seasonalityView{
		page:        h.newPage(c, "Seasonality"),
		Selection:   sel,
		ExchangeQ:   c.Query("exchange_q"),
		InstrumentQ: c.Query("instrument_q"),
		ChartTypes:  []model.ChartType{model.ChartLine, model.ChartCandlestick},
		Placeholder: placeholderText,
	}
	data.Exchanges = keepSelected(seasonal.Filter(seasonal.Exchanges(rows), data.ExchangeQ), sel.Exchange)
	data.Instruments = keepSelected(seasonal.Filter(seasonal.Instruments(rows, sel.Exchange), data.InstrumentQ), sel.Instrument)
	if sel.Ready() {
		records := seasonal.Build(rows, sel.Exchange, sel.Instrument)
		data.Years = seasonal.Years(records)
		// selected years without values leave nothing to draw
		if !chart.NewPlan(records, sel, data.Settings.Scheme).Empty() {
			data.ChartURL = "/chart.svg?" + selectionQuery(sel)
		}
	}
	c.HTML(http.StatusOK, "seasonality.tmpl", data)
}

// keepSelected adds the current choice back when a search filtered it out,
// so the select still shows it.
func keepSelected(options []string, selected string) []string {
	if selected == "" || slices.Contains(options, selected) {
		return options
	}
	out := append(slices.Clone(options), selected)
	slices.Sort(out)
	return out
}

type marketsView struct {
	page
	Markets []model.MarketSummary
}

func (h *Handler) marketsPage(c *gin.Context) {
	c.HTML(http.StatusOK, "markets.tmpl", marketsView{
		page:    h.newPage(c, "Markets"),
		Markets: seasonal.Summaries(h.data.Snapshot().Rows),
	})
}

type card struct {
	Title   string
	Content string
}

type analysisView struct {
	page
	Cards []card
}

func (h *Handler) analysisPage(c *gin.Context) {
	snap := h.data.Snapshot()
	summaries := seasonal.Summaries(snap.Rows)

	activity := "No data loaded yet"
	if snap.Loaded {
		activity = "Data loaded at " + snap.LoadedAt.Format(time.RFC1123)
	}
	notice := "No alerts"
	if snap.LastErr != nil {
		notice = "Last load failed: " + snap.LastErr.Error()
	}
	years := 0
	for _, s := range summaries {
		years = max(years, len(s.Years))
	}

	c.HTML(http.StatusOK, "analysis.tmpl", analysisView{
		page: h.newPage(c, "Analysis"),
		Cards: []card{
			{Title: "Summary", Content: plural(len(snap.Rows), "price row") + " across " + plural(len(summaries), "market")},
			{Title: "Recent Activity", Content: activity},
			{Title: "Statistics", Content: plural(len(seasonal.Exchanges(snap.Rows)), "exchange") + ", up to " + plural(years, "year") + " per market"},
			{Title: "Notifications", Content: notice},
		},
	})
}

type settingsView struct {
	page
	Modes   []model.ThemeMode
	Schemes []model.ColorScheme
	Saved   bool
}

func (h *Handler) settingsData(c *gin.Context) settingsView {
	return settingsView{
		page:    h.newPage(c, "Settings"),
		Modes:   []model.ThemeMode{model.ThemeLight, model.ThemeDark},
		Schemes: slices.Clone(model.ColorSchemes),
	}
}

func (h *Handler) settingsPage(c *gin.Context) {
	data := h.settingsData(c)
	data.Saved = c.Query("saved") == "1"
	c.HTML(http.StatusOK, "settings.tmpl", data)
}

func (h *Handler) saveSettingsForm(c *gin.Context) {
	s := model.Settings{
		Mode:   model.ThemeMode(c.PostForm("mode")),
		Scheme: model.ColorScheme(c.PostForm("color_scheme")),
	}
	if _, err := h.settings.Update(c.Request.Context(), s); err != nil {
		data := h.settingsData(c)
		data.Error = err.Error()
		status := statusFor(err)
		if !apperrors.HasCode(err, apperrors.CodeInvalidSettings) {
			h.log.WithError(err).Error("save settings")
		}
		c.HTML(status, "settings.tmpl", data)
		return
	}
	c.Redirect(http.StatusSeeOther, "/settings?saved=1")
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
