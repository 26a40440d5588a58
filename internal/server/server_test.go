package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"TradeView/internal/dataset"
	"TradeView/internal/model"
	"TradeView/internal/settings"
	"TradeView/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeReloader struct{ calls atomic.Int32 }

func (f *fakeReloader) Trigger() { f.calls.Add(1) }

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = append([]byte(nil), value...)
	m.sets++
	return nil
}

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixtureRows() []model.PriceRow {
	return []model.PriceRow{
		{Date: day("2021-01-04"), Exchange: "NYSE", InstrumentName: "AAPL", Open: 10, High: 12, Low: 9, Close: 11},
		{Date: day("2022-01-04"), Exchange: "NYSE", InstrumentName: "AAPL", Open: 20, High: 22, Low: 19, Close: 21},
		{Date: day("2022-03-01"), Exchange: "NYSE", InstrumentName: "MSFT", Open: 30, High: 31, Low: 29, Close: 30},
		{Date: day("2023-05-02"), Exchange: "LSE", InstrumentName: "BP", Open: 4, High: 5, Low: 3, Close: 4.5},
	}
}

type ServerTestSuite struct {
	suite.Suite
	store    *dataset.Store
	settings *settings.Manager
	reloader *fakeReloader
	cache    *memCache
	handler  *Handler
}

func TestServerSuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(ServerTestSuite))
}

func (s *ServerTestSuite) SetupTest() {
	log, _ := test.NewNullLogger()
	s.store = dataset.NewStore()
	s.store.Replace(fixtureRows())
	s.settings = settings.NewManager(context.Background(), store.NewMemoryKV(), log)
	s.reloader = &fakeReloader{}
	s.cache = &memCache{entries: make(map[string][]byte)}
	s.handler = NewHandler(s.store, s.settings, s.reloader, Options{
		ChartWidth:  640,
		ChartHeight: 320,
		Cache:       s.cache,
		CacheTTL:    time.Minute,
	}, log)
}

func (s *ServerTestSuite) do(method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if method == http.MethodPut {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost && body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	w := httptest.NewRecorder()
	s.handler.ServeHTTP(w, req)
	return w
}

func (s *ServerTestSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v))
}

func (s *ServerTestSuite) TestHealthz() {
	w := s.do(http.MethodGet, "/healthz", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"status":"ok"}`, w.Body.String())
}

func (s *ServerTestSuite) TestExchanges() {
	w := s.do(http.MethodGet, "/api/v1/exchanges", "")
	s.Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"exchanges":["LSE","NYSE"]}`, w.Body.String())
}

func (s *ServerTestSuite) TestInstruments() {
	w := s.do(http.MethodGet, "/api/v1/instruments?exchange=NYSE", "")
	s.JSONEq(`{"instruments":["AAPL","MSFT"]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/instruments", "")
	s.JSONEq(`{"instruments":[]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/instruments?exchange=nyse", "")
	s.JSONEq(`{"instruments":[]}`, w.Body.String())
}

func (s *ServerTestSuite) TestCatalogSearch() {
	w := s.do(http.MethodGet, "/api/v1/exchanges?q=ny", "")
	s.JSONEq(`{"exchanges":["NYSE"]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/exchanges?q=nasdaq", "")
	s.JSONEq(`{"exchanges":[]}`, w.Body.String())

	w = s.do(http.MethodGet, "/api/v1/instruments?exchange=NYSE&q=ms", "")
	s.JSONEq(`{"instruments":["MSFT"]}`, w.Body.String())

	// the search never loosens the exchange match
	w = s.do(http.MethodGet, "/api/v1/instruments?exchange=nyse&q=a", "")
	s.JSONEq(`{"instruments":[]}`, w.Body.String())
}

func (s *ServerTestSuite) TestSeries() {
	w := s.do(http.MethodGet, "/api/v1/series?exchange=NYSE&instrument=AAPL&years=2022", "")
	s.Require().Equal(http.StatusOK, w.Code)

	var resp struct {
		Years    []int `json:"years"`
		Selected []int `json:"selected_years"`
		Records  []struct {
			Day     string             `json:"day"`
			Values  map[string]float64 `json:"values"`
			Mean    *float64           `json:"mean"`
			Tooltip string             `json:"tooltip"`
		} `json:"records"`
	}
	s.decode(w, &resp)
	s.Equal([]int{2021, 2022}, resp.Years)
	s.Equal([]int{2022}, resp.Selected)
	s.Require().Len(resp.Records, 1)
	s.Equal("01-04", resp.Records[0].Day)
	s.Equal(11.0, resp.Records[0].Values["2021"])
	s.Require().NotNil(resp.Records[0].Mean)
	s.Equal(21.0, *resp.Records[0].Mean)
	s.Equal("01-04\n2022: O 20.00 H 22.00 L 19.00 C 21.00", resp.Records[0].Tooltip)
}

func (s *ServerTestSuite) TestSeriesEmptySelection() {
	w := s.do(http.MethodGet, "/api/v1/series?exchange=NYSE", "")
	s.Equal(http.StatusOK, w.Code)
	var resp struct {
		Years   []int `json:"years"`
		Records []any `json:"records"`
	}
	s.decode(w, &resp)
	s.Empty(resp.Years)
	s.Empty(resp.Records)
}

func (s *ServerTestSuite) TestSeriesBadType() {
	w := s.do(http.MethodGet, "/api/v1/series?exchange=NYSE&instrument=AAPL&type=pie", "")
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *ServerTestSuite) TestChartImage() {
	w := s.do(http.MethodGet, "/chart.svg?exchange=NYSE&instrument=AAPL", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/svg+xml", w.Header().Get("Content-Type"))
	s.Contains(w.Body.String(), "<svg")

	w = s.do(http.MethodGet, "/chart.png?exchange=NYSE&instrument=AAPL&type=candlestick", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("image/png", w.Header().Get("Content-Type"))
	s.True(strings.HasPrefix(w.Body.String(), "\x89PNG"))
}

func (s *ServerTestSuite) TestChartImageNoData() {
	for _, target := range []string{
		"/chart.svg",
		"/chart.svg?exchange=NYSE",
		"/chart.svg?exchange=NYSE&instrument=TSLA",
		"/chart.svg?exchange=NYSE&instrument=AAPL&years=1999",
		"/chart.svg?exchange=LSE&instrument=AAPL&prev_exchange=NYSE",
	} {
		w := s.do(http.MethodGet, target, "")
		s.Equal(http.StatusNoContent, w.Code, target)
		s.Zero(w.Body.Len(), target)
	}
}

func (s *ServerTestSuite) TestCacheHit() {
	target := "/chart.svg?exchange=NYSE&instrument=AAPL"
	first := s.do(http.MethodGet, target, "")
	s.Require().Equal(http.StatusOK, first.Code)
	s.Equal(1, s.cache.sets)

	second := s.do(http.MethodGet, target, "")
	s.Equal(http.StatusOK, second.Code)
	s.Equal("HIT", second.Header().Get("X-Cache"))
	s.Equal("image/svg+xml", second.Header().Get("Content-Type"))
	s.Equal(first.Body.String(), second.Body.String())

	// a new data set version misses the old entry
	s.store.Replace(fixtureRows())
	third := s.do(http.MethodGet, target, "")
	s.Empty(third.Header().Get("X-Cache"))
	s.Equal(2, s.cache.sets)
}

func (s *ServerTestSuite) TestNoContentNotCached() {
	s.do(http.MethodGet, "/chart.svg?exchange=NYSE", "")
	s.Zero(s.cache.sets)
}

func (s *ServerTestSuite) TestSettingsAPI() {
	w := s.do(http.MethodGet, "/api/v1/settings", "")
	s.JSONEq(`{"mode":"light","color_scheme":"blue"}`, w.Body.String())

	w = s.do(http.MethodPut, "/api/v1/settings", `{"mode":"dark","color_scheme":"purple"}`)
	s.Require().Equal(http.StatusOK, w.Code)
	s.JSONEq(`{"mode":"dark","color_scheme":"purple"}`, w.Body.String())
	s.Equal(model.Settings{Mode: model.ThemeDark, Scheme: model.SchemePurple}, s.settings.Get())

	w = s.do(http.MethodPut, "/api/v1/settings", `{"mode":"sepia","color_scheme":"purple"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPut, "/api/v1/settings", `{"mode":"dark"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal(model.ThemeDark, s.settings.Get().Mode)
}

func (s *ServerTestSuite) TestStatusAndReload() {
	s.store.MarkFailed(errors.New("status 503"))

	w := s.do(http.MethodGet, "/api/v1/status", "")
	var resp statusResponse
	s.decode(w, &resp)
	s.True(resp.Loaded)
	s.Equal(uint64(1), resp.Version)
	s.Equal(4, resp.Rows)
	s.Equal("status 503", resp.LastError)

	w = s.do(http.MethodPost, "/api/v1/reload", "")
	s.Equal(http.StatusAccepted, w.Code)
	s.Equal(int32(1), s.reloader.calls.Load())
}

func (s *ServerTestSuite) TestSeasonalityPagePlaceholder() {
	w := s.do(http.MethodGet, "/", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, placeholderText)
	s.Contains(body, `data-theme="light"`)
	s.Contains(body, `data-scheme="blue"`)
	s.Contains(body, `<a href="/seasonality" class="active">`)
	s.NotContains(body, `<img class="chart"`)
}

func (s *ServerTestSuite) TestSeasonalityPageWithChart() {
	w := s.do(http.MethodGet, "/seasonality?exchange=NYSE&instrument=AAPL&type=bogus&years=2021", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, `<img class="chart"`)
	s.Contains(body, "/chart.svg?")
	s.Contains(body, `value="2022"`)
	s.NotContains(body, placeholderText)
}

func (s *ServerTestSuite) TestSeasonalityPageExchangeChangeResetsInstrument() {
	w := s.do(http.MethodGet, "/seasonality?exchange=LSE&instrument=AAPL&prev_exchange=NYSE", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, placeholderText)
	s.Contains(body, `<option value="BP">BP</option>`)
}

func (s *ServerTestSuite) TestSeasonalityPageYearsWithoutData() {
	w := s.do(http.MethodGet, "/seasonality?exchange=NYSE&prev_exchange=NYSE&instrument=AAPL&years=2019", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, placeholderText)
	s.NotContains(body, `<img class="chart"`)
	s.Contains(body, `value="2021"`)

	w = s.do(http.MethodGet, "/chart.svg?exchange=NYSE&instrument=AAPL&years=2019", "")
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *ServerTestSuite) TestSeasonalityPageSearch() {
	w := s.do(http.MethodGet, "/seasonality?exchange=NYSE&prev_exchange=NYSE&instrument_q=MS", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body := w.Body.String()
	s.Contains(body, `<option value="MSFT">MSFT</option>`)
	s.NotContains(body, `<option value="AAPL">`)
	s.Contains(body, `name="instrument_q" value="MS"`)

	// the current choice survives a search that would hide it
	w = s.do(http.MethodGet, "/seasonality?exchange=NYSE&prev_exchange=NYSE&instrument=AAPL&instrument_q=ms&exchange_q=lse", "")
	s.Require().Equal(http.StatusOK, w.Code)
	body = w.Body.String()
	s.Contains(body, `<option value="AAPL" selected>AAPL</option>`)
	s.Contains(body, `<option value="NYSE" selected>NYSE</option>`)
	s.Contains(body, `<option value="LSE">LSE</option>`)
	s.Contains(body, `<img class="chart"`)
}

func (s *ServerTestSuite) TestMarketsAndAnalysisPages() {
	w := s.do(http.MethodGet, "/markets", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "MSFT")
	s.Contains(w.Body.String(), `<a href="/markets" class="active">`)

	w = s.do(http.MethodGet, "/analysis", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "4 price rows across 3 markets")
	s.Contains(w.Body.String(), "Recent Activity")
}

func (s *ServerTestSuite) TestSettingsForm() {
	w := s.do(http.MethodGet, "/settings", "")
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `name="color_scheme" value="orange"`)

	form := url.Values{"mode": {"dark"}, "color_scheme": {"green"}}
	w = s.do(http.MethodPost, "/settings", form.Encode())
	s.Equal(http.StatusSeeOther, w.Code)
	s.Equal("/settings?saved=1", w.Header().Get("Location"))
	s.Equal(model.Settings{Mode: model.ThemeDark, Scheme: model.SchemeGreen}, s.settings.Get())

	w = s.do(http.MethodGet, "/settings?saved=1", "")
	s.Contains(w.Body.String(), `data-theme="dark"`)
	s.Contains(w.Body.String(), "Settings saved.")

	form = url.Values{"mode": {"dark"}, "color_scheme": {"teal"}}
	w = s.do(http.MethodPost, "/settings", form.Encode())
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "unknown color scheme")
}

func TestMenu(t *testing.T) {
	items := Menu("/")
	require.Len(t, items, 4)
	assert.True(t, items[0].Active)
	assert.Equal(t, "analytics", items[0].Icon)

	items = Menu("/settings")
	assert.False(t, items[0].Active)
	assert.True(t, items[3].Active)
	assert.Equal(t, "settings", items[3].Icon)

	for _, it := range Menu("/nowhere") {
		assert.False(t, it.Active)
	}
}

func TestParseYears(t *testing.T) {
	assert.Equal(t, []int{2020, 2021, 2023}, parseYears([]string{"2023,2021", "x", "2020", "2021", "-5"}))
	assert.Empty(t, parseYears(nil))
}
