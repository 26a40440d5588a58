package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"TradeView/internal/chart"
	"TradeView/internal/dataset"
	"TradeView/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const apiBasePath = "/api/v1"

// DataSource exposes the currently loaded rows.
type DataSource interface {
	Snapshot() dataset.Snapshot
}

// SettingsService reads and writes display settings.
type SettingsService interface {
	Get() model.Settings
	Update(ctx context.Context, s model.Settings) (model.Settings, error)
}

// Reloader starts an asynchronous data reload.
type Reloader interface {
	Trigger()
}

// Options are the knobs of the HTTP surface.
type Options struct {
	ChartWidth  int
	ChartHeight int
	// Cache is optional. A nil Cache disables response caching.
	Cache    Cache
	CacheTTL time.Duration
}

type Handler struct {
	router   *gin.Engine
	data     DataSource
	settings SettingsService
	reloader Reloader
	cache    Cache
	cacheTTL time.Duration
	width    int
	height   int
	log      logrus.FieldLogger
}

func NewHandler(data DataSource, settings SettingsService, reloader Reloader, opts Options, log logrus.FieldLogger) *Handler {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &Handler{
		router:   router,
		data:     data,
		settings: settings,
		reloader: reloader,
		cache:    opts.Cache,
		cacheTTL: opts.CacheTTL,
		width:    opts.ChartWidth,
		height:   opts.ChartHeight,
		log:      log.WithField("component", "http"),
	}
	router.Use(h.requestLogger())
	router.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")))
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	h.router.GET("/", h.seasonalityPage)
	h.router.GET("/seasonality", h.seasonalityPage)
	h.router.GET("/markets", h.marketsPage)
	h.router.GET("/analysis", h.analysisPage)
	h.router.GET("/settings", h.settingsPage)
	h.router.POST("/settings", h.saveSettingsForm)

	images := h.router.Group("/")
	if h.cache != nil {
		images.Use(h.cacheMiddleware())
	}
	{
		images.GET("/chart.svg", h.chartImage(chart.FormatSVG))
		images.GET("/chart.png", h.chartImage(chart.FormatPNG))
	}

	api := h.router.Group(apiBasePath)
	{
		api.GET("/settings", h.getSettings)
		api.PUT("/settings", h.updateSettings)
		api.GET("/status", h.getStatus)
		api.POST("/reload", h.reload)

		catalog := api.Group("")
		if h.cache != nil {
			catalog.Use(h.cacheMiddleware())
		}
		{
			catalog.GET("/exchanges", h.getExchanges)
			catalog.GET("/instruments", h.getInstruments)
			catalog.GET("/series", h.getSeries)
		}
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start),
		}).Debug("request")
	}
}
