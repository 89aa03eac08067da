package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/middleware"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// RouterConfig wires services into the HTTP surface.
type RouterConfig struct {
	Generator SlideGenerator
	History   HistoryService
	Uploader  FileUploader
	Renderer  deck.Renderer
	Checks    map[string]Check
	Logger    *logger.Logger

	// StaticDir is served under StaticPath when set, for locally stored uploads.
	StaticDir  string
	StaticPath string

	RateLimitRequests int
	RateLimitWindow   time.Duration
	CORSOrigins       []string
}

// NewRouter builds the API router shared by the server and lambda entry points.
func NewRouter(cfg RouterConfig) http.Handler {
	generateHandler := NewGenerateHandler(cfg.Generator, cfg.Logger)
	historyHandler := NewHistoryHandler(cfg.History, cfg.Logger)
	uploadHandler := NewUploadHandler(cfg.Uploader, cfg.Logger)
	exportHandler := NewExportHandler(cfg.Renderer, cfg.Logger)
	healthHandler := NewHealthHandler(cfg.Checks)

	limit := middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	routes := func(r chi.Router) {
		r.With(limit).Post("/generate", generateHandler.Generate)
		r.Get("/history", historyHandler.List)
		r.Post("/history", historyHandler.Save)
		r.Post("/upload", uploadHandler.Upload)
		r.Post("/export", exportHandler.Export)
	}

	r.Group(routes)
	r.Route("/api", func(r chi.Router) {
		routes(r)
		r.With(limit).Post("/generate-slides", generateHandler.Generate)
		r.Post("/upload-pptx", uploadHandler.Upload)
	})

	if cfg.StaticDir != "" {
		prefix := "/" + strings.Trim(cfg.StaticPath, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(cfg.StaticDir))))
	}

	return r
}
