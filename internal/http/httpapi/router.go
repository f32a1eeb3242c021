package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"genstudio/internal/http/handlers"
	"genstudio/internal/infra"
	"genstudio/internal/middleware"
)

// NewRouter mounts every route on a chi router with the shared middleware stack.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	var origins []string
	rateLimit := 0
	if app.Config != nil {
		origins = app.Config.CORSAllowedOrigins
		rateLimit = app.Config.RateLimitPerMin
	}

	r.Use(
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(*infra.LoggerOrDiscard(app.Logger), app.Metrics),
		middleware.CORS(origins),
		middleware.Session,
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/openapi.json", app.OpenAPIJSON)
	r.Get("/v1/docs", app.OpenAPIDocs)
	if app.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/settings/defaults", app.SettingsDefaults)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(rateLimit, time.Minute))
			r.Post("/images", app.ImagesGenerate)
			r.Post("/img2vdo", app.ImageToVideo)
			r.Post("/replicate", app.TextToVideo)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", app.HistoryList)
			r.Delete("/", app.HistoryClear)
			r.Get("/export", app.HistoryExport)
			r.Get("/{id}", app.HistoryGet)
			r.Get("/{id}/download", app.HistoryDownload)
			r.Delete("/{id}", app.HistoryDelete)
		})
	})

	return r
}
