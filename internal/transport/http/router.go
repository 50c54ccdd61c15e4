package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-travel-warnings/internal/transport/http/handlers"
	"github.com/pribylovaa/go-travel-warnings/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger *slog.Logger
	// Timeout — дедлайн запросов чтения; POST /admin/runs ограничен дедлайном прогона.
	Timeout time.Duration
	// Ready — готовность для /healthz; nil — всегда готов.
	Ready func() bool
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Service, snapshot handlers.Snapshot, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(),          // до логирования
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)

	h := handlers.New(svc, snapshot, opts.Ready)

	root.Get("/livez", h.Livez)
	root.Get("/healthz", h.Healthz)
	root.Handle("/metrics", promhttp.Handler())

	root.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.Timeout))
		registerRoutes(r, h)
	})

	root.Post("/admin/runs", h.TriggerRun)

	return root
}

// registerRoutes — единая точка регистрации эндпойнтов чтения.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/warnings", h.ListWarnings)
	r.Get("/data/warnings.json", h.ListWarnings)
	r.Get("/warnings/{code}", h.WarningsForCountry)
	r.Get("/countries/resolve", h.ResolveCountries)
}
