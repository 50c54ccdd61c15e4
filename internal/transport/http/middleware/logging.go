package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	logctx "github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// Logging кладёт request-scoped логгер (с request_id) в контекст и пишет
// одну запись http_request на запрос. Должен стоять после RequestID.
//
// route — шаблон маршрута chi ("/warnings/{code}"), чтобы записи
// группировались по эндпойнту, а не по конкретному URL. Для запросов,
// не сопоставленных ни с одним маршрутом, route пуст.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if rid := RequestIDFrom(ctx); rid != "" {
				ctx = logctx.Into(ctx, l.With(slog.String("request_id", rid)))
			} else {
				ctx = logctx.Into(ctx, l)
			}
			r = r.WithContext(ctx)

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			status := sw.status
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			if status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}

			logctx.From(ctx).LogAttrs(ctx, level, "http_request",
				slog.String("method", r.Method),
				slog.String("route", routePattern(r)),
				slog.String("path", r.URL.Path),
				slog.Int("status", status),
				slog.Int("bytes", sw.count),
				slog.Duration("dur", time.Since(start)),
			)
		})
	}
}

// routePattern возвращает шаблон сработавшего маршрута chi ("" вне роутера chi).
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}

	return rctx.RoutePattern()
}
