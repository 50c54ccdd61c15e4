package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	logctx "github.com/pribylovaa/go-travel-warnings/pkg/log"
)

// Timeout ограничивает запрос дедлайном d, если у контекста дедлайна ещё нет.
// d <= 0 — no-op. Если обработчик вернулся уже после истечения дедлайна,
// пишется http_deadline_exceeded (логгер берётся из контекста, см. Logging).
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logctx.From(ctx).Warn("http_deadline_exceeded",
					slog.String("path", r.URL.Path),
					slog.Duration("timeout", d),
				)
			}
		})
	}
}
