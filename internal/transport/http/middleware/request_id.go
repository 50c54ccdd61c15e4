package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"

	apierrors "github.com/pribylovaa/go-travel-warnings/internal/transport/http/errors"
)

type ctxKeyRequestID struct{}

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если есть;
//  2. иначе генерирует криптографически стойкий hex id (32 символа);
//  3. кладёт id в Response Header, Request Header (для errors.WriteError) и в контекст
//     (для Logging, см. RequestIDFrom).
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(apierrors.HeaderRequestID)
			if id == "" {
				id = genID()
				r.Header.Set(apierrors.HeaderRequestID, id)
			}
			w.Header().Set(apierrors.HeaderRequestID, id)

			ctx := context.WithValue(r.Context(), ctxKeyRequestID{}, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestIDFrom возвращает id запроса из контекста ("" если нет).
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID{}).(string)
	return id
}

func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
