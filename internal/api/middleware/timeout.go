package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// RequestTimeout ограничивает время обработки через контекст запроса.
// Хранилище и Redis получают этот контекст и прерываются по дедлайну.
func RequestTimeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
