package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/beloteio/belote-backend/internal/ws"
)

func SetupRoutes(api *API, wsServer *ws.Server, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(log))

	// Public routes
	r.Post("/api/auth/register", api.Register)
	r.Post("/api/auth/login", api.Login)
	r.Post("/api/auth/guest", api.Guest)
	r.Get("/healthz", Healthz)
	r.Get("/ws", wsServer.Handler())
	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(wrapped, r)
			log.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", wrapped.Status()),
				zap.Duration("duration", time.Since(start)))
		})
	}
}
