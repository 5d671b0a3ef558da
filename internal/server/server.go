package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nats-io/nats.go"

	"trendwatch/internal/config"
	"trendwatch/internal/domain/trend"
	"trendwatch/internal/server/handlers"
)

// Server represents the HTTP server.
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg config.ServerConfig,
	natsConn *nats.Conn,
	eventsTopic string,
	extractor trend.Extractor,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	trendHandler := handlers.NewTrendHandler(extractor)
	growthHandler := handlers.NewGrowthHandler(extractor)
	runHandler := handlers.NewRunHandler(extractor)

	// Routes
	router.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		r.Route("/v1", func(r chi.Router) {
			r.Route("/trends", func(r chi.Router) {
				r.Get("/", trendHandler.GetTrends)
				r.Get("/{id}", trendHandler.GetTrend)
			})

			r.Get("/growth", growthHandler.GetGrowth)
			r.Post("/runs", runHandler.TriggerRun)
		})
	})

	// WebSocket endpoint streaming trend events in real time
	router.Get("/ws/trends", handlers.TrendWebSocketHandler(natsConn, eventsTopic))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
