package rest

import (
	"net/http"

	"plenum/application/commands/bus"
	"plenum/interfaces/http/rest/handlers"
	"plenum/interfaces/http/rest/middleware"
	"plenum/pkg/auth"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	commandBus  *bus.CommandBus
	validator   *auth.JWTValidator
	rateLimiter *auth.IPRateLimiter
	enableCORS  bool
	logger      *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	commandBus *bus.CommandBus,
	validator *auth.JWTValidator,
	rateLimiter *auth.IPRateLimiter,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		commandBus:  commandBus,
		validator:   validator,
		rateLimiter: rateLimiter,
		enableCORS:  enableCORS,
		logger:      logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Authenticate(rt.validator, rt.rateLimiter, rt.logger))

		minutesHandler := handlers.NewMinutesHandler(rt.commandBus, rt.logger)

		r.Route("/series/{seriesID}", func(r chi.Router) {
			r.Post("/minutes", minutesHandler.CreateMinutes)
			r.Delete("/", minutesHandler.DeleteSeries)
		})

		r.Route("/minutes/{minutesID}", func(r chi.Router) {
			r.Delete("/", minutesHandler.DeleteMinutes)
			r.Post("/finalize", minutesHandler.FinalizeMinutes)
			r.Post("/unfinalize", minutesHandler.UnfinalizeMinutes)
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
