package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Zenuu19/Skill-Swap-Platform/internal/auth"
	"github.com/Zenuu19/Skill-Swap-Platform/internal/service"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/health"
	"github.com/Zenuu19/Skill-Swap-Platform/pkg/middleware"
)

const serviceName = "skillswap"

// Services bundles the use cases exposed over HTTP. Moderation is nil when
// identities live in a remote directory.
type Services struct {
	Swaps      *service.SwapService
	Feedback   *service.FeedbackService
	Moderation *service.ModerationService
}

// RouterConfig holds the cross-cutting HTTP settings.
type RouterConfig struct {
	CORS           middleware.CORSConfig
	RateLimitRPS   float64
	RateLimitBurst int
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all skill swap routes registered.
func NewRouter(
	svcs Services,
	healthHandler *health.Handler,
	validateToken middleware.TokenValidator,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	swapHandler := NewSwapHandler(svcs.Swaps, logger)
	feedbackHandler := NewFeedbackHandler(svcs.Feedback, logger)
	limit := middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(validateToken))
		r.Use(ContentTypeJSON)

		r.Route("/swaps", func(r chi.Router) {
			r.With(limit).Post("/", swapHandler.CreateSwap)
			r.Get("/", swapHandler.ListSwaps)
			r.Get("/{id}", swapHandler.GetSwap)
			r.With(limit).Delete("/{id}", swapHandler.DeleteSwap)
			r.With(limit).Post("/{id}/feedback", feedbackHandler.SubmitFeedback)
			r.With(limit).Post("/{id}/{action}", swapHandler.TransitionSwap)
		})

		r.Route("/feedback", func(r chi.Router) {
			r.Get("/pending", swapHandler.ListPendingFeedback)
			r.With(limit).Put("/{id}", feedbackHandler.UpdateFeedback)
			r.With(limit).Delete("/{id}", feedbackHandler.DeleteFeedback)
		})

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/feedback/received", feedbackHandler.ListReceived)
			r.Get("/feedback/given", feedbackHandler.ListGiven)
			r.Get("/rating", feedbackHandler.GetRating)
		})

		if svcs.Moderation != nil {
			modHandler := NewModerationHandler(svcs.Moderation, logger)
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(auth.RoleAdmin))
				r.Post("/users/{userId}/ban", modHandler.BanUser())
				r.Post("/users/{userId}/unban", modHandler.UnbanUser())
				r.Post("/skills/{skillId}/approve", modHandler.ApproveSkill())
				r.Post("/skills/{skillId}/reject", modHandler.RejectSkill())
				r.Get("/moderation-log", modHandler.ListLog)
			})
		}
	})

	return r
}
