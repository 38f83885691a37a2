package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loyalteez/saas-demo-backend/api/controllers"
	"github.com/loyalteez/saas-demo-backend/api/middleware"
	"github.com/loyalteez/saas-demo-backend/internal/newsletter"
	"github.com/loyalteez/saas-demo-backend/internal/profile"
	"github.com/loyalteez/saas-demo-backend/internal/rewards"
	"github.com/loyalteez/saas-demo-backend/pkg/config"
	"github.com/loyalteez/saas-demo-backend/pkg/logger"
	"github.com/loyalteez/saas-demo-backend/pkg/redis"
)

// NewRouter wires every route. redisClient and gatherer may be nil, which
// disables rate limiting and the metrics endpoint respectively.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *redis.Client,
	rewardsService rewards.Service,
	newsletterService newsletter.Service,
	profileService profile.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	eventsPolicy := middleware.NewRateLimitPolicy(
		"events",
		cfg.RateLimit.EventsWindow,
		cfg.RateLimit.EventsIPLimit,
		cfg.RateLimit.EventsIdentifierLimit,
	)
	// A nil *redis.Client must not reach the middleware as a non-nil interface.
	var eventsLimit func(http.Handler) http.Handler
	var readyPinger controllers.Pinger
	if redisClient != nil {
		eventsLimit = middleware.EventRateLimit(eventsPolicy, redisClient, logg)
		readyPinger = redisClient
	} else {
		eventsLimit = middleware.EventRateLimit(eventsPolicy, nil, logg)
	}

	var rewardsStatus controllers.RewardsStatus
	if rewardsService != nil {
		rewardsStatus = rewardsService
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyPinger, rewardsStatus))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	var tracker rewards.Tracker
	if rewardsService != nil {
		tracker = rewardsService
	}

	r.With(eventsLimit).Post("/events", controllers.TrackEvent(tracker, logg))

	r.Route("/api", func(r chi.Router) {
		r.Get("/manual-event", controllers.ManualEventProbe(time.Now))
		r.With(eventsLimit).Post("/manual-event", controllers.TrackEvent(tracker, logg))

		r.Route("/public", func(r chi.Router) {
			r.Get("/ping", controllers.PublicPing())
		})

		r.Route("/v1", func(r chi.Router) {
			r.Post("/newsletter/subscribe", controllers.NewsletterSubscribe(newsletterService, logg))
			r.Post("/profile", controllers.ProfileComplete(profileService, logg))
		})
	})

	return r
}
