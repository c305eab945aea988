package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cardchase/location-portal/api/controllers"
	"github.com/cardchase/location-portal/api/middleware"
	"github.com/cardchase/location-portal/internal/access"
	"github.com/cardchase/location-portal/internal/admin"
	"github.com/cardchase/location-portal/internal/auth"
	"github.com/cardchase/location-portal/internal/events"
	"github.com/cardchase/location-portal/internal/locations"
	"github.com/cardchase/location-portal/internal/schedule"
	"github.com/cardchase/location-portal/internal/staff"
	"github.com/cardchase/location-portal/pkg/auth/session"
	"github.com/cardchase/location-portal/pkg/config"
	"github.com/cardchase/location-portal/pkg/logger"
	"github.com/cardchase/location-portal/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type accessMetrics interface {
	ObserveAccess(state string)
}

// Dependencies carries everything the router mounts. Nil services answer 500
// from their handlers.
type Dependencies struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Gatherer prometheus.Gatherer
	Metrics  accessMetrics

	Access    access.Service
	Auth      auth.Service
	Locations locations.Service
	Staff     staff.Service
	Schedule  schedule.Service
	Events    events.Service
	Admin     admin.Service
}

func NewRouter(deps Dependencies) http.Handler {
	cfg, logg := deps.Config, deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	signupPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.SignupWindow,
		cfg.AuthRateLimit.SignupIPLimit,
		cfg.AuthRateLimit.SignupEmailLimit,
	)

	var redisPinger pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, redisPinger))
	})
	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			if deps.Redis != nil {
				r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
				r.With(middleware.AuthRateLimit(signupPolicy, deps.Redis, logg)).Post("/signup", controllers.AuthSignup(deps.Auth, logg))
			} else {
				r.Post("/login", controllers.AuthLogin(deps.Auth, logg))
				r.Post("/signup", controllers.AuthSignup(deps.Auth, logg))
			}
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Use(middleware.Access(deps.Access, logg))
			if deps.Redis != nil {
				r.Use(middleware.Idempotency(deps.Redis, logg))
			}

			r.Get("/access", controllers.AccessState(logg))

			r.With(middleware.Gate(deps.Metrics, logg, access.StateNeedsIntake)).
				Post("/intake", controllers.IntakeSubmit(deps.Locations, logg))

			r.Route("/pending", func(r chi.Router) {
				r.Use(middleware.Gate(deps.Metrics, logg, access.StatePending, access.StateRejected))
				r.Get("/", controllers.PendingStatus(logg))
				r.With(middleware.RequireCapability(access.CapabilityEditProfile, logg)).
					Put("/", controllers.PendingUpdate(deps.Locations, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Gate(deps.Metrics, logg, access.StateApproved))
				mountApproved(r, deps)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin(logg))
				r.Get("/applications", controllers.AdminApplications(deps.Admin, logg))
				r.Route("/applications/{applicationId}", func(r chi.Router) {
					r.Get("/", controllers.AdminApplication(deps.Admin, logg))
					r.Post("/approve", controllers.AdminApprove(deps.Admin, logg))
					r.Post("/reject", controllers.AdminReject(deps.Admin, logg))
					r.Put("/notes", controllers.AdminNotes(deps.Admin, logg))
					r.Post("/verify", controllers.AdminVerify(deps.Admin, logg))
				})
			})
		})
	})

	return r
}

// mountApproved registers the dashboard routes that require an approved location.
func mountApproved(r chi.Router, deps Dependencies) {
	logg := deps.Logger
	capability := func(c access.Capability) func(http.Handler) http.Handler {
		return middleware.RequireCapability(c, logg)
	}

	r.Get("/plans", controllers.PlanCatalog())

	r.Route("/location", func(r chi.Router) {
		r.Get("/", controllers.LocationOverview(deps.Locations, logg))
		r.Get("/hours", controllers.LocationHours(deps.Locations, logg))

		r.Group(func(r chi.Router) {
			r.Use(capability(access.CapabilityEditProfile))
			r.Patch("/visibility", controllers.LocationVisibility(deps.Locations, logg))
			r.Put("/business", controllers.LocationBusiness(deps.Locations, logg))
			r.Put("/address", controllers.LocationAddress(deps.Locations, logg))
			r.Put("/hours", controllers.LocationUpdateHours(deps.Locations, logg))
		})
		r.With(capability(access.CapabilityManagePlan)).Put("/plan", controllers.LocationChangePlan(deps.Locations, logg))
	})

	r.Route("/staff", func(r chi.Router) {
		r.Use(capability(access.CapabilityViewStaff))
		r.Get("/", controllers.StaffList(deps.Staff, logg))

		r.Group(func(r chi.Router) {
			r.Use(capability(access.CapabilityManageStaff))
			r.Get("/search", controllers.StaffSearch(deps.Staff, logg))
			r.Post("/", controllers.StaffAdd(deps.Staff, logg))
			r.Delete("/{staffId}", controllers.StaffRemove(deps.Staff, logg))
		})
		r.With(capability(access.CapabilityGrantAdmin)).Post("/{staffId}/admin", controllers.StaffToggleAdmin(deps.Staff, logg))
	})

	r.Route("/schedule", func(r chi.Router) {
		r.Use(capability(access.CapabilityManageSchedule))
		r.Get("/week", controllers.ScheduleWeek(deps.Schedule, logg))
		r.Post("/trades/{tradeId}/cancel", controllers.ScheduleCancelTrade(deps.Schedule, logg))
		r.Get("/blocked", controllers.ScheduleListBlocked(deps.Schedule, logg))
		r.Post("/blocked", controllers.ScheduleBlockTime(deps.Schedule, logg))
		r.Delete("/blocked/{blockId}", controllers.ScheduleDeleteBlocked(deps.Schedule, logg))
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", controllers.EventList(deps.Events, logg))
		r.Group(func(r chi.Router) {
			r.Use(capability(access.CapabilityManageEvents))
			r.Post("/", controllers.EventCreate(deps.Events, logg))
			r.Delete("/{eventId}", controllers.EventDelete(deps.Events, logg))
		})
	})
}
