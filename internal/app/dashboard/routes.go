// Package dashboard предоставляет маршруты для основного приложения.
package dashboard

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/admin/listall"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/admin/stats"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/auth/login"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/auth/logout"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/auth/refresh"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/auth/register"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/health"
	planlist "github.com/ivankoval/subscription-dashboard/internal/http/handlers/plan/list"
	planread "github.com/ivankoval/subscription-dashboard/internal/http/handlers/plan/read"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/subscription/cancel"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/subscription/my"
	"github.com/ivankoval/subscription-dashboard/internal/http/handlers/subscription/subscribe"
	"github.com/ivankoval/subscription-dashboard/internal/http/middlewarectx"
	authservice "github.com/ivankoval/subscription-dashboard/internal/services/auth"
	planservice "github.com/ivankoval/subscription-dashboard/internal/services/plan"
	subservice "github.com/ivankoval/subscription-dashboard/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *authservice.AuthService, planService *planservice.PlanService, subscriptionService *subservice.SubscriptionService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		middlewarectx.MetricsMiddleware,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)
		r.Get("/plans", planlist.New(logger, planService).ServeHTTP)
		r.Get("/plans/{id}", planread.New(logger, planService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/auth/logout", logout.New(logger, authService).ServeHTTP)
			r.Post("/subscriptions/subscribe/{planId}", subscribe.New(logger, subscriptionService).ServeHTTP)
			r.Get("/subscriptions/my-subscription", my.New(logger, subscriptionService).ServeHTTP)
			r.Post("/subscriptions/cancel", cancel.New(logger, subscriptionService).ServeHTTP)

			// Админская группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/admin/subscriptions", listall.New(logger, subscriptionService).ServeHTTP)
				r.Get("/admin/statistics", stats.New(logger, subscriptionService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
