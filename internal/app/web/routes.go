// Package web собирает HTTP-маршруты и зависимости веб-слоя FitFlow.
package web

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/accounts"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/auth"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/foodlog"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/foods"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/health"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/planner"
	"github.com/magabrotheeeer/fitflow-web/internal/http/handlers/plans"
	"github.com/magabrotheeeer/fitflow-web/internal/http/middlewarectx"
	"github.com/magabrotheeeer/fitflow-web/internal/metrics"
	"github.com/magabrotheeeer/fitflow-web/internal/models"
	accountservice "github.com/magabrotheeeer/fitflow-web/internal/services/accounts"
)

// Handlers обработчики всех страниц.
type Handlers struct {
	Auth      *auth.Handler
	Accounts  *accounts.Handler
	Foods     *foods.Handler
	Plans     *plans.Handler
	FoodLog   *foodlog.Handler
	Dashboard *dashboard.Handler
	Planner   *planner.Handler
	Health    *health.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, sessions middlewarectx.Sessions, cookieName string,
	limiter *middlewarectx.Limiter, m *metrics.Metrics, h Handlers) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		m.Middleware,
		middlewarectx.RateLimitMiddleware(limiter, logger),
	)

	staff := middlewarectx.RequireRole(logger, models.RoleNutritionist, models.RoleAdmin)
	admin := middlewarectx.RequireRole(logger, models.RoleAdmin)
	client := middlewarectx.RequireRole(logger, models.RoleClient)
	anyRole := middlewarectx.RequireRole(logger, models.RoleClient, models.RoleNutritionist, models.RoleAdmin)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/login", h.Auth.Login)
		r.Post("/logout", h.Auth.Logout)
		r.Post("/register/client", h.Accounts.RegisterClient)

		// Группа с сессией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(sessions, cookieName, logger))
			r.Use(middlewarectx.RateLimitMiddleware(limiter, logger))
			r.Get("/me", h.Auth.Me)
			r.Get("/foods", h.Foods.List)
			// владельца плана проверяет сервер
			r.With(anyRole).Delete("/plans/{id}", h.Plans.Delete)

			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/register/nutritionist", h.Accounts.RegisterNutritionist)
				r.Post("/register/admin", h.Accounts.RegisterAdmin)
				r.Get("/users", h.Accounts.List(accountservice.KindAll))
				r.Get("/nutritionists", h.Accounts.List(accountservice.KindNutritionists))
				r.Get("/admins", h.Accounts.List(accountservice.KindAdmins))
			})

			r.Group(func(r chi.Router) {
				r.Use(staff)
				r.Get("/clients", h.Accounts.List(accountservice.KindClients))
				r.Post("/foods", h.Foods.Create)
				r.Put("/foods/{id}", h.Foods.Update)
				r.Delete("/foods/{id}", h.Foods.Delete)
				r.Post("/plans", h.Plans.Create)
				r.Get("/plans/form-options", h.Plans.FormOptions)
				r.Get("/plans/check-date/{date}", h.Plans.CheckDate)
				r.Get("/planner/plan-types", h.Planner.PlanTypes)
				r.Get("/planner/calculator-types", h.Planner.CalculatorTypes)
				r.Post("/planner/generate", h.Planner.Generate)
				r.Get("/planner/analysis", h.Planner.Analysis)
				r.Get("/planner/compare", h.Planner.Compare)
			})

			r.Group(func(r chi.Router) {
				r.Use(client)
				r.Get("/plans", h.Plans.List)
				r.Get("/plans/week", h.Plans.Week)
				r.Get("/plans/by-date/{date}", h.Plans.ByDate)
				r.Get("/plans/status/{date}", h.Plans.StatusByDate)
				r.Get("/food-log", h.FoodLog.View)
				r.Post("/food-log", h.FoodLog.Submit)
				r.Get("/food-log/history", h.FoodLog.History)
				r.Get("/dashboard", h.Dashboard.Get)
			})
		})
	})

	r.Handle("/health", h.Health)
	r.Handle("/metrics", m.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
