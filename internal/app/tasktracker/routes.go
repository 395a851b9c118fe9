// Package tasktracker предоставляет маршруты для основного приложения.
package tasktracker

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/health"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/create"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/list"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/read"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/remove"
	"github.com/magabrotheeeer/task-tracker/internal/http/handlers/task/update"
	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/lib/jwt"
	"github.com/magabrotheeeer/task-tracker/internal/services"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService, taskService *services.TaskService, tokenParser jwt.Maker, secure bool) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/auth/register", register.New(logger, authService, secure).ServeHTTP)
	r.Post("/auth/login", login.New(logger, authService, secure).ServeHTTP)
	r.Post("/auth/logout", logout.New(logger, secure).ServeHTTP)

	// Группа с проверкой сессионной куки
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.AuthMiddleware(tokenParser, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/auth/me", me.New(logger).ServeHTTP)
		r.Post("/tasks", create.New(logger, taskService).ServeHTTP)
		r.Get("/tasks", list.New(logger, taskService).ServeHTTP)
		r.Get("/tasks/{id}", read.New(logger, taskService).ServeHTTP)
		r.Put("/tasks/{id}", update.New(logger, taskService).ServeHTTP)
		r.Delete("/tasks/{id}", remove.New(logger, taskService).ServeHTTP)
	})

	r.Get("/health", health.New().ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
