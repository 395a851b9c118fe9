// Package me реализует HTTP-обработчик, возвращающий личность
// текущего пользователя из проверенного токена. База данных не
// затрагивается: ответ строится из claims сессии.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Handler управляет HTTP-запросами на чтение текущей личности.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Description Возвращает id и email пользователя из сессии.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Пользователь"
// @Failure 401 {object} response.Response "Сессия отсутствует или истекла"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	email, okEmail := r.Context().Value(middlewarectx.Email).(string)
	if !ok || !okEmail || userUID == "" {
		log.Error("identity not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeUnauthorized, "Authentication required"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"user": models.UserView{
			ID:    userUID,
			Email: email,
		},
	}))
}
