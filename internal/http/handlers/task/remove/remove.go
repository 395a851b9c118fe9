// Package remove реализует HTTP-обработчик удаления задачи по id
// с проверкой владельца.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
)

// Service описывает интерфейс бизнес-логики удаления задачи.
type Service interface {
	Remove(ctx context.Context, ownerUID, taskID string) error
}

// Handler управляет HTTP-запросами на удаление задач.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить задачу
// @Description Удаляет задачу по id, если она принадлежит текущему пользователю.
// @Tags Tasks
// @Produce json
// @Param id path string true "Идентификатор задачи"
// @Success 200 {object} response.Response "Сообщение об удалении"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Задача принадлежит другому пользователю"
// @Failure 404 {object} response.Response "Задача не найдена"
// @Router /tasks/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.remove"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeUnauthorized, "Authentication required"))
		return
	}

	if err := h.service.Remove(r.Context(), ownerUID, taskID); err != nil {
		log.Error("failed to remove task", sl.Err(err), slog.String("id", taskID))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("removed task", slog.String("id", taskID))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Task deleted",
	}))
}
