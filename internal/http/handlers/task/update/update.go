// Package update реализует HTTP-обработчик частичного обновления задачи.
//
// Запрос может содержать любое подмножество полей title, description и
// status; пустой запрос отклоняется. Неуказанные поля сохраняют прежние
// значения.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Service описывает интерфейс бизнес-логики обновления задачи.
type Service interface {
	Update(ctx context.Context, ownerUID, taskID string, patch models.DummyTaskUpdate) (*models.Task, error)
}

// Handler управляет HTTP-запросами на обновление задач.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить задачу
// @Description Частично обновляет задачу текущего пользователя.
// @Tags Tasks
// @Accept json
// @Produce json
// @Param id path string true "Идентификатор задачи"
// @Param request body models.DummyTaskUpdate true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновлённая задача"
// @Failure 400 {object} response.Response "Ошибка валидации или пустой запрос"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Failure 403 {object} response.Response "Задача принадлежит другому пользователю"
// @Failure 404 {object} response.Response "Задача не найдена"
// @Router /tasks/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.update"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	taskID := chi.URLParam(r, "id")

	var patch models.DummyTaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeValidation, "invalid request body"))
		return
	}
	if patch.Empty() {
		log.Error("empty update request")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeValidation, "at least one field must be provided"))
		return
	}
	if patch.Title != nil {
		*patch.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		*patch.Description = strings.TrimSpace(*patch.Description)
	}

	if err := h.validate.Struct(patch); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	ownerUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || ownerUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeUnauthorized, "Authentication required"))
		return
	}

	task, err := h.service.Update(r.Context(), ownerUID, taskID, patch)
	if err != nil {
		log.Error("failed to update task", sl.Err(err), slog.String("id", taskID))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("updated task", slog.String("id", task.ID))
	render.JSON(w, r, response.OK(map[string]any{
		"task": task,
	}))
}
