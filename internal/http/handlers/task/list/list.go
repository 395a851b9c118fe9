// Package list реализует HTTP-обработчик постраничного списка задач
// текущего пользователя с фильтром по статусу и поиском по заголовку.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/task-tracker/internal/http/middlewarectx"
	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/task-tracker/internal/models"
)

// Query — параметры выборки из строки запроса после разбора и подстановки
// значений по умолчанию.
type Query struct {
	Page   int    `validate:"min=1"`
	Limit  int    `validate:"min=1,max=50"`
	Status string `validate:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Search string `validate:"omitempty,max=120"`
}

// Service описывает интерфейс бизнес-логики списка задач.
type Service interface {
	List(ctx context.Context, ownerUID string, page, limit int, status, search *string) ([]*models.Task, models.Pagination, error)
}

// Handler управляет HTTP-запросами на список задач.
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

// parseQuery разбирает строку запроса: отсутствующие параметры получают
// значения по умолчанию, нечисловые page/limit — ошибка валидации.
func parseQuery(r *http.Request) (Query, bool) {
	q := Query{Page: 1, Limit: 10}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return q, false
		}
		q.Page = page
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return q, false
		}
		q.Limit = limit
	}
	q.Status = r.URL.Query().Get("status")
	q.Search = strings.TrimSpace(r.URL.Query().Get("search"))
	return q, true
}

// ServeHTTP godoc
// @Summary Список задач
// @Description Возвращает страницу задач текущего пользователя, новые сверху.
// @Tags Tasks
// @Produce json
// @Param page query int false "Номер страницы (>=1)"
// @Param limit query int false "Размер страницы (1..50)"
// @Param status query string false "Фильтр по статусу: TODO, IN_PROGRESS, DONE"
// @Param search query string false "Подстрока заголовка без учёта регистра"
// @Success 200 {object} response.Response "Задачи и метаданные пагинации"
// @Failure 400 {object} response.Response "Ошибка валидации"
// @Failure 401 {object} response.Response "Пользователь не авторизован"
// @Router /tasks [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.task.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q, ok := parseQuery(r)
	if !ok {
		log.Error("failed to parse query params")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.CodeValidation, "page and limit must be integers"))
		return
	}
	if err := h.validate.Struct(q); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	ownerUID, okUID := r.Context().Value(middlewarectx.UserUID).(string)
	if !okUID || ownerUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.CodeUnauthorized, "Authentication required"))
		return
	}

	var status, search *string
	if q.Status != "" {
		status = &q.Status
	}
	if q.Search != "" {
		search = &q.Search
	}

	tasks, pagination, err := h.service.List(r.Context(), ownerUID, q.Page, q.Limit, status, search)
	if err != nil {
		log.Error("failed to list tasks", sl.Err(err))
		status, resp := response.FromError(err)
		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	log.Info("listed tasks", slog.Int("count", len(tasks)), slog.Int("total", pagination.Total))
	render.JSON(w, r, response.OK(map[string]any{
		"tasks":      tasks,
		"pagination": pagination,
	}))
}
