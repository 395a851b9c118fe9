// Package logout реализует HTTP-обработчик выхода из системы.
//
// Серверного состояния у сессии нет, поэтому выход — это только
// затирание куки на клиенте; сам токен остаётся валидным до истечения.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/task-tracker/internal/http/response"
	"github.com/magabrotheeeer/task-tracker/internal/http/session"
)

// Handler управляет HTTP-запросами на выход.
type Handler struct {
	log    *slog.Logger
	secure bool
}

// New создает новый Handler.
func New(log *slog.Logger, secure bool) *Handler {
	return &Handler{
		log:    log,
		secure: secure,
	}
}

// ServeHTTP godoc
// @Summary Выйти из системы
// @Description Затирает сессионную куку. Работает и без активной сессии.
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response "Сообщение о выходе"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	session.Clear(w, h.secure)
	log.Info("session cookie cleared")
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Logged out",
	}))
}
