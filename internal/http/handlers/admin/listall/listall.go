// Package listall реализует админский HTTP-обработчик списка всех подписок.
package listall

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ivankoval/subscription-dashboard/internal/http/response"
	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики админского списка подписок.
type Service interface {
	ListAll(ctx context.Context) ([]*models.SubscriptionInfo, error)
}

// Handler обрабатывает запросы на получение всех подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP обрабатывает HTTP-запрос на получение списка всех подписок.
// Подписки возвращаются с данными пользователя и плана, новые первыми.
//
// @Summary Все подписки (админ)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401,403 {object} response.Response
// @Router /api/v1/admin/subscriptions [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.listall"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	infos, err := h.service.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	log.Info("subscriptions listed", slog.Int("count", len(infos)))
	render.JSON(w, r, response.OKWithData("subscriptions fetched successfully", map[string]any{
		"subscriptions": infos,
		"count":         len(infos),
	}))
}
