// Package list реализует HTTP-обработчик получения каталога активных планов.
package list

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

// Service описывает интерфейс бизнес-логики каталога планов.
type Service interface {
	List(ctx context.Context) ([]*models.Plan, error)
}

// Handler обрабатывает запросы на получение списка активных планов.
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

// ServeHTTP обрабатывает HTTP-запрос на получение каталога планов.
// Планы отсортированы по цене по возрастанию, неактивные не отдаются.
//
// @Summary Каталог тарифных планов
// @Tags plans
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}

	log.Info("plans listed", slog.Int("count", len(plans)))
	render.JSON(w, r, response.OKWithData("plans fetched successfully", map[string]any{
		"plans": plans,
	}))
}
