// Package stats реализует админский HTTP-обработчик агрегированной статистики.
package stats

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

// Service описывает интерфейс бизнес-логики статистики.
type Service interface {
	Statistics(ctx context.Context) (*models.Statistics, error)
}

// Handler обрабатывает запросы на получение статистики.
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

// ServeHTTP обрабатывает HTTP-запрос на получение агрегированной статистики.
// Счетчики считаются по фактическим статусам в хранилище на момент вызова.
//
// @Summary Статистика сервиса (админ)
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401,403 {object} response.Response
// @Router /api/v1/admin/statistics [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	statistics, err := h.service.Statistics(r.Context())
	if err != nil {
		log.Error("failed to count statistics", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not count statistics"))
		return
	}

	log.Info("statistics counted")
	render.JSON(w, r, response.OKWithData("statistics fetched successfully", map[string]any{
		"statistics": statistics,
	}))
}
