// Package subscribe реализует HTTP-обработчик оформления подписки на план.
//
// Handler извлекает UID пользователя из контекста и ID плана из URL,
// затем вызывает бизнес-логику оформления. Существующая активная подписка
// пользователя при этом заменяется новой.
package subscribe

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/http/middlewarectx"
	"github.com/ivankoval/subscription-dashboard/internal/http/response"
	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Subscribe(ctx context.Context, userUID string, planID int) (*models.SubscriptionInfo, error)
}

// Handler обрабатывает запросы на оформление подписки.
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

// ServeHTTP обрабатывает HTTP-запрос на оформление подписки.
//
// @Summary Оформление подписки
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Param planId path int true "ID плана"
// @Success 201 {object} response.Response
// @Failure 400,401,404 {object} response.Response
// @Router /api/v1/subscriptions/subscribe/{planId} [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.subscribe"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	planID, err := strconv.Atoi(chi.URLParam(r, "planId"))
	if err != nil {
		log.Error("failed to decode plan id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid plan id"))
		return
	}

	info, err := h.service.Subscribe(r.Context(), userUID, planID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("plan not found", slog.Int("plan_id", planID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("plan not found"))
			return
		}
		log.Error("failed to subscribe", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("subscription created",
		slog.Int("id", info.ID), slog.String("user_uid", userUID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData("subscription created successfully", map[string]any{
		"subscription": info,
	}))
}
