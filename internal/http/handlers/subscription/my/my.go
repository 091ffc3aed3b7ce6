// Package my реализует HTTP-обработчик получения текущей подписки пользователя.
//
// Просроченная активная подписка при чтении переводится в expired и не
// возвращается: клиент видит либо действующую подписку, либо null.
package my

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ivankoval/subscription-dashboard/internal/http/middlewarectx"
	"github.com/ivankoval/subscription-dashboard/internal/http/response"
	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики чтения активной подписки.
type Service interface {
	GetActive(ctx context.Context, userUID string) (*models.SubscriptionInfo, error)
}

// Handler обрабатывает запросы на получение текущей подписки.
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

// ServeHTTP обрабатывает HTTP-запрос на получение текущей подписки.
//
// @Summary Текущая подписка пользователя
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/subscriptions/my-subscription [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.my"

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

	info, err := h.service.GetActive(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not get subscription"))
		return
	}

	if info == nil {
		log.Info("no active subscription", slog.String("user_uid", userUID))
		render.JSON(w, r, response.OKWithData("no active subscription", map[string]any{
			"subscription": nil,
		}))
		return
	}

	log.Info("subscription fetched", slog.Int("id", info.ID))
	render.JSON(w, r, response.OKWithData("subscription fetched successfully", map[string]any{
		"subscription": info,
	}))
}
