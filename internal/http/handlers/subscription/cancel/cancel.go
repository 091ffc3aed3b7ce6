// Package cancel реализует HTTP-обработчик отмены текущей подписки.
//
// Отмена работает по фактическому статусу в хранилище: просроченная, но еще
// не прочитанная подписка отменяется как активная, без предварительного
// ленивого истечения.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/http/middlewarectx"
	"github.com/ivankoval/subscription-dashboard/internal/http/response"
	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	"github.com/ivankoval/subscription-dashboard/internal/models"
)

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, userUID string) (*models.Subscription, error)
}

// Handler обрабатывает запросы на отмену подписки.
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

// ServeHTTP обрабатывает HTTP-запрос на отмену подписки.
//
// @Summary Отмена подписки
// @Tags subscriptions
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401,404 {object} response.Response
// @Router /api/v1/subscriptions/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

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

	sub, err := h.service.Cancel(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("no active subscription to cancel", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no active subscription found"))
			return
		}
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel subscription"))
		return
	}

	log.Info("subscription cancelled", slog.Int("id", sub.ID))
	render.JSON(w, r, response.OKWithData("subscription cancelled successfully", map[string]any{
		"subscription": sub,
	}))
}
