// Package refresh реализует HTTP-обработчик ротации пары токенов.
//
// Refresh-токен однократного применения: после успешной ротации старый токен
// перестает действовать, повторная попытка возвращает 401.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/ivankoval/subscription-dashboard/internal/apperrors"
	"github.com/ivankoval/subscription-dashboard/internal/http/response"
	"github.com/ivankoval/subscription-dashboard/internal/lib/sl"
	services "github.com/ivankoval/subscription-dashboard/internal/services/auth"
)

// Request — входные данные для ротации.
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Service описывает интерфейс бизнес-логики ротации токенов.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
}

// Handler обрабатывает запросы на ротацию токенов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP обрабатывает HTTP-запрос на ротацию токенов.
//
// @Summary Обновление пары токенов
// @Tags auth
// @Accept json
// @Produce json
// @Param request body Request true "Refresh-токен"
// @Success 200 {object} response.Response
// @Failure 400,401 {object} response.Response
// @Router /api/v1/auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTokenExpired):
			log.Warn("refresh token expired")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.ErrorWithCode("refresh token expired", response.CodeTokenExpired))
		case errors.Is(err, apperrors.ErrTokenInvalid):
			log.Warn("refresh token invalid or already used")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error("invalid refresh token"))
		default:
			log.Error("refresh failed", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to refresh tokens"))
		}
		return
	}

	log.Info("tokens rotated")
	render.JSON(w, r, response.OKWithData("tokens refreshed", map[string]any{
		"tokens": pair,
	}))
}
