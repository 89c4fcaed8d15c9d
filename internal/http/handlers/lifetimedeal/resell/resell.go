// Package resell реализует HTTP-обработчик перепродажи пожизненной сделки.
//
// Handler принимает цену и дату перепродажи, помечает активную сделку
// проданной и возвращает обновленную запись с зафиксированной прибылью.
// Уже проданную или возвращенную сделку перепродать нельзя.
package resell

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/http/response"
	"github.com/bizsubs/bizsubs/internal/lib/sl"
	"github.com/bizsubs/bizsubs/internal/models"
	services "github.com/bizsubs/bizsubs/internal/services/lifetimedeal"
)

// Handler обрабатывает запросы на перепродажу сделки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики перепродажи сделки.
type Service interface {
	Resell(ctx context.Context, id int, userUID string, req models.DummyResell) (*models.LifetimeDeal, error)
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
// @Summary Перепродать сделку
// @Description Помечает активную сделку проданной с указанной ценой и датой. Возвращает обновленную запись.
// @Tags LifetimeDeals
// @Accept  json
// @Produce  json
// @Param id path int true "ID сделки"
// @Param request body models.DummyResell true "Цена и дата перепродажи"
// @Success 200 {object} map[string]any "Обновленная сделка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Сделка не активна"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /deals/{id}/resell [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.lifetimedeal.resell"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.DummyResell
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	deal, err := h.service.Resell(r.Context(), id, userUID, req)
	if err != nil {
		if errors.Is(err, services.ErrDealNotResellable) {
			log.Info("deal is not resellable", slog.Int("id", id))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("deal is not active and cannot be resold"))
			return
		}
		log.Error("failed to resell lifetime deal", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not resell lifetime deal"))
		return
	}

	log.Info("success to resell lifetime deal", slog.Int("id", id))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"deal": deal,
	}))
}
