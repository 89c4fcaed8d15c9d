// Package tax реализует HTTP-обработчик налогового отчета за финансовый год.
//
// Окно финансового года берется из настроек пользователя. Подписки дают вычет
// пропорционально числу месячных списаний внутри окна, сделки — целиком.
package tax

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/http/response"
	"github.com/bizsubs/bizsubs/internal/lib/sl"
	"github.com/bizsubs/bizsubs/internal/models"
)

// Handler обрабатывает запросы налогового отчета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики налогового отчета.
type Service interface {
	Tax(ctx context.Context, userUID string, year int) (*models.TaxReport, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Налоговый отчет
// @Description Возвращает налоговый отчет за финансовый год: вычитаемые расходы и расчетную экономию.
// @Tags Reports
// @Produce  json
// @Param year query int false "Год начала финансового окна, по умолчанию текущий"
// @Success 200 {object} map[string]any "Налоговый отчет"
// @Failure 400 {object} response.ErrorResponse "Некорректный год"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/tax [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.tax"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	year := time.Now().Year()
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1970 || v > 9999 {
			log.Error("invalid year query parameter")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid year"))
			return
		}
		year = v
	}

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	report, err := h.service.Tax(r.Context(), userUID, year)
	if err != nil {
		log.Error("failed to build tax report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build tax report"))
		return
	}

	log.Info("tax report built", slog.Int("year", year), slog.Int("items", len(report.Items)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"report": report,
	}))
}
