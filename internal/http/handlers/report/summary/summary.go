// Package summary реализует HTTP-обработчик сводного отчета по подпискам.
//
// Отчет содержит количество активных подписок, месячный и годовой эквиваленты
// стоимости и распределение расходов по клиентам.
package summary

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/http/response"
	"github.com/bizsubs/bizsubs/internal/lib/sl"
	"github.com/bizsubs/bizsubs/internal/models"
)

// Handler обрабатывает запросы сводного отчета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводного отчета.
type Service interface {
	Summary(ctx context.Context, userUID string) (*models.SummaryReport, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Сводный отчет
// @Description Возвращает сводный отчет по активным подпискам: месячный и годовой эквиваленты и распределение по клиентам.
// @Tags Reports
// @Produce  json
// @Success 200 {object} map[string]any "Сводный отчет"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.summary"

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

	report, err := h.service.Summary(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build summary report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build summary report"))
		return
	}

	log.Info("summary report built", slog.Int("active_count", report.ActiveCount))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"report": report,
	}))
}
