// Package portfolio реализует HTTP-обработчик отчета по портфелю сделок.
//
// Отчет содержит вложения, зафиксированную прибыль от перепродаж и ROI.
package portfolio

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

// Handler обрабатывает запросы отчета по портфелю.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отчета по портфелю.
type Service interface {
	Portfolio(ctx context.Context, userUID string) (*models.PortfolioReport, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отчет по портфелю сделок
// @Description Возвращает отчет по пожизненным сделкам: вложения, прибыль от перепродаж и ROI.
// @Tags Reports
// @Produce  json
// @Success 200 {object} map[string]any "Отчет по портфелю"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/portfolio [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.portfolio"

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

	report, err := h.service.Portfolio(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build portfolio report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build portfolio report"))
		return
	}

	log.Info("portfolio report built")
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"report": report,
	}))
}
