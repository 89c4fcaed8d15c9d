// Package taxreport реализует HTTP-обработчик выгрузки налогового отчета в CSV.
package taxreport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/http/response"
	"github.com/bizsubs/bizsubs/internal/lib/sl"
)

// Handler обрабатывает запросы выгрузки налогового отчета.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выгрузки налогового отчета.
type Service interface {
	TaxReport(ctx context.Context, userUID string, year int) ([]byte, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка налогового отчета в CSV
// @Description Возвращает налоговый отчет за финансовый год в формате CSV с итоговой строкой.
// @Tags Export
// @Produce  text/csv
// @Param year query int false "Год начала финансового окна, по умолчанию текущий"
// @Success 200 {string} string "CSV-файл"
// @Failure 400 {object} response.ErrorResponse "Некорректный год"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /export/tax [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.export.taxreport"

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

	data, err := h.service.TaxReport(r.Context(), userUID, year)
	if err != nil {
		log.Error("failed to export tax report", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not export tax report"))
		return
	}

	log.Info("tax report exported", slog.Int("year", year), slog.Int("bytes", len(data)))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tax-report-%d.csv"`, year))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
