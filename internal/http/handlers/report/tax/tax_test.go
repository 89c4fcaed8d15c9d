package tax

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/models"
)

// MockService реализует интерфейс tax.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Tax(ctx context.Context, userUID string, year int) (*models.TaxReport, error) {
	args := m.Called(ctx, userUID, year)
	if res := args.Get(0); res != nil {
		return res.(*models.TaxReport), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestTaxHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	report := &models.TaxReport{
		Year:            2025,
		TotalDeductible: decimal.NewFromInt(273),
		TotalSavings:    decimal.RequireFromString("48.6"),
	}

	tests := []struct {
		name           string
		url            string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "отчет за указанный год",
			url:     "/reports/tax?year=2025",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Tax", mock.Anything, "uid-1", 2025).Return(report, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"year":2025`,
		},
		{
			name:    "год по умолчанию — текущий",
			url:     "/reports/tax",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Tax", mock.Anything, "uid-1", time.Now().Year()).Return(report, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "некорректный год",
			url:            "/reports/tax?year=abc",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid year"`,
		},
		{
			name:           "нет пользователя в контексте",
			url:            "/reports/tax?year=2025",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			url:     "/reports/tax?year=2025",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("Tax", mock.Anything, "uid-1", 2025).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not build tax report"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.userUID != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID))
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
