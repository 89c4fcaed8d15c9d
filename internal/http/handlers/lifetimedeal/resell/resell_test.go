package resell

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizsubs/bizsubs/internal/http/middlewarectx"
	"github.com/bizsubs/bizsubs/internal/models"
	services "github.com/bizsubs/bizsubs/internal/services/lifetimedeal"
)

// MockService реализует интерфейс resell.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Resell(ctx context.Context, id int, userUID string, req models.DummyResell) (*models.LifetimeDeal, error) {
	args := m.Called(ctx, id, userUID, req)
	if res := args.Get(0); res != nil {
		return res.(*models.LifetimeDeal), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestResellHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	validBody := `{"resold_price":120,"resold_date":"2025-06-01"}`

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная перепродажа",
			id:   "5",
			body: validBody,
			setupMock: func(m *MockService) {
				deal := &models.LifetimeDeal{
					ID:          5,
					ProductName: "AppSumo SEO Tool",
					Status:      models.DealResold,
				}
				m.On("Resell", mock.Anything, 5, "uid-1", mock.Anything).Return(deal, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"resold"`,
		},
		{
			name: "сделка уже продана",
			id:   "5",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Resell", mock.Anything, 5, "uid-1", mock.Anything).Return(nil, services.ErrDealNotResellable)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `"error":"deal is not active and cannot be resold"`,
		},
		{
			name:           "некорректный id в URL",
			id:             "abc",
			body:           validBody,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"failed to decode id from url"`,
		},
		{
			name:           "дата в неверном формате",
			id:             "5",
			body:           `{"resold_price":120,"resold_date":"01-06-2025"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field ResoldDate can contain only date in format 2006-01-02`,
		},
		{
			name: "ошибка сервиса",
			id:   "5",
			body: validBody,
			setupMock: func(m *MockService) {
				m.On("Resell", mock.Anything, 5, "uid-1", mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not resell lifetime deal"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/deals/"+tt.id+"/resell", strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-1"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
