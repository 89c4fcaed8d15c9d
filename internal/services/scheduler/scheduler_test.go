package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bizsubs/bizsubs/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindRenewalsDueTomorrow(ctx context.Context) ([]*models.RenewalInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RenewalInfo), args.Error(1)
}

func (m *MockRepository) FindOverdueRenewals(ctx context.Context) ([]*models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

func (m *MockRepository) UpdateNextRenewalDate(ctx context.Context, id int, next time.Time) (int, error) {
	args := m.Called(ctx, id, next)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_runFindRenewalsDueTomorrow(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*MockRepository)
	}{
		{
			name: "success - no upcoming renewals",
			setupMocks: func(r *MockRepository) {
				r.On("FindRenewalsDueTomorrow", mock.Anything).Return([]*models.RenewalInfo{}, nil).Once()
			},
		},
		{
			name: "repository error",
			setupMocks: func(r *MockRepository) {
				r.On("FindRenewalsDueTomorrow", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewSchedulerService(repo, newNoopLogger())

			tt.setupMocks(repo)

			service.runFindRenewalsDueTomorrow(context.Background(), nil)

			repo.AssertExpectations(t)
		})
	}
}

func TestSchedulerService_runAdvanceOverdueRenewals(t *testing.T) {
	now := time.Now().UTC()
	overdueSub := func(cycle string, daysAgo int) *models.Subscription {
		return &models.Subscription{
			ID:              1,
			UserUID:         "uid-1",
			ServiceName:     "Figma",
			Cost:            decimal.NewFromInt(12),
			Currency:        "USD",
			BillingCycle:    cycle,
			NextRenewalDate: now.AddDate(0, 0, -daysAgo),
			IsActive:        true,
		}
	}
	today := now.Truncate(24 * time.Hour)
	afterToday := mock.MatchedBy(func(next time.Time) bool {
		return next.After(today)
	})

	tests := []struct {
		name       string
		setupMocks func(*MockRepository)
	}{
		{
			name: "success - monthly subscription advanced past today",
			setupMocks: func(r *MockRepository) {
				r.On("FindOverdueRenewals", mock.Anything).Return([]*models.Subscription{overdueSub("monthly", 1)}, nil).Once()
				r.On("UpdateNextRenewalDate", mock.Anything, 1, afterToday).Return(1, nil).Once()
			},
		},
		{
			name: "success - weekly subscription overdue by several cycles",
			setupMocks: func(r *MockRepository) {
				r.On("FindOverdueRenewals", mock.Anything).Return([]*models.Subscription{overdueSub("weekly", 30)}, nil).Once()
				r.On("UpdateNextRenewalDate", mock.Anything, 1, afterToday).Return(1, nil).Once()
			},
		},
		{
			name: "success - no overdue renewals",
			setupMocks: func(r *MockRepository) {
				r.On("FindOverdueRenewals", mock.Anything).Return([]*models.Subscription{}, nil).Once()
			},
		},
		{
			name: "unknown billing cycle skips update",
			setupMocks: func(r *MockRepository) {
				r.On("FindOverdueRenewals", mock.Anything).Return([]*models.Subscription{overdueSub("daily", 1)}, nil).Once()
			},
		},
		{
			name: "repository error on find",
			setupMocks: func(r *MockRepository) {
				r.On("FindOverdueRenewals", mock.Anything).Return(nil, errors.New("db error")).Once()
			},
		},
		{
			name: "repository error on update",
			setupMocks: func(r *MockRepository) {
				r.On("FindOverdueRenewals", mock.Anything).Return([]*models.Subscription{overdueSub("monthly", 1)}, nil).Once()
				r.On("UpdateNextRenewalDate", mock.Anything, 1, afterToday).Return(0, errors.New("update error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewSchedulerService(repo, newNoopLogger())

			tt.setupMocks(repo)

			service.runAdvanceOverdueRenewals(context.Background())

			repo.AssertExpectations(t)
		})
	}
}

func TestSchedulerService_NewSchedulerService(t *testing.T) {
	repo := new(MockRepository)
	logger := newNoopLogger()

	service := NewSchedulerService(repo, logger)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, logger, service.log)
}
