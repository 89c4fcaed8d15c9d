// Package services содержит бизнес-логику настроек отчетности пользователя.
package services

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/bizsubs/bizsubs/internal/cache"
	"github.com/bizsubs/bizsubs/internal/models"
)

// PreferencesRepository определяет методы для работы с настройками в хранилище.
type PreferencesRepository interface {
	// GetPreferences возвращает настройки пользователя.
	GetPreferences(ctx context.Context, userUID string) (*models.Preferences, error)
	// UpdatePreferences обновляет настройки пользователя.
	UpdatePreferences(ctx context.Context, p models.Preferences) (int, error)
}

// Cache описывает методы для инвалидации кеша.
type Cache interface {
	Invalidate(keys ...string) error
	InvalidatePattern(pattern string) error
}

// PreferencesService реализует бизнес-логику настроек отчетности.
type PreferencesService struct {
	repo  PreferencesRepository
	cache Cache
	log   *slog.Logger
}

// NewPreferencesService создает новый экземпляр PreferencesService.
func NewPreferencesService(repo PreferencesRepository, cache Cache, log *slog.Logger) *PreferencesService {
	return &PreferencesService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Get возвращает настройки пользователя.
func (s *PreferencesService) Get(ctx context.Context, userUID string) (*models.Preferences, error) {
	return s.repo.GetPreferences(ctx, userUID)
}

// Update обновляет настройки пользователя. Смена начала финансового года
// или ставки по умолчанию меняет результаты отчетов, поэтому их кеш
// сбрасывается.
func (s *PreferencesService) Update(ctx context.Context, userUID string, req models.DummyPreferences) (int, error) {
	prefs := models.Preferences{
		UserUID:        userUID,
		FYStartMonth:   req.FYStartMonth,
		DefaultTaxRate: decimal.NewFromFloat(req.DefaultTaxRate),
		Currency:       req.Currency,
	}
	count, err := s.repo.UpdatePreferences(ctx, prefs)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.cache.Invalidate(cache.SummaryReportKey(userUID)); err != nil {
			s.log.Warn("failed to invalidate cache", slog.Any("err", err))
		}
		if err := s.cache.InvalidatePattern(cache.TaxReportPattern(userUID)); err != nil {
			s.log.Warn("failed to invalidate tax reports", slog.Any("err", err))
		}
	}
	return count, nil
}
