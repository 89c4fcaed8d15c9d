// Package services содержит бизнес-логику для управления пожизненными сделками.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsubs/bizsubs/internal/cache"
	"github.com/bizsubs/bizsubs/internal/models"
)

// ErrDealNotResellable возвращается при попытке перепродать сделку,
// которая уже продана или возвращена.
var ErrDealNotResellable = errors.New("deal is not active and cannot be resold")

// DealRepository определяет методы для работы со сделками в хранилище.
type DealRepository interface {
	// CreateDeal добавляет новую сделку и возвращает её ID.
	CreateDeal(ctx context.Context, d models.LifetimeDeal) (int, error)
	// ReadDeal возвращает сделку по ID в рамках владельца.
	ReadDeal(ctx context.Context, id int, userUID string) (*models.LifetimeDeal, error)
	// UpdateDeal обновляет данные сделки.
	UpdateDeal(ctx context.Context, d models.LifetimeDeal, id int, userUID string) (int, error)
	// RemoveDeal удаляет сделку и возвращает количество удалённых записей.
	RemoveDeal(ctx context.Context, id int, userUID string) (int, error)
	// ListDeals возвращает все сделки пользователя.
	ListDeals(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error)
	// MarkDealResold помечает активную сделку проданной.
	MarkDealResold(ctx context.Context, id int, userUID string, price decimal.Decimal, date time.Time) (int, error)
	// InsertActivity записывает действие пользователя в журнал.
	InsertActivity(ctx context.Context, a models.ActivityLog) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(keys ...string) error
	InvalidatePattern(pattern string) error
}

// DealService реализует бизнес-логику работы с пожизненными сделками.
type DealService struct {
	repo  DealRepository
	cache Cache
	log   *slog.Logger
}

// NewDealService создает новый экземпляр DealService.
func NewDealService(repo DealRepository, cache Cache, log *slog.Logger) *DealService {
	return &DealService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// fromDummy конвертирует запрос в доменную модель, проверяя дату покупки.
func fromDummy(req models.DummyLifetimeDeal, userUID string) (models.LifetimeDeal, error) {
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return models.LifetimeDeal{}, fmt.Errorf("invalid purchase date: %w", err)
	}
	return models.LifetimeDeal{
		UserUID:       userUID,
		ProductName:   req.ProductName,
		OriginalCost:  decimal.NewFromFloat(req.OriginalCost),
		PurchaseDate:  purchaseDate,
		Platform:      req.Platform,
		Status:        models.DealActive,
		ClientID:      req.ClientID,
		TaxDeductible: req.TaxDeductible,
		Notes:         req.Notes,
	}, nil
}

// invalidateFanOut сбрасывает кеш сделки и зависящих от нее отчетов.
func (s *DealService) invalidateFanOut(id int, userUID string) {
	keys := []string{
		cache.DealKey(userUID, id),
		cache.DealListKey(userUID),
		cache.PortfolioReportKey(userUID),
	}
	if err := s.cache.Invalidate(keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("err", err))
	}
	if err := s.cache.InvalidatePattern(cache.TaxReportPattern(userUID)); err != nil {
		s.log.Warn("failed to invalidate tax reports", slog.Any("err", err))
	}
}

// Create создает новую сделку со статусом active и возвращает её ID.
func (s *DealService) Create(ctx context.Context, userUID string, req models.DummyLifetimeDeal) (int, error) {
	deal, err := fromDummy(req, userUID)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateDeal(ctx, deal)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new lifetime deal", slog.Int("id", id))

	if err := s.repo.InsertActivity(ctx, models.ActivityLog{
		UserUID:    userUID,
		Action:     "created",
		EntityType: "lifetime_deal",
		EntityID:   id,
		Details:    deal.ProductName,
	}); err != nil {
		s.log.Warn("failed to log activity", slog.Any("err", err))
	}

	s.invalidateFanOut(id, userUID)
	return id, nil
}

// Read возвращает сделку по ID, используя кеш или репозиторий.
func (s *DealService) Read(ctx context.Context, id int, userUID string) (*models.LifetimeDeal, error) {
	var result *models.LifetimeDeal
	cacheKey := cache.DealKey(userUID, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadDeal(ctx, id, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет сделку и инвалидирует зависимые ключи кеша.
// Статус и данные перепродажи этим путем не меняются, для них есть Resell.
func (s *DealService) Update(ctx context.Context, req models.DummyLifetimeDeal, id int, userUID string) (int, error) {
	deal, err := fromDummy(req, userUID)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.UpdateDeal(ctx, deal, id, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated lifetime deal in storage", slog.Int("id", id))

	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "updated",
			EntityType: "lifetime_deal",
			EntityID:   id,
			Details:    deal.ProductName,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
		s.invalidateFanOut(id, userUID)
	}
	return count, nil
}

// Remove удаляет сделку по ID и инвалидирует кеш.
func (s *DealService) Remove(ctx context.Context, id int, userUID string) (int, error) {
	count, err := s.repo.RemoveDeal(ctx, id, userUID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "deleted",
			EntityType: "lifetime_deal",
			EntityID:   id,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
		s.invalidateFanOut(id, userUID)
	}
	return count, nil
}

// List возвращает все сделки пользователя, используя кеш или репозиторий.
func (s *DealService) List(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error) {
	var result []*models.LifetimeDeal
	cacheKey := cache.DealListKey(userUID)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ListDeals(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Resell помечает активную сделку проданной и фиксирует цену и дату
// перепродажи. Возвращает ErrDealNotResellable, если сделка не активна.
func (s *DealService) Resell(ctx context.Context, id int, userUID string, req models.DummyResell) (*models.LifetimeDeal, error) {
	resoldDate, err := time.Parse("2006-01-02", req.ResoldDate)
	if err != nil {
		return nil, fmt.Errorf("invalid resold date: %w", err)
	}
	price := decimal.NewFromFloat(req.ResoldPrice)

	count, err := s.repo.MarkDealResold(ctx, id, userUID, price, resoldDate)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrDealNotResellable
	}
	s.log.Info("marked lifetime deal as resold", slog.Int("id", id))

	if err := s.repo.InsertActivity(ctx, models.ActivityLog{
		UserUID:    userUID,
		Action:     "resold",
		EntityType: "lifetime_deal",
		EntityID:   id,
		Details:    price.StringFixed(2),
	}); err != nil {
		s.log.Warn("failed to log activity", slog.Any("err", err))
	}

	s.invalidateFanOut(id, userUID)
	return s.repo.ReadDeal(ctx, id, userUID)
}
