// Package services содержит бизнес-логику для управления подписками и кешированием.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsubs/bizsubs/internal/cache"
	"github.com/bizsubs/bizsubs/internal/lib/billing"
	"github.com/bizsubs/bizsubs/internal/models"
)

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку по ID в рамках владельца.
	ReadSubscription(ctx context.Context, id int, userUID string) (*models.Subscription, error)
	// UpdateSubscription обновляет данные подписки.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int, userUID string) (int, error)
	// RemoveSubscription удаляет подписку и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int, userUID string) (int, error)
	// ListSubscriptions возвращает список подписок пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error)
	// ListAllSubscriptions возвращает список всех подписок с пагинацией.
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	// InsertActivity записывает действие пользователя в журнал.
	InsertActivity(ctx context.Context, a models.ActivityLog) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значения из кеша по ключам.
	Invalidate(keys ...string) error
	// InvalidatePattern удаляет все ключи, подходящие под шаблон.
	InvalidatePattern(pattern string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// fromDummy конвертирует запрос в доменную модель, проверяя даты и цикл.
func fromDummy(req models.DummySubscription, userUID string) (models.Subscription, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return models.Subscription{}, fmt.Errorf("invalid start date: %w", err)
	}
	nextRenewal, err := billing.NextRenewal(startDate, req.BillingCycle)
	if err != nil {
		return models.Subscription{}, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	var taxRate *decimal.Decimal
	if req.TaxRate != nil {
		v := decimal.NewFromFloat(*req.TaxRate)
		taxRate = &v
	}

	return models.Subscription{
		UserUID:         userUID,
		ServiceName:     req.ServiceName,
		Cost:            decimal.NewFromFloat(req.Cost),
		Currency:        currency,
		BillingCycle:    req.BillingCycle,
		StartDate:       startDate,
		NextRenewalDate: nextRenewal,
		ClientID:        req.ClientID,
		ProjectID:       req.ProjectID,
		Category:        req.Category,
		TaxDeductible:   req.TaxDeductible,
		TaxRate:         taxRate,
		IsActive:        isActive,
		Notes:           req.Notes,
	}, nil
}

// invalidateFanOut сбрасывает кеш подписки и зависящих от нее списков и отчетов.
func (s *SubscriptionService) invalidateFanOut(id int, userUID string) {
	keys := []string{
		cache.SubscriptionKey(userUID, id),
		cache.SummaryReportKey(userUID),
	}
	if err := s.cache.Invalidate(keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("err", err))
	}
	if err := s.cache.InvalidatePattern(cache.SubscriptionListPattern(userUID)); err != nil {
		s.log.Warn("failed to invalidate subscription lists", slog.Any("err", err))
	}
	if err := s.cache.InvalidatePattern(cache.TaxReportPattern(userUID)); err != nil {
		s.log.Warn("failed to invalidate tax reports", slog.Any("err", err))
	}
}

// Create создает новую подписку для пользователя и возвращает её ID.
func (s *SubscriptionService) Create(ctx context.Context, userUID string, req models.DummySubscription) (int, error) {
	entry, err := fromDummy(req, userUID)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.CreateSubscription(ctx, entry)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))

	if err := s.repo.InsertActivity(ctx, models.ActivityLog{
		UserUID:    userUID,
		Action:     "created",
		EntityType: "subscription",
		EntityID:   id,
		Details:    entry.ServiceName,
	}); err != nil {
		s.log.Warn("failed to log activity", slog.Any("err", err))
	}

	s.invalidateFanOut(id, userUID)
	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := cache.SubscriptionKey(userUID, id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubscription(ctx, id, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}

// Update обновляет подписку и инвалидирует зависимые ключи кеша.
func (s *SubscriptionService) Update(ctx context.Context, req models.DummySubscription, id int, userUID string) (int, error) {
	entry, err := fromDummy(req, userUID)
	if err != nil {
		return 0, err
	}

	count, err := s.repo.UpdateSubscription(ctx, entry, id, userUID)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated subscription in storage", slog.Int("id", id))

	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "updated",
			EntityType: "subscription",
			EntityID:   id,
			Details:    entry.ServiceName,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
		s.invalidateFanOut(id, userUID)
	}
	return count, nil
}

// Remove удаляет подписку по ID и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, id int, userUID string) (int, error) {
	count, err := s.repo.RemoveSubscription(ctx, id, userUID)
	if err != nil {
		return 0, err
	}

	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "deleted",
			EntityType: "subscription",
			EntityID:   id,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
		s.invalidateFanOut(id, userUID)
	}
	return count, nil
}

// List возвращает список подписок в зависимости от роли пользователя.
// Страницы пользовательского списка кешируются, админский список всегда
// читается из хранилища.
func (s *SubscriptionService) List(ctx context.Context, userUID, role string, limit, offset int) ([]*models.Subscription, error) {
	if role == "admin" {
		return s.repo.ListAllSubscriptions(ctx, limit, offset)
	}

	var result []*models.Subscription
	cacheKey := cache.SubscriptionListKey(userUID, limit, offset)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ListSubscriptions(ctx, userUID, limit, offset)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return result, nil
}
