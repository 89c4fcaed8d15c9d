// Package services содержит бизнес-логику для управления клиентами.
package services

import (
	"context"
	"log/slog"

	"github.com/bizsubs/bizsubs/internal/cache"
	"github.com/bizsubs/bizsubs/internal/models"
)

// ClientRepository определяет методы для работы с клиентами в хранилище.
type ClientRepository interface {
	// CreateClient добавляет нового клиента и возвращает его ID.
	CreateClient(ctx context.Context, c models.Client) (int, error)
	// ReadClient возвращает клиента по ID в рамках владельца.
	ReadClient(ctx context.Context, id int, userUID string) (*models.Client, error)
	// UpdateClient обновляет данные клиента.
	UpdateClient(ctx context.Context, c models.Client, id int, userUID string) (int, error)
	// RemoveClient удаляет клиента и возвращает количество удалённых записей.
	RemoveClient(ctx context.Context, id int, userUID string) (int, error)
	// ListClients возвращает всех клиентов пользователя.
	ListClients(ctx context.Context, userUID string) ([]*models.Client, error)
	// InsertActivity записывает действие пользователя в журнал.
	InsertActivity(ctx context.Context, a models.ActivityLog) error
}

// Cache описывает методы для инвалидации кеша.
type Cache interface {
	Invalidate(keys ...string) error
	InvalidatePattern(pattern string) error
}

// ClientService реализует бизнес-логику работы с клиентами.
type ClientService struct {
	repo  ClientRepository
	cache Cache
	log   *slog.Logger
}

// NewClientService создает новый экземпляр ClientService.
func NewClientService(repo ClientRepository, cache Cache, log *slog.Logger) *ClientService {
	return &ClientService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// invalidateFanOut сбрасывает кешированные списки и отчеты, в которые
// попадают присоединенные поля клиента.
func (s *ClientService) invalidateFanOut(userUID string) {
	keys := []string{
		cache.DealListKey(userUID),
		cache.SummaryReportKey(userUID),
	}
	if err := s.cache.Invalidate(keys...); err != nil {
		s.log.Warn("failed to invalidate cache", slog.Any("err", err))
	}
	if err := s.cache.InvalidatePattern(cache.SubscriptionListPattern(userUID)); err != nil {
		s.log.Warn("failed to invalidate subscription lists", slog.Any("err", err))
	}
}

func fromDummy(req models.DummyClient, userUID string) models.Client {
	return models.Client{
		UserUID:      userUID,
		Name:         req.Name,
		Color:        req.Color,
		ContactEmail: req.ContactEmail,
		IsArchived:   req.IsArchived,
	}
}

// Create создает нового клиента и возвращает его ID.
func (s *ClientService) Create(ctx context.Context, userUID string, req models.DummyClient) (int, error) {
	id, err := s.repo.CreateClient(ctx, fromDummy(req, userUID))
	if err != nil {
		return 0, err
	}
	s.log.Info("created new client", slog.Int("id", id))

	if err := s.repo.InsertActivity(ctx, models.ActivityLog{
		UserUID:    userUID,
		Action:     "created",
		EntityType: "client",
		EntityID:   id,
		Details:    req.Name,
	}); err != nil {
		s.log.Warn("failed to log activity", slog.Any("err", err))
	}
	return id, nil
}

// Read возвращает клиента по ID.
func (s *ClientService) Read(ctx context.Context, id int, userUID string) (*models.Client, error) {
	return s.repo.ReadClient(ctx, id, userUID)
}

// Update обновляет клиента и сбрасывает зависящие от него списки.
func (s *ClientService) Update(ctx context.Context, req models.DummyClient, id int, userUID string) (int, error) {
	count, err := s.repo.UpdateClient(ctx, fromDummy(req, userUID), id, userUID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "updated",
			EntityType: "client",
			EntityID:   id,
			Details:    req.Name,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
		s.invalidateFanOut(userUID)
	}
	return count, nil
}

// Remove удаляет клиента. Подписки и сделки клиента остаются
// с нераспределенными расходами.
func (s *ClientService) Remove(ctx context.Context, id int, userUID string) (int, error) {
	count, err := s.repo.RemoveClient(ctx, id, userUID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "deleted",
			EntityType: "client",
			EntityID:   id,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
		s.invalidateFanOut(userUID)
	}
	return count, nil
}

// List возвращает всех клиентов пользователя.
func (s *ClientService) List(ctx context.Context, userUID string) ([]*models.Client, error) {
	return s.repo.ListClients(ctx, userUID)
}
