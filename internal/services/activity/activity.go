// Package services содержит бизнес-логику чтения журнала действий.
package services

import (
	"context"

	"github.com/bizsubs/bizsubs/internal/models"
)

// ActivityRepository определяет методы чтения журнала действий.
type ActivityRepository interface {
	// ListActivity возвращает журнал действий пользователя с пагинацией.
	ListActivity(ctx context.Context, userUID string, limit, offset int) ([]*models.ActivityLog, error)
}

// ActivityService отдает журнал действий пользователя. Записи в журнал
// создаются сервисами сущностей при каждой мутации.
type ActivityService struct {
	repo ActivityRepository
}

// NewActivityService создает новый экземпляр ActivityService.
func NewActivityService(repo ActivityRepository) *ActivityService {
	return &ActivityService{repo: repo}
}

// List возвращает журнал действий пользователя, последние действия первыми.
func (s *ActivityService) List(ctx context.Context, userUID string, limit, offset int) ([]*models.ActivityLog, error) {
	return s.repo.ListActivity(ctx, userUID, limit, offset)
}
