// Package services содержит бизнес-логику для управления проектами.
package services

import (
	"context"
	"log/slog"

	"github.com/bizsubs/bizsubs/internal/models"
)

// ProjectRepository определяет методы для работы с проектами в хранилище.
type ProjectRepository interface {
	// CreateProject добавляет новый проект и возвращает его ID.
	CreateProject(ctx context.Context, p models.Project) (int, error)
	// UpdateProject обновляет данные проекта.
	UpdateProject(ctx context.Context, p models.Project, id int, userUID string) (int, error)
	// RemoveProject удаляет проект и возвращает количество удалённых записей.
	RemoveProject(ctx context.Context, id int, userUID string) (int, error)
	// ListProjects возвращает проекты пользователя, опционально по клиенту.
	ListProjects(ctx context.Context, userUID string, clientID *int) ([]*models.Project, error)
	// InsertActivity записывает действие пользователя в журнал.
	InsertActivity(ctx context.Context, a models.ActivityLog) error
}

// ProjectService реализует бизнес-логику работы с проектами.
type ProjectService struct {
	repo ProjectRepository
	log  *slog.Logger
}

// NewProjectService создает новый экземпляр ProjectService.
func NewProjectService(repo ProjectRepository, log *slog.Logger) *ProjectService {
	return &ProjectService{
		repo: repo,
		log:  log,
	}
}

func fromDummy(req models.DummyProject, userUID string) models.Project {
	return models.Project{
		UserUID:    userUID,
		ClientID:   req.ClientID,
		Name:       req.Name,
		IsArchived: req.IsArchived,
	}
}

// Create создает новый проект и возвращает его ID.
func (s *ProjectService) Create(ctx context.Context, userUID string, req models.DummyProject) (int, error) {
	id, err := s.repo.CreateProject(ctx, fromDummy(req, userUID))
	if err != nil {
		return 0, err
	}
	s.log.Info("created new project", slog.Int("id", id))

	if err := s.repo.InsertActivity(ctx, models.ActivityLog{
		UserUID:    userUID,
		Action:     "created",
		EntityType: "project",
		EntityID:   id,
		Details:    req.Name,
	}); err != nil {
		s.log.Warn("failed to log activity", slog.Any("err", err))
	}
	return id, nil
}

// Update обновляет проект.
func (s *ProjectService) Update(ctx context.Context, req models.DummyProject, id int, userUID string) (int, error) {
	count, err := s.repo.UpdateProject(ctx, fromDummy(req, userUID), id, userUID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "updated",
			EntityType: "project",
			EntityID:   id,
			Details:    req.Name,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
	}
	return count, nil
}

// Remove удаляет проект. Подписки проекта остаются с project_id = NULL.
func (s *ProjectService) Remove(ctx context.Context, id int, userUID string) (int, error) {
	count, err := s.repo.RemoveProject(ctx, id, userUID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    userUID,
			Action:     "deleted",
			EntityType: "project",
			EntityID:   id,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
	}
	return count, nil
}

// List возвращает проекты пользователя, опционально отфильтрованные по клиенту.
func (s *ProjectService) List(ctx context.Context, userUID string, clientID *int) ([]*models.Project, error) {
	return s.repo.ListProjects(ctx, userUID, clientID)
}
