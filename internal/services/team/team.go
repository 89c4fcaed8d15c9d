// Package services содержит бизнес-логику для управления участниками команды.
package services

import (
	"context"
	"log/slog"

	"github.com/bizsubs/bizsubs/internal/models"
)

// TeamRepository определяет методы для работы с участниками команды в хранилище.
type TeamRepository interface {
	// AddTeamMember сохраняет приглашение участника и возвращает его ID.
	AddTeamMember(ctx context.Context, m models.TeamMember) (int, error)
	// ListTeamMembers возвращает участников команды владельца.
	ListTeamMembers(ctx context.Context, ownerUID string) ([]*models.TeamMember, error)
	// RemoveTeamMember удаляет участника команды.
	RemoveTeamMember(ctx context.Context, id int, ownerUID string) (int, error)
	// InsertActivity записывает действие пользователя в журнал.
	InsertActivity(ctx context.Context, a models.ActivityLog) error
}

// TeamService реализует бизнес-логику работы с командой.
type TeamService struct {
	repo TeamRepository
	log  *slog.Logger
}

// NewTeamService создает новый экземпляр TeamService.
func NewTeamService(repo TeamRepository, log *slog.Logger) *TeamService {
	return &TeamService{
		repo: repo,
		log:  log,
	}
}

// Invite приглашает участника в команду со статусом invited.
func (s *TeamService) Invite(ctx context.Context, ownerUID string, req models.DummyTeamMember) (int, error) {
	member := models.TeamMember{
		OwnerUID:   ownerUID,
		Email:      req.Email,
		MemberRole: req.MemberRole,
		Status:     "invited",
	}
	id, err := s.repo.AddTeamMember(ctx, member)
	if err != nil {
		return 0, err
	}
	s.log.Info("invited team member", slog.Int("id", id))

	if err := s.repo.InsertActivity(ctx, models.ActivityLog{
		UserUID:    ownerUID,
		Action:     "created",
		EntityType: "team_member",
		EntityID:   id,
		Details:    req.Email,
	}); err != nil {
		s.log.Warn("failed to log activity", slog.Any("err", err))
	}
	return id, nil
}

// List возвращает участников команды владельца.
func (s *TeamService) List(ctx context.Context, ownerUID string) ([]*models.TeamMember, error) {
	return s.repo.ListTeamMembers(ctx, ownerUID)
}

// Remove удаляет участника команды.
func (s *TeamService) Remove(ctx context.Context, id int, ownerUID string) (int, error) {
	count, err := s.repo.RemoveTeamMember(ctx, id, ownerUID)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		if err := s.repo.InsertActivity(ctx, models.ActivityLog{
			UserUID:    ownerUID,
			Action:     "deleted",
			EntityType: "team_member",
			EntityID:   id,
		}); err != nil {
			s.log.Warn("failed to log activity", slog.Any("err", err))
		}
	}
	return count, nil
}
