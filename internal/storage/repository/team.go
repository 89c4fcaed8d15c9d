package repository

import (
	"context"
	"fmt"

	"github.com/bizsubs/bizsubs/internal/models"
)

// AddTeamMember сохраняет приглашение участника команды и возвращает его ID.
func (s *Storage) AddTeamMember(ctx context.Context, m models.TeamMember) (int, error) {
	const op = "storage.AddTeamMember"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO team_members (owner_uid, email, member_role, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		m.OwnerUID, m.Email, m.MemberRole, m.Status).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListTeamMembers возвращает участников команды владельца.
func (s *Storage) ListTeamMembers(ctx context.Context, ownerUID string) ([]*models.TeamMember, error) {
	const op = "storage.ListTeamMembers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, owner_uid, email, member_role, status, invited_at
			  FROM team_members
			  WHERE owner_uid = $1
			  ORDER BY invited_at`
	rows, err := s.DB.QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.OwnerUID, &m.Email, &m.MemberRole,
			&m.Status, &m.InvitedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// RemoveTeamMember удаляет участника команды и возвращает количество
// удалённых строк.
func (s *Storage) RemoveTeamMember(ctx context.Context, id int, ownerUID string) (int, error) {
	const op = "storage.RemoveTeamMember"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM team_members WHERE id = $1 AND owner_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, ownerUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
