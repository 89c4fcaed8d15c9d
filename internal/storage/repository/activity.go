package repository

import (
	"context"
	"fmt"

	"github.com/bizsubs/bizsubs/internal/models"
)

// InsertActivity записывает действие пользователя в журнал.
func (s *Storage) InsertActivity(ctx context.Context, a models.ActivityLog) error {
	const op = "storage.InsertActivity"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO activity_logs (user_uid, action, entity_type, entity_id, details)
			  VALUES ($1, $2, $3, $4, $5)`
	if _, err := s.DB.ExecContext(ctx, query,
		a.UserUID, a.Action, a.EntityType, a.EntityID, a.Details); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListActivity возвращает журнал действий пользователя с пагинацией,
// последние действия первыми.
func (s *Storage) ListActivity(ctx context.Context, userUID string, limit, offset int) ([]*models.ActivityLog, error) {
	const op = "storage.ListActivity"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, action, entity_type, entity_id, details, created_at
			  FROM activity_logs
			  WHERE user_uid = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ActivityLog
	for rows.Next() {
		var a models.ActivityLog
		if err := rows.Scan(&a.ID, &a.UserUID, &a.Action, &a.EntityType,
			&a.EntityID, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
