package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/bizsubs/bizsubs/internal/models"
)

// CreateProject вставляет новый проект и возвращает его ID.
func (s *Storage) CreateProject(ctx context.Context, p models.Project) (int, error) {
	const op = "storage.CreateProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO projects (user_uid, client_id, name, is_archived)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.ClientID, p.Name, p.IsArchived).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateProject обновляет проект и возвращает количество изменённых строк.
func (s *Storage) UpdateProject(ctx context.Context, p models.Project, id int, userUID string) (int, error) {
	const op = "storage.UpdateProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE projects
			  SET client_id = $1, name = $2, is_archived = $3
			  WHERE id = $4 AND user_uid = $5`
	result, err := s.DB.ExecContext(ctx, query, p.ClientID, p.Name, p.IsArchived, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveProject удаляет проект и возвращает количество удалённых строк.
func (s *Storage) RemoveProject(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.RemoveProject"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM projects WHERE id = $1 AND user_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListProjects возвращает проекты пользователя, опционально отфильтрованные
// по клиенту, с присоединенным именем клиента.
func (s *Storage) ListProjects(ctx context.Context, userUID string, clientID *int) ([]*models.Project, error) {
	const op = "storage.ListProjects"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.id, p.user_uid, p.client_id, p.name, p.is_archived, p.created_at,
			      c.name
			  FROM projects p
			  LEFT JOIN clients c ON p.client_id = c.id
			  WHERE p.user_uid = $1
			    AND ($2::int IS NULL OR p.client_id = $2)
			  ORDER BY p.name`
	rows, err := s.DB.QueryContext(ctx, query, userUID, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Project
	for rows.Next() {
		var p models.Project
		var cid sql.NullInt64
		var cname sql.NullString
		if err := rows.Scan(&p.ID, &p.UserUID, &cid, &p.Name, &p.IsArchived,
			&p.CreatedAt, &cname); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if cid.Valid {
			v := int(cid.Int64)
			p.ClientID = &v
		}
		if cname.Valid {
			p.ClientName = &cname.String
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
