package repository

import (
	"context"
	"fmt"

	"github.com/bizsubs/bizsubs/internal/models"
)

// CreatePreferences создает настройки пользователя со значениями по умолчанию,
// вызывается при регистрации.
func (s *Storage) CreatePreferences(ctx context.Context, p models.Preferences) error {
	const op = "storage.CreatePreferences"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO user_preferences (user_uid, fy_start_month, default_tax_rate, currency)
			  VALUES ($1, $2, $3, $4)`
	if _, err := s.DB.ExecContext(ctx, query,
		p.UserUID, p.FYStartMonth, p.DefaultTaxRate, p.Currency); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPreferences возвращает настройки пользователя.
func (s *Storage) GetPreferences(ctx context.Context, userUID string) (*models.Preferences, error) {
	const op = "storage.GetPreferences"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, fy_start_month, default_tax_rate, currency
			  FROM user_preferences
			  WHERE user_uid = $1`
	p := &models.Preferences{}
	row := s.DB.QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&p.UserUID, &p.FYStartMonth, &p.DefaultTaxRate, &p.Currency); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// UpdatePreferences обновляет настройки пользователя и возвращает
// количество изменённых строк.
func (s *Storage) UpdatePreferences(ctx context.Context, p models.Preferences) (int, error) {
	const op = "storage.UpdatePreferences"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE user_preferences
			  SET fy_start_month = $1, default_tax_rate = $2, currency = $3
			  WHERE user_uid = $4`
	result, err := s.DB.ExecContext(ctx, query,
		p.FYStartMonth, p.DefaultTaxRate, p.Currency, p.UserUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
