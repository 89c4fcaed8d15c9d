package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsubs/bizsubs/internal/models"
)

const subscriptionColumns = `s.id, s.user_uid, s.service_name, s.cost, s.currency,
	s.billing_cycle, s.start_date, s.next_renewal_date, s.client_id, s.project_id,
	s.category, s.tax_deductible, s.tax_rate, s.is_active, s.notes, s.created_at, s.updated_at`

// scanSubscription читает строку выборки подписки вместе с присоединенными
// полями клиента.
func scanSubscription(rows *sql.Rows) (*models.Subscription, error) {
	var item models.Subscription
	var clientID, projectID sql.NullInt64
	var taxRate decimal.NullDecimal
	var clientName, clientColor sql.NullString
	if err := rows.Scan(&item.ID, &item.UserUID, &item.ServiceName, &item.Cost,
		&item.Currency, &item.BillingCycle, &item.StartDate, &item.NextRenewalDate,
		&clientID, &projectID, &item.Category, &item.TaxDeductible, &taxRate,
		&item.IsActive, &item.Notes, &item.CreatedAt, &item.UpdatedAt,
		&clientName, &clientColor); err != nil {
		return nil, err
	}
	if clientID.Valid {
		v := int(clientID.Int64)
		item.ClientID = &v
	}
	if projectID.Valid {
		v := int(projectID.Int64)
		item.ProjectID = &v
	}
	if taxRate.Valid {
		item.TaxRate = &taxRate.Decimal
	}
	if clientName.Valid {
		item.ClientName = &clientName.String
	}
	if clientColor.Valid {
		item.ClientColor = &clientColor.String
	}
	return &item, nil
}

// CreateSubscription вставляет новую запись подписки и возвращает её ID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var taxRate decimal.NullDecimal
	if sub.TaxRate != nil {
		taxRate = decimal.NewNullDecimal(*sub.TaxRate)
	}
	query := `INSERT INTO subscriptions (user_uid, service_name, cost, currency,
			      billing_cycle, start_date, next_renewal_date, client_id, project_id,
			      category, tax_deductible, tax_rate, is_active, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.UserUID, sub.ServiceName, sub.Cost, sub.Currency, sub.BillingCycle,
		sub.StartDate, sub.NextRenewalDate, sub.ClientID, sub.ProjectID,
		sub.Category, sub.TaxDeductible, taxRate, sub.IsActive, sub.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает данные подписки по её ID в рамках владельца.
func (s *Storage) ReadSubscription(ctx context.Context, id int, userUID string) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `, c.name, c.color
			  FROM subscriptions s
			  LEFT JOIN clients c ON s.client_id = c.id
			  WHERE s.id = $1 AND s.user_uid = $2`
	rows, err := s.DB.QueryContext(ctx, query, id, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	result, err := scanSubscription(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscription обновляет данные подписки и возвращает количество
// изменённых строк.
func (s *Storage) UpdateSubscription(ctx context.Context, sub models.Subscription, id int, userUID string) (int, error) {
	const op = "storage.UpdateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var taxRate decimal.NullDecimal
	if sub.TaxRate != nil {
		taxRate = decimal.NewNullDecimal(*sub.TaxRate)
	}
	query := `UPDATE subscriptions
			  SET service_name = $1, cost = $2, currency = $3, billing_cycle = $4,
			      start_date = $5, next_renewal_date = $6, client_id = $7,
			      project_id = $8, category = $9, tax_deductible = $10,
			      tax_rate = $11, is_active = $12, notes = $13, updated_at = now()
			  WHERE id = $14 AND user_uid = $15`
	result, err := s.DB.ExecContext(ctx, query,
		sub.ServiceName, sub.Cost, sub.Currency, sub.BillingCycle, sub.StartDate,
		sub.NextRenewalDate, sub.ClientID, sub.ProjectID, sub.Category,
		sub.TaxDeductible, taxRate, sub.IsActive, sub.Notes, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveSubscription удаляет подписку и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1 AND user_uid = $2`
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

// ListSubscriptions возвращает список подписок пользователя с пагинацией
// и присоединенными полями клиента.
func (s *Storage) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `, c.name, c.color
			  FROM subscriptions s
			  LEFT JOIN clients c ON s.client_id = c.id
			  WHERE s.user_uid = $1
			  ORDER BY s.id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListAllSubscriptions возвращает список всех подписок с пагинацией,
// используется администратором.
func (s *Storage) ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error) {
	const op = "storage.ListAllSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `, c.name, c.color
			  FROM subscriptions s
			  LEFT JOIN clients c ON s.client_id = c.id
			  ORDER BY s.id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListActiveSubscriptions возвращает все активные подписки пользователя
// без пагинации, используется отчетами и экспортом.
func (s *Storage) ListActiveSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	const op = "storage.ListActiveSubscriptions"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `, c.name, c.color
			  FROM subscriptions s
			  LEFT JOIN clients c ON s.client_id = c.id
			  WHERE s.user_uid = $1 AND s.is_active = true
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindRenewalsDueTomorrow находит активные подписки со списанием завтра,
// используется планировщиком напоминаний.
func (s *Storage) FindRenewalsDueTomorrow(ctx context.Context) ([]*models.RenewalInfo, error) {
	const op = "storage.FindRenewalsDueTomorrow"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.email, u.username, s.service_name, s.cost, s.currency, s.next_renewal_date
			  FROM subscriptions s
			  JOIN users u ON s.user_uid = u.uid
			  WHERE s.is_active = true
			    AND s.next_renewal_date = CURRENT_DATE + INTERVAL '1 day'`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.RenewalInfo
	for rows.Next() {
		var ri models.RenewalInfo
		if err := rows.Scan(&ri.Email, &ri.Username, &ri.ServiceName, &ri.Cost,
			&ri.Currency, &ri.NextRenewalDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &ri)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindOverdueRenewals находит активные подписки с прошедшей датой списания.
func (s *Storage) FindOverdueRenewals(ctx context.Context) ([]*models.Subscription, error) {
	const op = "storage.FindOverdueRenewals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + subscriptionColumns + `, c.name, c.color
			  FROM subscriptions s
			  LEFT JOIN clients c ON s.client_id = c.id
			  WHERE s.is_active = true
			    AND s.next_renewal_date < CURRENT_DATE`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		item, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateNextRenewalDate обновляет дату следующего списания.
func (s *Storage) UpdateNextRenewalDate(ctx context.Context, id int, next time.Time) (int, error) {
	const op = "storage.UpdateNextRenewalDate"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET next_renewal_date = $1, updated_at = now()
			  WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, next, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
