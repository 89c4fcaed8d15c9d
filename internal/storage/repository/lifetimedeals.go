package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsubs/bizsubs/internal/models"
)

const dealColumns = `d.id, d.user_uid, d.product_name, d.original_cost, d.purchase_date,
	d.platform, d.status, d.resold_price, d.resold_date, d.client_id,
	d.tax_deductible, d.notes, d.created_at`

// scanDeal читает строку выборки сделки вместе с присоединенными полями клиента.
func scanDeal(rows *sql.Rows) (*models.LifetimeDeal, error) {
	var item models.LifetimeDeal
	var resoldPrice decimal.NullDecimal
	var resoldDate sql.NullTime
	var clientID sql.NullInt64
	var clientName, clientColor sql.NullString
	if err := rows.Scan(&item.ID, &item.UserUID, &item.ProductName, &item.OriginalCost,
		&item.PurchaseDate, &item.Platform, &item.Status, &resoldPrice, &resoldDate,
		&clientID, &item.TaxDeductible, &item.Notes, &item.CreatedAt,
		&clientName, &clientColor); err != nil {
		return nil, err
	}
	if resoldPrice.Valid {
		item.ResoldPrice = &resoldPrice.Decimal
	}
	if resoldDate.Valid {
		item.ResoldDate = &resoldDate.Time
	}
	if clientID.Valid {
		v := int(clientID.Int64)
		item.ClientID = &v
	}
	if clientName.Valid {
		item.ClientName = &clientName.String
	}
	if clientColor.Valid {
		item.ClientColor = &clientColor.String
	}
	return &item, nil
}

// CreateDeal вставляет новую пожизненную сделку и возвращает её ID.
func (s *Storage) CreateDeal(ctx context.Context, d models.LifetimeDeal) (int, error) {
	const op = "storage.CreateDeal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO lifetime_deals (user_uid, product_name, original_cost,
			      purchase_date, platform, status, client_id, tax_deductible, notes)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		d.UserUID, d.ProductName, d.OriginalCost, d.PurchaseDate, d.Platform,
		d.Status, d.ClientID, d.TaxDeductible, d.Notes).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadDeal возвращает сделку по ID в рамках владельца.
func (s *Storage) ReadDeal(ctx context.Context, id int, userUID string) (*models.LifetimeDeal, error) {
	const op = "storage.ReadDeal"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + dealColumns + `, c.name, c.color
			  FROM lifetime_deals d
			  LEFT JOIN clients c ON d.client_id = c.id
			  WHERE d.id = $1 AND d.user_uid = $2`
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
	result, err := scanDeal(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateDeal обновляет сделку и возвращает количество изменённых строк.
func (s *Storage) UpdateDeal(ctx context.Context, d models.LifetimeDeal, id int, userUID string) (int, error) {
	const op = "storage.UpdateDeal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lifetime_deals
			  SET product_name = $1, original_cost = $2, purchase_date = $3,
			      platform = $4, client_id = $5, tax_deductible = $6, notes = $7
			  WHERE id = $8 AND user_uid = $9`
	result, err := s.DB.ExecContext(ctx, query,
		d.ProductName, d.OriginalCost, d.PurchaseDate, d.Platform, d.ClientID,
		d.TaxDeductible, d.Notes, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveDeal удаляет сделку и возвращает количество удалённых строк.
func (s *Storage) RemoveDeal(ctx context.Context, id int, userUID string) (int, error) {
	const op = "storage.RemoveDeal"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM lifetime_deals WHERE id = $1 AND user_uid = $2`
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

// ListDeals возвращает все сделки пользователя с присоединенными полями клиента.
func (s *Storage) ListDeals(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error) {
	const op = "storage.ListDeals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + dealColumns + `, c.name, c.color
			  FROM lifetime_deals d
			  LEFT JOIN clients c ON d.client_id = c.id
			  WHERE d.user_uid = $1
			  ORDER BY d.id`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.LifetimeDeal
	for rows.Next() {
		item, err := scanDeal(rows)
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

// MarkDealResold помечает активную сделку проданной и возвращает количество
// изменённых строк. Возвращенные (refunded) и уже проданные сделки
// перепродать нельзя, условие по статусу отбросит их.
func (s *Storage) MarkDealResold(ctx context.Context, id int, userUID string, price decimal.Decimal, date time.Time) (int, error) {
	const op = "storage.MarkDealResold"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE lifetime_deals
			  SET status = 'resold', resold_price = $1, resold_date = $2
			  WHERE id = $3 AND user_uid = $4 AND status = 'active'`
	result, err := s.DB.ExecContext(ctx, query, price, date, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
