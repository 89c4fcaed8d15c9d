package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы пожизненной сделки.
const (
	DealActive   = "active"
	DealResold   = "resold"
	DealRefunded = "refunded"
)

// LifetimeDeal представляет единоразовую покупку софта (lifetime deal),
// отслеживаемую ради перепродажи и ROI, а не повторяющихся списаний.
// ResoldPrice и ResoldDate заполнены только при статусе resold.
type LifetimeDeal struct {
	ID            int              `json:"id"`
	UserUID       string           `json:"-"`
	ProductName   string           `json:"product_name"`
	OriginalCost  decimal.Decimal  `json:"original_cost"`
	PurchaseDate  time.Time        `json:"purchase_date"`
	Platform      string           `json:"platform,omitempty"` // Площадка покупки, например AppSumo
	Status        string           `json:"status"`
	ResoldPrice   *decimal.Decimal `json:"resold_price,omitempty"`
	ResoldDate    *time.Time       `json:"resold_date,omitempty"`
	ClientID      *int             `json:"client_id,omitempty"`
	TaxDeductible bool             `json:"tax_deductible"`
	Notes         string           `json:"notes,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	// Присоединенные поля клиента, заполняются при выборке списком
	ClientName  *string `json:"client_name,omitempty"`
	ClientColor *string `json:"client_color,omitempty"`
}

// RealizedGain возвращает зафиксированную прибыль от перепродажи:
// resold_price - original_cost. Для непроданной сделки возвращает ноль.
func (d *LifetimeDeal) RealizedGain() decimal.Decimal {
	if d.Status != DealResold || d.ResoldPrice == nil {
		return decimal.Zero
	}
	return d.ResoldPrice.Sub(d.OriginalCost)
}

// DummyLifetimeDeal используется для приёма данных сделки из JSON-запроса.
type DummyLifetimeDeal struct {
	ProductName   string  `json:"product_name" validate:"required,min=1,max=120"`
	OriginalCost  float64 `json:"original_cost" validate:"required,gt=0"`
	PurchaseDate  string  `json:"purchase_date" validate:"required,datetime=2006-01-02"`
	Platform      string  `json:"platform" validate:"omitempty,max=60"`
	ClientID      *int    `json:"client_id" validate:"omitempty,gt=0"`
	TaxDeductible bool    `json:"tax_deductible"`
	Notes         string  `json:"notes" validate:"omitempty,max=2000"`
}

// DummyResell используется для приёма данных о перепродаже сделки.
type DummyResell struct {
	ResoldPrice float64 `json:"resold_price" validate:"required,gt=0"`
	ResoldDate  string  `json:"resold_date" validate:"required,datetime=2006-01-02"`
}
