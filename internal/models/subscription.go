package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Допустимые значения цикла списания подписки.
const (
	CycleWeekly    = "weekly"
	CycleMonthly   = "monthly"
	CycleQuarterly = "quarterly"
	CycleAnnual    = "annual"
)

// Subscription представляет собой основную модель повторяющейся подписки,
// используемую в бизнес-логике и хранилище. ClientID и ProjectID могут быть
// nil — расходы не отнесены на клиента или проект. TaxRate равен nil, если
// используется ставка по умолчанию из настроек пользователя.
type Subscription struct {
	ID              int              `json:"id"`
	UserUID         string           `json:"-"`
	ServiceName     string           `json:"service_name"`
	Cost            decimal.Decimal  `json:"cost"`
	Currency        string           `json:"currency"`
	BillingCycle    string           `json:"billing_cycle"`
	StartDate       time.Time        `json:"start_date"`
	NextRenewalDate time.Time        `json:"next_renewal_date"`
	ClientID        *int             `json:"client_id,omitempty"`
	ProjectID       *int             `json:"project_id,omitempty"`
	Category        string           `json:"category,omitempty"`
	TaxDeductible   bool             `json:"tax_deductible"`
	TaxRate         *decimal.Decimal `json:"tax_rate,omitempty"`
	IsActive        bool             `json:"is_active"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	// Присоединенные поля клиента, заполняются при выборке списком
	ClientName  *string `json:"client_name,omitempty"`
	ClientColor *string `json:"client_color,omitempty"`
}

// DummySubscription используется для приёма данных подписки из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Даты приходят в виде строк, чтобы их можно было валидировать и парсить вручную.
type DummySubscription struct {
	ServiceName   string   `json:"service_name" validate:"required,min=1,max=120"`
	Cost          float64  `json:"cost" validate:"required,gt=0"`
	Currency      string   `json:"currency" validate:"omitempty,len=3,alpha"`
	BillingCycle  string   `json:"billing_cycle" validate:"required,oneof=weekly monthly quarterly annual"`
	StartDate     string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	ClientID      *int     `json:"client_id" validate:"omitempty,gt=0"`
	ProjectID     *int     `json:"project_id" validate:"omitempty,gt=0"`
	Category      string   `json:"category" validate:"omitempty,max=60"`
	TaxDeductible bool     `json:"tax_deductible"`
	TaxRate       *float64 `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	IsActive      *bool    `json:"is_active"`
	Notes         string   `json:"notes" validate:"omitempty,max=2000"`
}

// RenewalInfo содержит данные для напоминания о предстоящем списании.
type RenewalInfo struct {
	Email           string          `json:"email"`
	Username        string          `json:"username"`
	ServiceName     string          `json:"service_name"`
	Cost            decimal.Decimal `json:"cost"`
	Currency        string          `json:"currency"`
	NextRenewalDate time.Time       `json:"next_renewal_date"`
}
