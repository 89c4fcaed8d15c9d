package models

import "github.com/shopspring/decimal"

// Preferences хранит пользовательские настройки отчетности.
// FYStartMonth задает месяц начала финансового года (1..12),
// он не обязан совпадать с календарным.
type Preferences struct {
	UserUID        string          `json:"-"`
	FYStartMonth   int             `json:"fy_start_month"`   // Месяц начала финансового года
	DefaultTaxRate decimal.Decimal `json:"default_tax_rate"` // Ставка налога по умолчанию, проценты
	Currency       string          `json:"currency"`         // Код валюты, например USD
}

// DummyPreferences используется для приёма настроек из JSON-запроса
// до их валидации и преобразования в Preferences.
type DummyPreferences struct {
	FYStartMonth   int     `json:"fy_start_month" validate:"required,min=1,max=12"`
	DefaultTaxRate float64 `json:"default_tax_rate" validate:"gte=0,lte=100"`
	Currency       string  `json:"currency" validate:"required,len=3,alpha"`
}
