package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ClientAllocation — суммарная месячная стоимость подписок,
// отнесенных на одного клиента. ClientID равен nil для нераспределенных расходов.
type ClientAllocation struct {
	ClientID     *int            `json:"client_id,omitempty"`
	ClientName   string          `json:"client_name"`
	MonthlyTotal decimal.Decimal `json:"monthly_total"`
}

// SummaryReport — сводный отчет по активным подпискам пользователя.
type SummaryReport struct {
	ActiveCount  int                `json:"active_count"`
	MonthlyTotal decimal.Decimal    `json:"monthly_total"`
	AnnualTotal  decimal.Decimal    `json:"annual_total"`
	ByClient     []ClientAllocation `json:"by_client"`
}

// TaxReportItem — одна строка налогового отчета: вычитаемый расход
// с пропорциональным распределением по финансовому году.
type TaxReportItem struct {
	Source        string          `json:"source"` // subscription или lifetime_deal
	Name          string          `json:"name"`
	MonthsCovered int             `json:"months_covered"` // 0..12, для сделок всегда 12
	Spent         decimal.Decimal `json:"spent"`          // Потрачено внутри финансового года
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Savings       decimal.Decimal `json:"savings"` // Spent * TaxRate / 100
}

// TaxReport — налоговый отчет за финансовый год пользователя.
type TaxReport struct {
	Year            int             `json:"year"`     // Метка года начала окна
	FYStart         time.Time       `json:"fy_start"` // Включительно
	FYEnd           time.Time       `json:"fy_end"`   // Исключительно
	Items           []TaxReportItem `json:"items"`
	TotalDeductible decimal.Decimal `json:"total_deductible"`
	TotalSavings    decimal.Decimal `json:"total_savings"`
}

// PortfolioReport — отчет по портфелю пожизненных сделок.
type PortfolioReport struct {
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalRealizedGain decimal.Decimal `json:"total_realized_gain"`
	ActiveCount       int             `json:"active_count"`
	ResoldCount       int             `json:"resold_count"`
	RefundedCount     int             `json:"refunded_count"`
	ROIPercent        decimal.Decimal `json:"roi_percent"` // Прибыль к вложениям, проценты
}
