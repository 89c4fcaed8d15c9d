// Package billing содержит чистые функции нормализации стоимости подписки
// между разными циклами списания. Все расчеты ведутся в decimal, округление
// до двух знаков выполняется только на границе представления.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	weeksPerYear  = decimal.NewFromInt(52)
	monthsPerYear = decimal.NewFromInt(12)
	three         = decimal.NewFromInt(3)
	four          = decimal.NewFromInt(4)
)

// MonthlyEquivalent приводит стоимость подписки к месячному эквиваленту.
// Недельный цикл считается как 52 списания в год, распределенные на 12 месяцев.
func MonthlyEquivalent(cost decimal.Decimal, cycle string) (decimal.Decimal, error) {
	const op = "billing.MonthlyEquivalent"
	switch cycle {
	case "weekly":
		return cost.Mul(weeksPerYear).Div(monthsPerYear), nil
	case "monthly":
		return cost, nil
	case "quarterly":
		return cost.Div(three), nil
	case "annual":
		return cost.Div(monthsPerYear), nil
	default:
		return decimal.Zero, fmt.Errorf("%s: unknown billing cycle %q", op, cycle)
	}
}

// AnnualEquivalent приводит стоимость подписки к годовому эквиваленту.
func AnnualEquivalent(cost decimal.Decimal, cycle string) (decimal.Decimal, error) {
	const op = "billing.AnnualEquivalent"
	switch cycle {
	case "weekly":
		return cost.Mul(weeksPerYear), nil
	case "monthly":
		return cost.Mul(monthsPerYear), nil
	case "quarterly":
		return cost.Mul(four), nil
	case "annual":
		return cost, nil
	default:
		return decimal.Zero, fmt.Errorf("%s: unknown billing cycle %q", op, cycle)
	}
}

// NextRenewal возвращает дату следующего списания после from для заданного цикла.
func NextRenewal(from time.Time, cycle string) (time.Time, error) {
	const op = "billing.NextRenewal"
	switch cycle {
	case "weekly":
		return from.AddDate(0, 0, 7), nil
	case "monthly":
		return from.AddDate(0, 1, 0), nil
	case "quarterly":
		return from.AddDate(0, 3, 0), nil
	case "annual":
		return from.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%s: unknown billing cycle %q", op, cycle)
	}
}
