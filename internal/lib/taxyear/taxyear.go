// Package taxyear реализует окно финансового года и подсчет числа месячных
// списаний подписки, попадающих в это окно. Финансовый год настраивается
// пользователем и не обязан совпадать с календарным.
package taxyear

import (
	"fmt"
	"time"
)

// Window — полуинтервал финансового года [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow строит окно финансового года с меткой year: окно начинается
// первого числа startMonth года year и длится ровно 12 месяцев.
func NewWindow(year, startMonth int) (Window, error) {
	const op = "taxyear.NewWindow"
	if startMonth < 1 || startMonth > 12 {
		return Window{}, fmt.Errorf("%s: start month %d out of range", op, startMonth)
	}
	start := time.Date(year, time.Month(startMonth), 1, 0, 0, 0, 0, time.UTC)
	return Window{Start: start, End: start.AddDate(1, 0, 0)}, nil
}

// Contains сообщает, попадает ли дата внутрь окна.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && d.Before(w.End)
}

// MonthsCovered считает количество месячных списаний подписки внутри окна.
// Подписка активна с subStart до subEnd, nil означает бессрочную подписку.
// Результат всегда в пределах [0, 12]: пропорциональная экономия не может
// превысить годовую стоимость, умноженную на ставку.
func (w Window) MonthsCovered(subStart time.Time, subEnd *time.Time) int {
	overlapStart := subStart
	if overlapStart.Before(w.Start) {
		overlapStart = w.Start
	}
	overlapEnd := w.End
	if subEnd != nil && subEnd.Before(overlapEnd) {
		overlapEnd = *subEnd
	}
	if !overlapStart.Before(overlapEnd) {
		return 0
	}

	months := (overlapEnd.Year()-overlapStart.Year())*12 +
		int(overlapEnd.Month()) - int(overlapStart.Month())
	// Начатый месяц считается целиком
	if overlapEnd.Day() > overlapStart.Day() {
		months++
	}
	if months < 1 {
		months = 1
	}
	if months > 12 {
		months = 12
	}
	return months
}
