package taxyear

import (
	"testing"
	"time"
)

func TestNewWindow(t *testing.T) {
	w, err := NewWindow(2024, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !w.Start.Equal(time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", w.Start)
	}
	if !w.End.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("end = %s", w.End)
	}

	if _, err := NewWindow(2024, 13); err == nil {
		t.Error("expected error for month 13")
	}
	if _, err := NewWindow(2024, 0); err == nil {
		t.Error("expected error for month 0")
	}
}

func TestWindowContains(t *testing.T) {
	w, _ := NewWindow(2024, 7)

	if !w.Contains(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("start date must be inside the window")
	}
	if w.Contains(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("end date must be outside the window")
	}
	if w.Contains(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Error("day before start must be outside the window")
	}
}

func TestMonthsCovered(t *testing.T) {
	w, _ := NewWindow(2024, 1) // календарный 2024

	end := func(y int, m time.Month, d int) *time.Time {
		e := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &e
	}

	tests := []struct {
		name     string
		subStart time.Time
		subEnd   *time.Time
		want     int
	}{
		{
			name:     "open ended subscription started before the window",
			subStart: time.Date(2020, 5, 10, 0, 0, 0, 0, time.UTC),
			subEnd:   nil,
			want:     12,
		},
		{
			name:     "started mid-year",
			subStart: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			subEnd:   nil,
			want:     6,
		},
		{
			name:     "started and cancelled inside the window",
			subStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			subEnd:   end(2024, 6, 1),
			want:     3,
		},
		{
			name:     "cancelled before the window",
			subStart: time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC),
			subEnd:   end(2023, 1, 1),
			want:     0,
		},
		{
			name:     "starts after the window",
			subStart: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			subEnd:   nil,
			want:     0,
		},
		{
			name:     "partial month counts as whole",
			subStart: time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC),
			subEnd:   nil,
			want:     1,
		},
		{
			name:     "multi year subscription is clamped to twelve",
			subStart: time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
			subEnd:   end(2030, 1, 1),
			want:     12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := w.MonthsCovered(tt.subStart, tt.subEnd)
			if got != tt.want {
				t.Errorf("MonthsCovered() = %d, want %d", got, tt.want)
			}
			if got < 0 || got > 12 {
				t.Errorf("MonthsCovered() = %d, must stay within [0, 12]", got)
			}
		})
	}
}
