package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bizsubs/bizsubs/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListActiveSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) ListDeals(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LifetimeDeal), args.Error(1)
}

type TaxReporterMock struct{ mock.Mock }

func (m *TaxReporterMock) Tax(ctx context.Context, userUID string, year int) (*models.TaxReport, error) {
	args := m.Called(ctx, userUID, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TaxReport), args.Error(1)
}

func parseCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	return records
}

func strPtr(v string) *string { return &v }

func TestExportService_Subscriptions(t *testing.T) {
	subs := []*models.Subscription{
		{
			ServiceName:     "Figma",
			Cost:            decimal.NewFromInt(12),
			Currency:        "USD",
			BillingCycle:    "monthly",
			StartDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			NextRenewalDate: time.Date(2025, 9, 15, 0, 0, 0, 0, time.UTC),
			ClientName:      strPtr("Acme"),
			Category:        "design",
			TaxDeductible:   true,
		},
		{
			ServiceName:     "Notion",
			Cost:            decimal.RequireFromString("8.5"),
			Currency:        "USD",
			BillingCycle:    "monthly",
			StartDate:       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
			NextRenewalDate: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	repo := new(RepoMock)
	reports := new(TaxReporterMock)
	svc := NewExportService(repo, reports)

	repo.On("ListActiveSubscriptions", mock.Anything, "uid-1").Return(subs, nil).Once()

	data, err := svc.Subscriptions(context.Background(), "uid-1")
	require.NoError(t, err)

	records := parseCSV(t, data)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"service_name", "cost", "currency", "billing_cycle",
		"start_date", "next_renewal_date", "client", "category", "tax_deductible"}, records[0])
	assert.Equal(t, []string{"Figma", "12.00", "USD", "monthly",
		"2025-01-15", "2025-09-15", "Acme", "design", "true"}, records[1])
	assert.Equal(t, "Notion", records[2][0])
	assert.Equal(t, "8.50", records[2][1])
	// Без клиента и категории поля остаются пустыми
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "false", records[2][8])

	repo.AssertExpectations(t)
}

func TestExportService_Deals(t *testing.T) {
	resoldPrice := decimal.NewFromInt(120)
	resoldDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	deals := []*models.LifetimeDeal{
		{
			ProductName:   "AppSumo SEO Tool",
			OriginalCost:  decimal.NewFromInt(69),
			PurchaseDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Platform:      "AppSumo",
			Status:        models.DealResold,
			ResoldPrice:   &resoldPrice,
			ResoldDate:    &resoldDate,
			TaxDeductible: true,
		},
		{
			ProductName:  "Lifetime CRM",
			OriginalCost: decimal.NewFromInt(49),
			PurchaseDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
			Status:       models.DealActive,
		},
	}

	repo := new(RepoMock)
	reports := new(TaxReporterMock)
	svc := NewExportService(repo, reports)

	repo.On("ListDeals", mock.Anything, "uid-1").Return(deals, nil).Once()

	data, err := svc.Deals(context.Background(), "uid-1")
	require.NoError(t, err)

	records := parseCSV(t, data)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"AppSumo SEO Tool", "69.00", "2025-03-10", "AppSumo",
		"resold", "120.00", "2025-06-01", "51.00", "true"}, records[1])
	// У активной сделки нет цены перепродажи и прибыли
	assert.Equal(t, "", records[2][5])
	assert.Equal(t, "0.00", records[2][7])

	repo.AssertExpectations(t)
}

func TestExportService_TaxReport(t *testing.T) {
	report := &models.TaxReport{
		Year:            2025,
		TotalDeductible: decimal.RequireFromString("213.00"),
		TotalSavings:    decimal.RequireFromString("42.60"),
		Items: []models.TaxReportItem{
			{
				Source:        "subscription",
				Name:          "Figma",
				MonthsCovered: 12,
				Spent:         decimal.NewFromInt(144),
				TaxRate:       decimal.NewFromInt(20),
				Savings:       decimal.RequireFromString("28.8"),
			},
			{
				Source:        "lifetime_deal",
				Name:          "AppSumo SEO Tool",
				MonthsCovered: 12,
				Spent:         decimal.NewFromInt(69),
				TaxRate:       decimal.NewFromInt(20),
				Savings:       decimal.RequireFromString("13.8"),
			},
		},
	}

	repo := new(RepoMock)
	reports := new(TaxReporterMock)
	svc := NewExportService(repo, reports)

	reports.On("Tax", mock.Anything, "uid-1", 2025).Return(report, nil).Once()

	data, err := svc.TaxReport(context.Background(), "uid-1", 2025)
	require.NoError(t, err)

	records := parseCSV(t, data)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"source", "name", "months_covered", "spent", "tax_rate", "savings"}, records[0])
	assert.Equal(t, []string{"subscription", "Figma", "12", "144.00", "20.00", "28.80"}, records[1])
	// Итоговая строка закрывает файл
	assert.Equal(t, []string{"total", "FY 2025", "", "213.00", "", "42.60"}, records[3])

	reports.AssertExpectations(t)
}

func TestExportService_TaxReport_Error(t *testing.T) {
	repo := new(RepoMock)
	reports := new(TaxReporterMock)
	svc := NewExportService(repo, reports)

	reports.On("Tax", mock.Anything, "uid-1", 2025).Return(nil, errors.New("db error")).Once()

	data, err := svc.TaxReport(context.Background(), "uid-1", 2025)
	assert.Error(t, err)
	assert.Nil(t, data)

	reports.AssertExpectations(t)
}
