// Package services реализует выгрузку данных пользователя в CSV
// для бухгалтерии и налоговой отчетности.
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/bizsubs/bizsubs/internal/models"
)

// ExportRepository определяет выборки, нужные для выгрузки.
type ExportRepository interface {
	// ListActiveSubscriptions возвращает все активные подписки пользователя.
	ListActiveSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
	// ListDeals возвращает все сделки пользователя.
	ListDeals(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error)
}

// TaxReporter строит налоговый отчет за финансовый год.
type TaxReporter interface {
	Tax(ctx context.Context, userUID string, year int) (*models.TaxReport, error)
}

// ExportService собирает CSV-файлы по данным пользователя.
type ExportService struct {
	repo    ExportRepository
	reports TaxReporter
}

// NewExportService создает новый экземпляр ExportService.
func NewExportService(repo ExportRepository, reports TaxReporter) *ExportService {
	return &ExportService{
		repo:    repo,
		reports: reports,
	}
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Subscriptions выгружает активные подписки пользователя в CSV.
func (s *ExportService) Subscriptions(ctx context.Context, userUID string) ([]byte, error) {
	subs, err := s.repo.ListActiveSubscriptions(ctx, userUID)
	if err != nil {
		return nil, err
	}

	header := []string{"service_name", "cost", "currency", "billing_cycle",
		"start_date", "next_renewal_date", "client", "category", "tax_deductible"}
	rows := make([][]string, 0, len(subs))
	for _, sub := range subs {
		client := ""
		if sub.ClientName != nil {
			client = *sub.ClientName
		}
		rows = append(rows, []string{
			sub.ServiceName,
			sub.Cost.StringFixed(2),
			sub.Currency,
			sub.BillingCycle,
			sub.StartDate.Format("2006-01-02"),
			sub.NextRenewalDate.Format("2006-01-02"),
			client,
			sub.Category,
			strconv.FormatBool(sub.TaxDeductible),
		})
	}
	return writeCSV(header, rows)
}

// Deals выгружает пожизненные сделки пользователя в CSV.
func (s *ExportService) Deals(ctx context.Context, userUID string) ([]byte, error) {
	deals, err := s.repo.ListDeals(ctx, userUID)
	if err != nil {
		return nil, err
	}

	header := []string{"product_name", "original_cost", "purchase_date", "platform",
		"status", "resold_price", "resold_date", "realized_gain", "tax_deductible"}
	rows := make([][]string, 0, len(deals))
	for _, deal := range deals {
		resoldPrice, resoldDate := "", ""
		if deal.ResoldPrice != nil {
			resoldPrice = deal.ResoldPrice.StringFixed(2)
		}
		if deal.ResoldDate != nil {
			resoldDate = deal.ResoldDate.Format("2006-01-02")
		}
		rows = append(rows, []string{
			deal.ProductName,
			deal.OriginalCost.StringFixed(2),
			deal.PurchaseDate.Format("2006-01-02"),
			deal.Platform,
			deal.Status,
			resoldPrice,
			resoldDate,
			deal.RealizedGain().StringFixed(2),
			strconv.FormatBool(deal.TaxDeductible),
		})
	}
	return writeCSV(header, rows)
}

// TaxReport выгружает налоговый отчет за финансовый год в CSV.
// Последней строкой добавляются итоги.
func (s *ExportService) TaxReport(ctx context.Context, userUID string, year int) ([]byte, error) {
	report, err := s.reports.Tax(ctx, userUID, year)
	if err != nil {
		return nil, err
	}

	header := []string{"source", "name", "months_covered", "spent", "tax_rate", "savings"}
	rows := make([][]string, 0, len(report.Items)+1)
	for _, item := range report.Items {
		rows = append(rows, []string{
			item.Source,
			item.Name,
			strconv.Itoa(item.MonthsCovered),
			item.Spent.StringFixed(2),
			item.TaxRate.StringFixed(2),
			item.Savings.StringFixed(2),
		})
	}
	rows = append(rows, []string{
		"total",
		fmt.Sprintf("FY %d", report.Year),
		"",
		report.TotalDeductible.StringFixed(2),
		"",
		report.TotalSavings.StringFixed(2),
	})
	return writeCSV(header, rows)
}
