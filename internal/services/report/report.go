// Package services строит сводный, налоговый и портфельный отчеты
// по подпискам и пожизненным сделкам пользователя.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bizsubs/bizsubs/internal/cache"
	"github.com/bizsubs/bizsubs/internal/lib/billing"
	"github.com/bizsubs/bizsubs/internal/lib/taxyear"
	"github.com/bizsubs/bizsubs/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ReportRepository определяет выборки, нужные для построения отчетов.
type ReportRepository interface {
	// ListActiveSubscriptions возвращает все активные подписки пользователя.
	ListActiveSubscriptions(ctx context.Context, userUID string) ([]*models.Subscription, error)
	// ListDeals возвращает все сделки пользователя.
	ListDeals(ctx context.Context, userUID string) ([]*models.LifetimeDeal, error)
	// GetPreferences возвращает настройки отчетности пользователя.
	GetPreferences(ctx context.Context, userUID string) (*models.Preferences, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// ReportService реализует построение отчетов с кешированием результатов.
type ReportService struct {
	repo  ReportRepository
	cache Cache
	log   *slog.Logger
}

// NewReportService создает новый экземпляр ReportService.
func NewReportService(repo ReportRepository, cache Cache, log *slog.Logger) *ReportService {
	return &ReportService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

// Summary строит сводный отчет: количество активных подписок, месячный
// и годовой эквиваленты стоимости и распределение расходов по клиентам.
func (s *ReportService) Summary(ctx context.Context, userUID string) (*models.SummaryReport, error) {
	var cached *models.SummaryReport
	cacheKey := cache.SummaryReportKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	subs, err := s.repo.ListActiveSubscriptions(ctx, userUID)
	if err != nil {
		return nil, err
	}

	report := &models.SummaryReport{
		ActiveCount:  len(subs),
		MonthlyTotal: decimal.Zero,
		AnnualTotal:  decimal.Zero,
	}
	type bucket struct {
		clientID *int
		name     string
		total    decimal.Decimal
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, sub := range subs {
		monthly, err := billing.MonthlyEquivalent(sub.Cost, sub.BillingCycle)
		if err != nil {
			return nil, err
		}
		annual, err := billing.AnnualEquivalent(sub.Cost, sub.BillingCycle)
		if err != nil {
			return nil, err
		}
		report.MonthlyTotal = report.MonthlyTotal.Add(monthly)
		report.AnnualTotal = report.AnnualTotal.Add(annual)

		// Подписки без клиента попадают в корзину нераспределенных расходов
		key := "unallocated"
		name := "Unallocated"
		if sub.ClientID != nil && sub.ClientName != nil {
			key = *sub.ClientName
			name = *sub.ClientName
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{clientID: sub.ClientID, name: name, total: decimal.Zero}
			buckets[key] = b
			order = append(order, key)
		}
		b.total = b.total.Add(monthly)
	}

	for _, key := range order {
		b := buckets[key]
		report.ByClient = append(report.ByClient, models.ClientAllocation{
			ClientID:     b.clientID,
			ClientName:   b.name,
			MonthlyTotal: b.total.Round(2),
		})
	}
	report.MonthlyTotal = report.MonthlyTotal.Round(2)
	report.AnnualTotal = report.AnnualTotal.Round(2)

	if err := s.cache.Set(cacheKey, report, time.Hour); err != nil {
		s.log.Warn("failed to cache summary report", slog.Any("err", err))
	}
	return report, nil
}

// Tax строит налоговый отчет за финансовый год с меткой year.
// Окно года берется из настроек пользователя. Подписка дает вычет
// пропорционально числу месячных списаний внутри окна, сделка — целиком,
// если куплена внутри окна.
func (s *ReportService) Tax(ctx context.Context, userUID string, year int) (*models.TaxReport, error) {
	var cached *models.TaxReport
	cacheKey := cache.TaxReportKey(userUID, year)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	prefs, err := s.repo.GetPreferences(ctx, userUID)
	if err != nil {
		return nil, err
	}
	window, err := taxyear.NewWindow(year, prefs.FYStartMonth)
	if err != nil {
		return nil, err
	}

	report := &models.TaxReport{
		Year:            year,
		FYStart:         window.Start,
		FYEnd:           window.End,
		TotalDeductible: decimal.Zero,
		TotalSavings:    decimal.Zero,
	}

	subs, err := s.repo.ListActiveSubscriptions(ctx, userUID)
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		if !sub.TaxDeductible {
			continue
		}
		months := window.MonthsCovered(sub.StartDate, nil)
		if months == 0 {
			continue
		}
		monthly, err := billing.MonthlyEquivalent(sub.Cost, sub.BillingCycle)
		if err != nil {
			return nil, err
		}
		rate := prefs.DefaultTaxRate
		if sub.TaxRate != nil {
			rate = *sub.TaxRate
		}
		spent := monthly.Mul(decimal.NewFromInt(int64(months))).Round(2)
		savings := spent.Mul(rate).Div(hundred).Round(2)
		report.Items = append(report.Items, models.TaxReportItem{
			Source:        "subscription",
			Name:          sub.ServiceName,
			MonthsCovered: months,
			Spent:         spent,
			TaxRate:       rate,
			Savings:       savings,
		})
		report.TotalDeductible = report.TotalDeductible.Add(spent)
		report.TotalSavings = report.TotalSavings.Add(savings)
	}

	deals, err := s.repo.ListDeals(ctx, userUID)
	if err != nil {
		return nil, err
	}
	for _, deal := range deals {
		if !deal.TaxDeductible || deal.Status == models.DealRefunded {
			continue
		}
		if !window.Contains(deal.PurchaseDate) {
			continue
		}
		spent := deal.OriginalCost.Round(2)
		savings := spent.Mul(prefs.DefaultTaxRate).Div(hundred).Round(2)
		report.Items = append(report.Items, models.TaxReportItem{
			Source:        "lifetime_deal",
			Name:          deal.ProductName,
			MonthsCovered: 12,
			Spent:         spent,
			TaxRate:       prefs.DefaultTaxRate,
			Savings:       savings,
		})
		report.TotalDeductible = report.TotalDeductible.Add(spent)
		report.TotalSavings = report.TotalSavings.Add(savings)
	}

	if err := s.cache.Set(cacheKey, report, time.Hour); err != nil {
		s.log.Warn("failed to cache tax report", slog.Any("err", err))
	}
	return report, nil
}

// Portfolio строит отчет по портфелю пожизненных сделок: вложения,
// зафиксированная прибыль от перепродаж и ROI. Возвращенные сделки
// не считаются вложениями.
func (s *ReportService) Portfolio(ctx context.Context, userUID string) (*models.PortfolioReport, error) {
	var cached *models.PortfolioReport
	cacheKey := cache.PortfolioReportKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		return nil, err
	}
	if found {
		return cached, nil
	}

	deals, err := s.repo.ListDeals(ctx, userUID)
	if err != nil {
		return nil, err
	}

	report := &models.PortfolioReport{
		TotalInvested:     decimal.Zero,
		TotalRealizedGain: decimal.Zero,
		ROIPercent:        decimal.Zero,
	}
	for _, deal := range deals {
		switch deal.Status {
		case models.DealActive:
			report.ActiveCount++
			report.TotalInvested = report.TotalInvested.Add(deal.OriginalCost)
		case models.DealResold:
			report.ResoldCount++
			report.TotalInvested = report.TotalInvested.Add(deal.OriginalCost)
			report.TotalRealizedGain = report.TotalRealizedGain.Add(deal.RealizedGain())
		case models.DealRefunded:
			report.RefundedCount++
		}
	}
	if report.TotalInvested.IsPositive() {
		report.ROIPercent = report.TotalRealizedGain.Mul(hundred).Div(report.TotalInvested).Round(2)
	}
	report.TotalInvested = report.TotalInvested.Round(2)
	report.TotalRealizedGain = report.TotalRealizedGain.Round(2)

	if err := s.cache.Set(cacheKey, report, time.Hour); err != nil {
		s.log.Warn("failed to cache portfolio report", slog.Any("err", err))
	}
	return report, nil
}
