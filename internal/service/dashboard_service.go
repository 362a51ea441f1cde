package service

import (
	"context"
	"errors"
	"time"

	"go-sales-desk/internal/cache"
	"go-sales-desk/internal/repository"

	"go.uber.org/zap"
)

type DashboardSummary struct {
	CustomerCount     int64 `json:"customer_count"`
	ProductCount      int64 `json:"product_count"`
	MonthSalesTotal   int64 `json:"month_sales_total"`
	LowStockCount     int64 `json:"low_stock_count"`
	StockValue        int64 `json:"stock_value"`
	LowStockThreshold int   `json:"low_stock_threshold"`
}

type MonthlySales struct {
	Month string `json:"month"` // YYYY-MM
	Total int64  `json:"total"`
}

type StockMovement struct {
	Date     string `json:"date"` // YYYY-MM-DD
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type DashboardService interface {
	Summary(ctx context.Context) (*DashboardSummary, error)
	MonthlySalesTrend(ctx context.Context, months int) ([]MonthlySales, error)
	TopSellingProducts(ctx context.Context, limit int) ([]repository.ProductSales, error)
	StockMovement(ctx context.Context, days int) ([]StockMovement, error)
}

type dashboardService struct {
	reports           repository.ReportRepository
	lowStockThreshold int
	deps              Deps
	now               func() time.Time
}

func NewDashboardService(reports repository.ReportRepository, lowStockThreshold int, deps Deps) DashboardService {
	return &dashboardService{
		reports:           reports,
		lowStockThreshold: lowStockThreshold,
		deps:              deps.withDefaults(),
		now:               func() time.Time { return time.Now().UTC() },
	}
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *dashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var cached DashboardSummary
	err := s.deps.Cache.Get(ctx, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.deps.Log.Warn("dashboard cache read failed", zap.Error(err))
	}

	summary := &DashboardSummary{LowStockThreshold: s.lowStockThreshold}
	if summary.CustomerCount, err = s.reports.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if summary.ProductCount, err = s.reports.CountProducts(ctx); err != nil {
		return nil, err
	}
	if summary.LowStockCount, err = s.reports.CountProductsBelow(ctx, s.lowStockThreshold); err != nil {
		return nil, err
	}
	if summary.StockValue, err = s.reports.StockValuation(ctx); err != nil {
		return nil, err
	}

	from := monthStart(s.now())
	if summary.MonthSalesTotal, err = s.reports.SalesTotalBetween(ctx, from, from.AddDate(0, 1, 0)); err != nil {
		return nil, err
	}

	if err := s.deps.Cache.Set(ctx, summary); err != nil {
		s.deps.Log.Warn("dashboard cache write failed", zap.Error(err))
	}
	return summary, nil
}

// MonthlySalesTrend returns one bucket per month, oldest first, including
// months without sales
func (s *dashboardService) MonthlySalesTrend(ctx context.Context, months int) ([]MonthlySales, error) {
	if months <= 0 {
		months = 12
	}
	start := monthStart(s.now()).AddDate(0, -(months - 1), 0)

	rows, err := s.reports.SalesSince(ctx, start)
	if err != nil {
		return nil, err
	}

	trend := make([]MonthlySales, months)
	index := make(map[string]int, months)
	for i := range trend {
		key := start.AddDate(0, i, 0).Format("2006-01")
		trend[i].Month = key
		index[key] = i
	}
	for _, r := range rows {
		if i, ok := index[r.Date.UTC().Format("2006-01")]; ok {
			trend[i].Total += r.Amount
		}
	}
	return trend, nil
}

func (s *dashboardService) TopSellingProducts(ctx context.Context, limit int) ([]repository.ProductSales, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.reports.TopSellingProducts(ctx, limit)
}

// StockMovement returns per-day inbound and outbound units for the last
// `days` days, today included
func (s *dashboardService) StockMovement(ctx context.Context, days int) ([]StockMovement, error) {
	if days <= 0 {
		days = 7
	}
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	in, err := s.reports.InboundSince(ctx, start)
	if err != nil {
		return nil, err
	}
	out, err := s.reports.OutboundSince(ctx, start)
	if err != nil {
		return nil, err
	}

	movement := make([]StockMovement, days)
	index := make(map[string]int, days)
	for i := range movement {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		movement[i].Date = key
		index[key] = i
	}
	for _, r := range in {
		if i, ok := index[r.Date.UTC().Format("2006-01-02")]; ok {
			movement[i].Inbound += r.Quantity
		}
	}
	for _, r := range out {
		if i, ok := index[r.Date.UTC().Format("2006-01-02")]; ok {
			movement[i].Outbound += r.Quantity
		}
	}
	return movement, nil
}
