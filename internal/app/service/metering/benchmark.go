package metering

import (
	"context"
	"time"

	"github.com/samber/lo"

	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/tool"
	"github.com/propfolio/metering/pkg/types"
)

// BenchmarkResult is the platform-wide conversion benchmark over a
// trailing window.
type BenchmarkResult struct {
	AverageConversionRate float64 `json:"average_conversion_rate"`
	SampleSize            int     `json:"sample_size"`
	PeriodStart           string  `json:"period_start"`
	PeriodEnd             string  `json:"period_end"`
}

type tenantTotals struct {
	TenantID    string `gorm:"column:tenant_id"`
	Impressions int64  `gorm:"column:impressions"`
	Leads       int64  `gorm:"column:leads"`
}

// PlatformAverage averages per-tenant conversion rates across active
// tenants over the trailing window. Each tenant's rate comes from its
// own summed impressions and leads first, then the ratios are averaged;
// tenants without impressions in the window drop out of the sample
// instead of dragging the average down as zeros.
func (s *Service) PlatformAverage(ctx context.Context, windowDays int) (*BenchmarkResult, error) {
	if windowDays <= 0 {
		windowDays = s.cfg.Benchmark.WindowDays
	}
	now := time.Now().UTC()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -(windowDays - 1))
	startStr := start.Format(time.DateOnly)
	endStr := end.Format(time.DateOnly)

	var rows []tenantTotals
	err := s.db.WithContext(ctx).
		Table("daily_metric AS dm").
		Select("dm.tenant_id AS tenant_id, SUM(dm.impressions) AS impressions, SUM(dm.leads_generated) AS leads").
		Joins("JOIN subscription sub ON sub.tenant_id = dm.tenant_id").
		Where("sub.status = ?", types.SubscriptionStatusActive).
		Where("dm.metric_date >= ? AND dm.metric_date <= ?", startStr, endStr).
		Group("dm.tenant_id").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Transient("failed to load benchmark totals", err)
	}

	rates := lo.FilterMap(rows, func(r tenantTotals, _ int) (float64, bool) {
		if r.Impressions <= 0 {
			return 0, false
		}
		return float64(r.Leads) / float64(r.Impressions) * 100, true
	})

	result := &BenchmarkResult{SampleSize: len(rates), PeriodStart: startStr, PeriodEnd: endStr}
	if len(rates) > 0 {
		result.AverageConversionRate = tool.Round2(lo.Sum(rates) / float64(len(rates)))
	}
	return result, nil
}
