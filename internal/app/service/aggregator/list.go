package aggregator

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/types"
)

// ListMetricsRequest is the admin listing query: generic filters plus
// offset pagination and optional sorting.
type ListMetricsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// filtersWhere wraps a list of filters into a single clause.Expression.
type filtersWhere struct{ filters []*types.CommonFilter }

func (w filtersWhere) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	for i, f := range w.filters {
		if i > 0 {
			builder.WriteString(" AND ")
		}
		f.Build(builder)
	}
}

var sortableColumns = map[string]bool{
	"metric_date":     true,
	"tenant_id":       true,
	"impressions":     true,
	"leads_generated": true,
	"conversion_rate": true,
}

// ListDailyMetrics serves the admin dashboard listing.
func (s *Service) ListDailyMetrics(ctx context.Context, req *ListMetricsRequest) ([]*models.DailyMetric, int64, error) {
	if req == nil {
		req = &ListMetricsRequest{}
	}
	if req.Size <= 0 || req.Size > 500 {
		req.Size = 50
	}
	if req.From < 0 {
		return nil, 0, apperr.Validationf("from must be >= 0")
	}

	where := clause.Where{Exprs: []clause.Expression{filtersWhere{filters: req.Filters}}}

	var total int64
	if err := s.db.WithContext(ctx).Model(&models.DailyMetric{}).Where(where).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count daily metrics: %w", err)
	}

	order := clause.OrderByColumn{Column: clause.Column{Name: "metric_date"}, Desc: true}
	if req.SortBy != "" && sortableColumns[req.SortBy] {
		order = clause.OrderByColumn{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}
	}

	var rows []*models.DailyMetric
	err := s.db.WithContext(ctx).Where(where).
		Order(order).
		Offset(req.From).
		Limit(req.Size).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list daily metrics: %w", err)
	}
	return rows, total, nil
}
