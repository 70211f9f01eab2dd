package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/logctx"
	"github.com/propfolio/metering/pkg/tool"
	"github.com/propfolio/metering/pkg/types"
)

// EventCounter is the read-only view over the raw widget event store.
type EventCounter interface {
	CountEvents(ctx context.Context, widgetID string, kinds []types.EventKind, from, to time.Time) (int64, error)
}

// maxRangeDays caps one Aggregate call; longer backfills are split by
// the caller into multiple requests.
const maxRangeDays = 366

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	events EventCounter
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, events EventCounter) *Service {
	return &Service{db: db, log: log, events: events}
}

// Aggregate folds raw events into one DailyMetric row per calendar day
// in [from, to] inclusive. Each day's upsert is independently atomic, so
// a failed day never corrupts its neighbors; failed days are collected
// and returned joined while the remaining days keep processing.
// Re-running over an unchanged event set rewrites identical values.
func (s *Service) Aggregate(ctx context.Context, tenantID, widgetID string, from, to time.Time) error {
	if tenantID == "" || widgetID == "" {
		return apperr.Validationf("tenant_id and widget_id are required")
	}
	if from.IsZero() || to.IsZero() {
		return apperr.Validationf("date range is required")
	}
	start := truncateDay(from)
	end := truncateDay(to)
	if end.Before(start) {
		return apperr.Validationf("date range end %s precedes start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if end.Sub(start) > maxRangeDays*24*time.Hour {
		return apperr.Validationf("date range exceeds %d days", maxRangeDays)
	}

	var aggErr error
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return errors.Join(aggErr, err)
		}
		if err := s.aggregateDay(ctx, tenantID, widgetID, day); err != nil {
			aggErr = errors.Join(aggErr, fmt.Errorf("day %s: %w", day.Format(time.DateOnly), err))
			logctx.FromCtx(ctx, s.log).Warnw("daily aggregation failed",
				"tenant_id", tenantID, "widget_id", widgetID,
				"date", day.Format(time.DateOnly), "err", err)
			continue
		}
	}
	return aggErr
}

type dayCounts struct {
	impressions int64
	clicks      int64
	leads       int64
	valuations  int64
}

// countDay runs the four per-kind scans concurrently; they are
// independent reads over the same immutable day window.
func (s *Service) countDay(ctx context.Context, widgetID string, dayStart, dayEnd time.Time) (*dayCounts, error) {
	var counts dayCounts
	jobs := []struct {
		name  string
		kinds []types.EventKind
		dst   *int64
	}{
		{"impressions", []types.EventKind{types.EventKindOpen}, &counts.impressions},
		{"clicks", []types.EventKind{types.EventKindOpen, types.EventKindMessage}, &counts.clicks},
		{"leads", []types.EventKind{types.EventKindContactSubmit}, &counts.leads},
		{"valuations", []types.EventKind{types.EventKindValuationView}, &counts.valuations},
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(jobs))
	for _, job := range jobs {
		wg.Add(1)
		go func(name string, kinds []types.EventKind, dst *int64) {
			defer wg.Done()
			n, err := s.events.CountEvents(ctx, widgetID, kinds, dayStart, dayEnd)
			if err != nil {
				errChan <- fmt.Errorf("count %s: %w", name, err)
				return
			}
			*dst = n
		}(job.name, job.kinds, job.dst)
	}
	wg.Wait()
	close(errChan)
	if err := <-errChan; err != nil {
		return nil, err
	}
	return &counts, nil
}

func (s *Service) aggregateDay(ctx context.Context, tenantID, widgetID string, day time.Time) error {
	dayStart := day
	dayEnd := day.Add(24*time.Hour - time.Millisecond)

	counts, err := s.countDay(ctx, widgetID, dayStart, dayEnd)
	if err != nil {
		return err
	}

	var rate float64
	if counts.impressions > 0 {
		rate = tool.Round2(float64(counts.leads) / float64(counts.impressions) * 100)
	}

	metric := &models.DailyMetric{
		ID:                  tool.GenerateUUIDV7(),
		TenantID:            tenantID,
		MetricDate:          day.Format(time.DateOnly),
		Impressions:         counts.impressions,
		Clicks:              counts.clicks,
		LeadsGenerated:      counts.leads,
		ValuationsCompleted: counts.valuations,
		ConversionRate:      rate,
	}

	// Single atomic upsert per (tenant, day); replace semantics keep
	// re-aggregation idempotent and never duplicate a day.
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "metric_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"impressions", "clicks", "leads_generated", "valuations_completed", "conversion_rate", "updated_at",
		}),
	}).Create(metric).Error
	if err != nil {
		return apperr.Transient("failed to upsert daily metric", err)
	}
	return nil
}

// GetDailyMetrics returns the stored rollups for a tenant over [from, to].
func (s *Service) GetDailyMetrics(ctx context.Context, tenantID string, from, to time.Time) ([]*models.DailyMetric, error) {
	var rows []*models.DailyMetric
	err := s.db.WithContext(ctx).
		Where("tenant_id = ? AND metric_date >= ? AND metric_date <= ?",
			tenantID, truncateDay(from).Format(time.DateOnly), truncateDay(to).Format(time.DateOnly)).
		Order("metric_date").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list daily metrics: %w", err)
	}
	return rows, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
