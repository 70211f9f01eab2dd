package aggregator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/tool"
	"github.com/propfolio/metering/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.WidgetEvent{}, &models.DailyMetric{}))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	db := newTestDB(t)
	return NewService(db, zap.NewNop().Sugar(), NewEventStore(db)), db
}

func seedEvent(t *testing.T, db *gorm.DB, tenantID, widgetID string, kind types.EventKind, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.WidgetEvent{
		ID:         tool.GenerateUUIDV7(),
		TenantID:   tenantID,
		WidgetID:   widgetID,
		Kind:       kind,
		OccurredAt: at,
	}).Error)
}

func day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAggregate_CountsAndConversionRate(t *testing.T) {
	svc, db := newTestService(t)
	d := day("2024-03-01")

	seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(1*time.Hour))
	seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(2*time.Hour))
	seedEvent(t, db, "t1", "w1", types.EventKindMessage, d.Add(3*time.Hour))
	seedEvent(t, db, "t1", "w1", types.EventKindContactSubmit, d.Add(4*time.Hour))
	seedEvent(t, db, "t1", "w1", types.EventKindValuationView, d.Add(5*time.Hour))
	// Next day event must not leak into the window.
	seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(25*time.Hour))

	require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", d, d))

	var m models.DailyMetric
	require.NoError(t, db.Where("tenant_id = ? AND metric_date = ?", "t1", "2024-03-01").First(&m).Error)
	assert.Equal(t, int64(2), m.Impressions)
	assert.Equal(t, int64(3), m.Clicks)
	assert.Equal(t, int64(1), m.LeadsGenerated)
	assert.Equal(t, int64(1), m.ValuationsCompleted)
	assert.Equal(t, 50.0, m.ConversionRate)
}

func TestAggregate_Idempotent(t *testing.T) {
	svc, db := newTestService(t)
	d := day("2024-03-01")
	seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(time.Hour))
	seedEvent(t, db, "t1", "w1", types.EventKindContactSubmit, d.Add(2*time.Hour))

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", d, d))
	}

	var rows []models.DailyMetric
	require.NoError(t, db.Where("tenant_id = ?", "t1").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Impressions)
	assert.Equal(t, int64(1), rows[0].LeadsGenerated)
	assert.Equal(t, 100.0, rows[0].ConversionRate)
}

func TestAggregate_ZeroImpressionsRateIsZero(t *testing.T) {
	svc, db := newTestService(t)
	d := day("2024-03-01")
	// Leads without impressions must not divide by zero.
	seedEvent(t, db, "t1", "w1", types.EventKindContactSubmit, d.Add(time.Hour))

	require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", d, d))

	var m models.DailyMetric
	require.NoError(t, db.Where("tenant_id = ?", "t1").First(&m).Error)
	assert.Equal(t, int64(0), m.Impressions)
	assert.Equal(t, int64(1), m.LeadsGenerated)
	assert.Equal(t, 0.0, m.ConversionRate)
}

func TestAggregate_LateEventsOverwrite(t *testing.T) {
	svc, db := newTestService(t)
	d := day("2024-03-01")
	seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(time.Hour))
	require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", d, d))

	// A late-arriving event changes the recomputed counters in place.
	seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(2*time.Hour))
	require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", d, d))

	var rows []models.DailyMetric
	require.NoError(t, db.Where("tenant_id = ?", "t1").Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(2), rows[0].Impressions)
}

func TestAggregate_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	d := day("2024-03-02")

	tests := []struct {
		name     string
		tenantID string
		widgetID string
		from     time.Time
		to       time.Time
	}{
		{"missing tenant", "", "w1", d, d},
		{"missing widget", "t1", "", d, d},
		{"zero from", "t1", "w1", time.Time{}, d},
		{"end before start", "t1", "w1", d, d.AddDate(0, 0, -1)},
		{"range too long", "t1", "w1", d, d.AddDate(0, 0, 400)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Aggregate(context.Background(), tt.tenantID, tt.widgetID, tt.from, tt.to)
			require.Error(t, err)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		})
	}
}

// flakyCounter fails scans for a single day and delegates the rest.
type flakyCounter struct {
	inner   EventCounter
	failDay string
}

func (f *flakyCounter) CountEvents(ctx context.Context, widgetID string, kinds []types.EventKind, from, to time.Time) (int64, error) {
	if from.Format(time.DateOnly) == f.failDay {
		return 0, errors.New("storage hiccup")
	}
	return f.inner.CountEvents(ctx, widgetID, kinds, from, to)
}

func TestAggregate_DayFailureDoesNotSkipNeighbors(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(db, zap.NewNop().Sugar(), &flakyCounter{inner: NewEventStore(db), failDay: "2024-03-02"})

	for _, date := range []string{"2024-03-01", "2024-03-02", "2024-03-03"} {
		seedEvent(t, db, "t1", "w1", types.EventKindOpen, day(date).Add(time.Hour))
	}

	err := svc.Aggregate(context.Background(), "t1", "w1", day("2024-03-01"), day("2024-03-03"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2024-03-02")

	var dates []string
	require.NoError(t, db.Model(&models.DailyMetric{}).Where("tenant_id = ?", "t1").Order("metric_date").Pluck("metric_date", &dates).Error)
	assert.Equal(t, []string{"2024-03-01", "2024-03-03"}, dates)

	// Retrying just the failed day completes the range.
	healthy := NewService(db, zap.NewNop().Sugar(), NewEventStore(db))
	require.NoError(t, healthy.Aggregate(context.Background(), "t1", "w1", day("2024-03-02"), day("2024-03-02")))
	require.NoError(t, db.Model(&models.DailyMetric{}).Where("tenant_id = ?", "t1").Order("metric_date").Pluck("metric_date", &dates).Error)
	assert.Len(t, dates, 3)
}

func TestGetDailyMetrics_InclusiveRangeOldestFirst(t *testing.T) {
	svc, db := newTestService(t)
	for i := 0; i < 4; i++ {
		d := day("2024-03-01").AddDate(0, 0, i)
		seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(time.Hour))
	}
	require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", day("2024-03-01"), day("2024-03-04")))

	rows, err := svc.GetDailyMetrics(context.Background(), "t1", day("2024-03-02"), day("2024-03-03"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-02", rows[0].MetricDate)
	assert.Equal(t, "2024-03-03", rows[1].MetricDate)
}

func TestListDailyMetrics(t *testing.T) {
	svc, db := newTestService(t)
	for i := 0; i < 5; i++ {
		d := day("2024-03-01").AddDate(0, 0, i)
		seedEvent(t, db, "t1", "w1", types.EventKindOpen, d.Add(time.Hour))
	}
	require.NoError(t, svc.Aggregate(context.Background(), "t1", "w1", day("2024-03-01"), day("2024-03-05")))

	items, total, err := svc.ListDailyMetrics(context.Background(), &ListMetricsRequest{
		Filters: []*types.CommonFilter{
			{Field: "tenant_id", Operator: types.CommonFilterOperatorEq, Values: []any{"t1"}},
			{Field: "metric_date", Operator: types.CommonFilterOperatorGte, Values: []any{"2024-03-03"}},
		},
		Size: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	// Default sort is metric_date descending.
	assert.Equal(t, "2024-03-05", items[0].MetricDate)
}
