package metering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/tool"
	"github.com/propfolio/metering/pkg/types"
)

func seedMetric(t *testing.T, db *gorm.DB, tenantID string, daysAgo int, impressions, leads int64) {
	t.Helper()
	date := time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.DateOnly)
	require.NoError(t, db.Create(&models.DailyMetric{
		ID:             tool.GenerateUUIDV7(),
		TenantID:       tenantID,
		MetricDate:     date,
		Impressions:    impressions,
		LeadsGenerated: leads,
	}).Error)
}

func activateTenant(t *testing.T, svc *Service, tenantID string) {
	t.Helper()
	_, err := svc.SelectPlan(context.Background(), tenantID, types.PlanTypeFree, 0)
	require.NoError(t, err)
}

func TestPlatformAverage(t *testing.T) {
	svc, db := newTestService(t)

	// A converts at 10%, B has traffic but no leads, C has no impressions.
	activateTenant(t, svc, "a")
	activateTenant(t, svc, "b")
	activateTenant(t, svc, "c")
	seedMetric(t, db, "a", 1, 60, 6)
	seedMetric(t, db, "a", 2, 40, 4)
	seedMetric(t, db, "b", 1, 100, 0)
	seedMetric(t, db, "c", 1, 0, 3)

	res, err := svc.PlatformAverage(context.Background(), 30)
	require.NoError(t, err)
	// (10% + 0%) / 2; the zero-impression tenant is out of the sample.
	assert.Equal(t, 5.0, res.AverageConversionRate)
	assert.Equal(t, 2, res.SampleSize)
}

func TestPlatformAverage_ExcludesInactiveTenants(t *testing.T) {
	svc, db := newTestService(t)

	activateTenant(t, svc, "active")
	seedMetric(t, db, "active", 1, 100, 10)

	// Trialing tenant with stellar numbers must not skew the benchmark.
	_, err := svc.SelectPlan(context.Background(), "trialing", types.PlanTypeBasic, 7)
	require.NoError(t, err)
	seedMetric(t, db, "trialing", 1, 100, 90)

	res, err := svc.PlatformAverage(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.AverageConversionRate)
	assert.Equal(t, 1, res.SampleSize)
}

func TestPlatformAverage_WindowCutoff(t *testing.T) {
	svc, db := newTestService(t)
	activateTenant(t, svc, "a")
	seedMetric(t, db, "a", 1, 100, 10)
	// Outside the 30 day window; would halve the rate if counted.
	seedMetric(t, db, "a", 45, 100, 0)

	res, err := svc.PlatformAverage(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 10.0, res.AverageConversionRate)
}

func TestPlatformAverage_EmptyWindow(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.PlatformAverage(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.AverageConversionRate)
	assert.Equal(t, 0, res.SampleSize)
	assert.NotEmpty(t, res.PeriodStart)
	assert.NotEmpty(t, res.PeriodEnd)
}
