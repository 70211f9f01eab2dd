package metering

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/types"
)

// ResetIfDue rolls the monthly usage window forward when the reset date
// has passed, catching up over any skipped months. The reset-date guard
// in the WHERE clause makes concurrent calls collapse to one winner.
func (s *Service) ResetIfDue(ctx context.Context, tenantID string) error {
	sub, err := s.GetSubscription(ctx, tenantID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if sub.ValuationsResetDate.After(now) {
		return nil
	}

	next := sub.ValuationsResetDate
	for !next.After(now) {
		next = next.AddDate(0, 1, 0)
	}

	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("tenant_id = ? AND valuations_reset_date <= ?", tenantID, now).
		Updates(map[string]interface{}{
			"valuations_used_this_month": 0,
			"valuations_reset_date":      next,
		})
	if res.Error != nil {
		return apperr.Transient("failed to reset usage window", res.Error)
	}
	return nil
}

// CheckQuota reports whether one more metered valuation is allowed.
// The reset is applied lazily first, so a stale window never blocks a
// tenant into a new month.
func (s *Service) CheckQuota(ctx context.Context, tenantID string) (*types.UsageInfo, error) {
	if err := s.ResetIfDue(ctx, tenantID); err != nil {
		return nil, err
	}
	sub, err := s.GetSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	limits := s.cfg.GetPlanLimits(sub.PlanType)
	return &types.UsageInfo{
		Allowed:   limits.Unlimited() || sub.ValuationsUsedThisMonth < limits.MaxValuationsPerMonth,
		Used:      sub.ValuationsUsedThisMonth,
		Limit:     limits.MaxValuationsPerMonth,
		ResetDate: sub.ValuationsResetDate,
	}, nil
}

// RecordUsage consumes one metered valuation. The check and increment
// happen in a single conditional UPDATE, so concurrent callers can never
// both pass the check and push usage past a finite limit. Allowed=false
// on the result means the increment was refused, not an error.
func (s *Service) RecordUsage(ctx context.Context, tenantID string) (*types.UsageInfo, error) {
	if err := s.ResetIfDue(ctx, tenantID); err != nil {
		return nil, err
	}
	sub, err := s.GetSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	limits := s.cfg.GetPlanLimits(sub.PlanType)

	q := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("tenant_id = ?", tenantID)
	if !limits.Unlimited() {
		q = q.Where("valuations_used_this_month < ?", limits.MaxValuationsPerMonth)
	}
	res := q.UpdateColumn("valuations_used_this_month", gorm.Expr("valuations_used_this_month + ?", 1))
	if res.Error != nil {
		return nil, apperr.Transient("failed to record usage", res.Error)
	}

	// Reload for the authoritative count; the local copy predates the increment.
	sub, err = s.GetSubscription(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return &types.UsageInfo{
		Allowed:   res.RowsAffected == 1,
		Used:      sub.ValuationsUsedThisMonth,
		Limit:     limits.MaxValuationsPerMonth,
		ResetDate: sub.ValuationsResetDate,
	}, nil
}
