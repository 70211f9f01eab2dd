package metering

import (
	"context"
	"fmt"
	"time"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/logctx"
	"github.com/propfolio/metering/pkg/types"
)

// SweepResult summarizes one trial expiry sweep.
type SweepResult struct {
	Total         int      `json:"total"`
	Converted     int      `json:"converted"`
	Downgraded    int      `json:"downgraded"`
	Errors        int      `json:"errors"`
	FailedTenants []string `json:"failed_tenants,omitempty"`
}

// SweepExpiredTrials settles every trial whose window has elapsed:
// tenants with a payment method on file convert to active on their plan,
// the rest land on the free plan. One tenant's failure never aborts the
// sweep. The status guard on the update makes the transition monotonic,
// so re-running after an interruption just finds fewer rows due.
func (s *Service) SweepExpiredTrials(ctx context.Context) (*SweepResult, error) {
	now := time.Now().UTC()
	var due []*models.Subscription
	err := s.db.WithContext(ctx).
		Where("status = ? AND trial_ends_at IS NOT NULL AND trial_ends_at <= ?", types.SubscriptionStatusTrial, now).
		Find(&due).Error
	if err != nil {
		return nil, apperr.Transient("failed to list expired trials", err)
	}

	result := &SweepResult{Total: len(due)}
	for _, sub := range due {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		reason, err := s.settleTrial(ctx, sub)
		if err != nil {
			result.Errors++
			result.FailedTenants = append(result.FailedTenants, sub.TenantID)
			logctx.FromCtx(ctx, s.log).Warnw("trial settlement failed", "tenant_id", sub.TenantID, "err", err)
			continue
		}
		switch reason {
		case types.SubscriptionChangeReasonTrialConverted:
			result.Converted++
		case types.SubscriptionChangeReasonTrialDowngraded:
			result.Downgraded++
		}
	}

	logctx.FromCtx(ctx, s.log).Infow("trial sweep finished",
		"total", result.Total, "converted", result.Converted,
		"downgraded", result.Downgraded, "errors", result.Errors)
	return result, nil
}

// settleTrial transitions one expired trial. The empty reason return
// means another sweep already settled the row.
func (s *Service) settleTrial(ctx context.Context, sub *models.Subscription) (types.SubscriptionChangeReason, error) {
	hasPM, err := s.billing.HasPaymentMethod(ctx, sub.TenantID)
	if err != nil {
		return "", fmt.Errorf("payment method check: %w", err)
	}

	reason := types.SubscriptionChangeReasonTrialConverted
	updates := map[string]interface{}{"status": types.SubscriptionStatusActive}
	if !hasPM {
		reason = types.SubscriptionChangeReasonTrialDowngraded
		updates["plan_type"] = types.PlanTypeFree
	}

	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("tenant_id = ? AND status = ?", sub.TenantID, types.SubscriptionStatusTrial).
		Updates(updates)
	if res.Error != nil {
		return "", fmt.Errorf("transition: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return "", nil
	}

	before := *sub
	after := *sub
	after.Status = types.SubscriptionStatusActive
	if !hasPM {
		after.PlanType = types.PlanTypeFree
	}
	s.logChange(ctx, &before, &after, reason)
	return reason, nil
}
