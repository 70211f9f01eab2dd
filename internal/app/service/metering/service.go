package metering

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/internal/platform/billing"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/config"
	"github.com/propfolio/metering/pkg/logctx"
	"github.com/propfolio/metering/pkg/tool"
	"github.com/propfolio/metering/pkg/types"
)

// Service owns per-tenant quota accounting and the subscription
// lifecycle state machine. The subscription row is the single shared
// mutable resource; every mutation goes through an upsert or a
// conditional update so concurrent callers synchronize at the storage
// layer, never in application memory.
type Service struct {
	cfg     *config.Config
	db      *gorm.DB
	log     *zap.SugaredLogger
	billing billing.PaymentMethodChecker
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger, checker billing.PaymentMethodChecker) *Service {
	return &Service{cfg: cfg, db: db, log: log, billing: checker}
}

// ConflictReasonAlreadyOnboarded marks the one-shot onboarding guard.
const ConflictReasonAlreadyOnboarded = "AlreadyOnboarded"

// SelectPlan performs the one-shot initial transition at onboarding.
// Free plans activate immediately and never trial; paid plans start a
// trial ending trialDays from now.
func (s *Service) SelectPlan(ctx context.Context, tenantID string, planType types.PlanType, trialDays int) (*models.Subscription, error) {
	if tenantID == "" {
		return nil, apperr.Validationf("tenant_id is required")
	}
	if !s.cfg.KnownPlan(planType) {
		return nil, apperr.Validationf("unknown plan type: %s", planType)
	}
	if trialDays < 0 || trialDays > s.cfg.Trial.MaxDays {
		return nil, apperr.Validationf("trial_days must be between 0 and %d", s.cfg.Trial.MaxDays)
	}

	now := time.Now().UTC()
	sub := &models.Subscription{
		TenantID:              tenantID,
		PlanType:              planType,
		Status:                types.SubscriptionStatusActive,
		ValuationsResetDate:   now.AddDate(0, 1, 0),
		OnboardingCompletedAt: &now,
		Extra:                 datatypes.JSON("{}"),
	}
	if planType != types.PlanTypeFree {
		trialEnd := now.AddDate(0, 0, trialDays)
		sub.Status = types.SubscriptionStatusTrial
		sub.TrialEndsAt = &trialEnd
	}

	var before *models.Subscription
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var original models.Subscription
		err := tx.Where("tenant_id = ?", tenantID).First(&original).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.Transient("failed to load subscription", err)
		}
		if original.ID != "" {
			if original.OnboardingCompletedAt != nil {
				return apperr.Conflictf(ConflictReasonAlreadyOnboarded, "tenant %s already completed onboarding", tenantID)
			}
			sub.ID = original.ID
			sub.CreatedAt = original.CreatedAt
			cp := original
			before = &cp
		} else {
			sub.ID = tool.GenerateUUIDV7()
		}
		if err := tx.Save(sub).Error; err != nil {
			return apperr.Transient("failed to save subscription", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("plan selected",
		"tenant_id", tenantID, "plan_type", planType, "status", sub.Status, "trial_days", trialDays)
	s.logChange(ctx, before, sub, types.SubscriptionChangeReasonOnboard)
	return sub, nil
}

// GetSubscription loads a tenant's subscription row.
func (s *Service) GetSubscription(ctx context.Context, tenantID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFoundf("subscription not found for tenant %s", tenantID)
	}
	if err != nil {
		return nil, apperr.Transient("failed to load subscription", err)
	}
	return &sub, nil
}

// Cancel soft-transitions a subscription to cancelled (account deletion
// path). Cancelling an already cancelled subscription is a no-op.
func (s *Service) Cancel(ctx context.Context, tenantID string) error {
	sub, err := s.GetSubscription(ctx, tenantID)
	if err != nil {
		return err
	}
	if sub.Status == types.SubscriptionStatusCancelled {
		return nil
	}
	before := *sub

	res := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("tenant_id = ? AND status <> ?", tenantID, types.SubscriptionStatusCancelled).
		Update("status", types.SubscriptionStatusCancelled)
	if res.Error != nil {
		return apperr.Transient("failed to cancel subscription", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	sub.Status = types.SubscriptionStatusCancelled
	s.logChange(ctx, &before, sub, types.SubscriptionChangeReasonCancel)
	return nil
}

// logChange writes the change log asynchronously; errors are logged but not returned.
func (s *Service) logChange(ctx context.Context, before, after *models.Subscription, reason types.SubscriptionChangeReason) {
	go func() {
		entry := &models.SubscriptionLog{
			ID:       tool.GenerateUUIDV7(),
			TenantID: after.TenantID,
			Reason:   reason,
			Before:   datatypes.NewJSONType(before),
			After:    datatypes.NewJSONType(after),
			Extra:    datatypes.JSONMap{},
		}
		if err := s.db.Save(entry).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}()
}
