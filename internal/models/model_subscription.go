package models

import (
	"time"

	"github.com/propfolio/metering/pkg/types"

	"gorm.io/datatypes"
)

// Subscription stores one tenant's plan, billing lifecycle state and
// monthly metered usage. One row per tenant; quota mutations go through
// conditional updates on this row, never read-modify-write in memory.
type Subscription struct {
	ID       string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	TenantID string                   `gorm:"column:tenant_id;type:varchar(64);not null;uniqueIndex" json:"tenant_id"`
	PlanType types.PlanType           `gorm:"column:plan_type;type:varchar(32);not null" json:"plan_type"`
	Status   types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// TrialEndsAt is set iff the subscription is (or was) trialing.
	TrialEndsAt *time.Time `gorm:"column:trial_ends_at;default:null" json:"trial_ends_at"`
	// ValuationsUsedThisMonth counts metered valuations in the current window.
	ValuationsUsedThisMonth int64 `gorm:"column:valuations_used_this_month;not null;default:0" json:"valuations_used_this_month"`
	// ValuationsResetDate is the start of the next monthly window.
	ValuationsResetDate time.Time `gorm:"column:valuations_reset_date;not null" json:"valuations_reset_date"`
	// OnboardingCompletedAt marks one-shot plan selection; set once, never cleared.
	OnboardingCompletedAt *time.Time `gorm:"column:onboarding_completed_at;default:null" json:"onboarding_completed_at"`
	// External billing references, opaque to the engine.
	BillingCustomerID      string `gorm:"column:billing_customer_id;type:varchar(128)" json:"billing_customer_id"`
	BillingPaymentMethodID string `gorm:"column:billing_payment_method_id;type:varchar(128)" json:"billing_payment_method_id"`
	// Extra stores additional JSON data (for example promo application details).
	Extra datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	// CreatedAt is managed by GORM and records the creation time.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM and records the update time.
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Trialing reports whether the trial window is still open at now.
func (s *Subscription) Trialing(now time.Time) bool {
	return s != nil &&
		s.Status == types.SubscriptionStatusTrial &&
		s.TrialEndsAt != nil &&
		s.TrialEndsAt.After(now)
}
