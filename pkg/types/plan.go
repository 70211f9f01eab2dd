package types

// PlanType identifies a subscription plan tier.
type PlanType string

const (
	PlanTypeFree    PlanType = "free"
	PlanTypeBasic   PlanType = "basic"
	PlanTypePremium PlanType = "premium"
)

// UnlimitedValuations is the sentinel meaning "no monthly cap".
const UnlimitedValuations = -1

// PlanLimits is the static quota table entry for a plan.
type PlanLimits struct {
	PlanType              PlanType `mapstructure:"plan_type" json:"plan_type"`
	MaxWidgets            int      `mapstructure:"max_widgets" json:"max_widgets"`
	MaxValuationsPerMonth int64    `mapstructure:"max_valuations_per_month" json:"max_valuations_per_month"`
	AdvancedAnalytics     bool     `mapstructure:"advanced_analytics" json:"advanced_analytics"`
	PrioritySupport       bool     `mapstructure:"priority_support" json:"priority_support"`
}

// Unlimited reports whether the plan has no monthly valuation cap.
func (p *PlanLimits) Unlimited() bool {
	return p.MaxValuationsPerMonth < 0
}
