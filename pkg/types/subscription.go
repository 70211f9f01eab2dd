package types

import "time"

type SubscriptionStatus string

const (
	SubscriptionStatusTrial     SubscriptionStatus = "trial"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// SubscriptionChangeReason records why a subscription row changed state.
type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonOnboard         SubscriptionChangeReason = "onboard"
	SubscriptionChangeReasonTrialConverted  SubscriptionChangeReason = "trialConverted"
	SubscriptionChangeReasonTrialDowngraded SubscriptionChangeReason = "trialDowngraded"
	SubscriptionChangeReasonCancel          SubscriptionChangeReason = "cancel"
	SubscriptionChangeReasonUsageReset      SubscriptionChangeReason = "usageReset"
)

// UsageInfo is the quota snapshot returned to callers gating metered features.
type UsageInfo struct {
	Allowed   bool      `json:"allowed"`
	Used      int64     `json:"used"`
	Limit     int64     `json:"limit"`
	ResetDate time.Time `json:"reset_date"`
}
