package models

import "time"

// PromoCode is a discount code redeemable at checkout. A code is valid
// only while active, unexpired and under its use cap.
type PromoCode struct {
	ID              string     `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Code            string     `gorm:"column:code;type:varchar(64);not null;uniqueIndex" json:"code"`
	DiscountPercent int        `gorm:"column:discount_percent;not null" json:"discount_percent"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ExpiresAt       *time.Time `gorm:"column:expires_at;default:null" json:"expires_at"`
	// MaxUses nil means uncapped.
	MaxUses   *int64    `gorm:"column:max_uses;default:null" json:"max_uses"`
	UsedCount int64     `gorm:"column:used_count;not null;default:0" json:"used_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PromoCode) TableName() string {
	return "promo_code"
}

// Expired reports whether the code's expiry has passed at now.
func (p *PromoCode) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && now.After(*p.ExpiresAt)
}

// Exhausted reports whether the use cap has been reached.
func (p *PromoCode) Exhausted() bool {
	return p.MaxUses != nil && p.UsedCount >= *p.MaxUses
}
