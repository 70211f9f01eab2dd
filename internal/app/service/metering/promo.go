package metering

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
)

// Promo rejection reasons, carried on the error for callers to branch on.
const (
	PromoReasonNotFound  = "NotFound"
	PromoReasonExpired   = "Expired"
	PromoReasonExhausted = "Exhausted"
)

// ValidatePromo checks a code against the validity predicate: active,
// unexpired and under its use cap. Invalid codes always come back as a
// typed rejection, never a silent pass.
func (s *Service) ValidatePromo(ctx context.Context, code string) (*models.PromoCode, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Validationf("promo code is required")
	}

	var promo models.PromoCode
	err := s.db.WithContext(ctx).Where("code = ?", code).First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &apperr.Error{Code: apperr.CodeNotFound, Reason: PromoReasonNotFound, Msg: "promo code not found"}
	}
	if err != nil {
		return nil, apperr.Transient("failed to load promo code", err)
	}

	now := time.Now().UTC()
	if !promo.IsActive || promo.Expired(now) {
		return nil, apperr.Conflictf(PromoReasonExpired, "promo code %s is no longer valid", code)
	}
	if promo.Exhausted() {
		return nil, apperr.Conflictf(PromoReasonExhausted, "promo code %s has no uses left", code)
	}
	return &promo, nil
}

// RedeemPromo validates and consumes one use of a code. The use-cap
// guard sits in the UPDATE itself, so two racing redemptions of a
// last-use code cannot both succeed.
func (s *Service) RedeemPromo(ctx context.Context, code string) (*models.PromoCode, error) {
	promo, err := s.ValidatePromo(ctx, code)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("code = ? AND is_active = ?", promo.Code, true)
	if promo.MaxUses != nil {
		q = q.Where("used_count < ?", *promo.MaxUses)
	}
	res := q.UpdateColumn("used_count", gorm.Expr("used_count + ?", 1))
	if res.Error != nil {
		return nil, apperr.Transient("failed to redeem promo code", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflictf(PromoReasonExhausted, "promo code %s has no uses left", code)
	}

	var updated models.PromoCode
	if err := s.db.WithContext(ctx).Where("code = ?", promo.Code).First(&updated).Error; err != nil {
		return nil, apperr.Transient("failed to reload promo code", err)
	}
	return &updated, nil
}
