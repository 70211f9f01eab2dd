package billing

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
)

// PaymentMethodChecker answers whether a tenant has a usable payment
// method on file with the external billing provider. The trial sweep
// uses it to decide between converting and downgrading.
type PaymentMethodChecker interface {
	HasPaymentMethod(ctx context.Context, tenantID string) (bool, error)
}

// Checker resolves the question from the billing references mirrored on
// the subscription row. Checkout and portal sessions live in the billing
// provider's own service; only the opaque references reach this engine.
type Checker struct {
	db *gorm.DB
}

func NewChecker(db *gorm.DB) *Checker { return &Checker{db: db} }

func (c *Checker) HasPaymentMethod(ctx context.Context, tenantID string) (bool, error) {
	var sub models.Subscription
	err := c.db.WithContext(ctx).
		Select("billing_customer_id", "billing_payment_method_id").
		Where("tenant_id = ?", tenantID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load billing refs: %w", err)
	}
	return sub.BillingCustomerID != "" && sub.BillingPaymentMethodID != "", nil
}

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(NewChecker, fx.As(new(PaymentMethodChecker))),
	),
)
