package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/propfolio/metering/internal/app/service/metering"
	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/response"
	"github.com/propfolio/metering/pkg/types"
)

// MeteringService is the subscription and quota surface the handlers need.
type MeteringService interface {
	SelectPlan(ctx context.Context, tenantID string, planType types.PlanType, trialDays int) (*models.Subscription, error)
	CheckQuota(ctx context.Context, tenantID string) (*types.UsageInfo, error)
	RecordUsage(ctx context.Context, tenantID string) (*types.UsageInfo, error)
	ValidatePromo(ctx context.Context, code string) (*models.PromoCode, error)
	SweepExpiredTrials(ctx context.Context) (*metering.SweepResult, error)
	Cancel(ctx context.Context, tenantID string) error
}

type SelectPlanRequest struct {
	TenantID  string         `json:"tenant_id" binding:"required"`
	PlanType  types.PlanType `json:"plan_type" binding:"required"`
	TrialDays int            `json:"trial_days"`
}

type ValidatePromoRequest struct {
	Code string `json:"code" binding:"required"`
}

type ValidatePromoResponse struct {
	Code            string `json:"code"`
	DiscountPercent int    `json:"discount_percent"`
}

type RecordUsageRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
}

// @Summary      Select a plan (onboarding)
// @Description  One-shot initial plan selection. Free plans activate immediately; paid plans start a trial.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request  body  SelectPlanRequest  true  "plan selection"
// @Success      200  {object}  response.APIResponse[models.Subscription]
// @Failure      409  {object}  response.APIResponse[any]
// @Router       /api/v1/subscription/select_plan [post]
func ApiSelectPlan(svc MeteringService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SelectPlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		sub, err := svc.SelectPlan(c.Request.Context(), req.TenantID, req.PlanType, req.TrialDays)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sub))
	}
}

// @Summary      Current metered usage
// @Description  Returns used/limit/reset for a tenant after lazily rolling the monthly window.
// @Tags         Subscription
// @Produce      json
// @Param        tenant_id  query  string  true  "tenant id"
// @Success      200  {object}  response.APIResponse[types.UsageInfo]
// @Router       /api/v1/subscription/usage [get]
func ApiGetUsage(svc MeteringService) gin.HandlerFunc {
	return func(c *gin.Context) {
		info, err := svc.CheckQuota(c.Request.Context(), c.Query("tenant_id"))
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Record one metered valuation
// @Description  Atomically consumes one unit of quota. Allowed=false in the result means the quota is exhausted.
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request  body  RecordUsageRequest  true  "tenant"
// @Success      200  {object}  response.APIResponse[types.UsageInfo]
// @Router       /api/v1/subscription/usage/record [post]
func ApiRecordUsage(svc MeteringService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RecordUsageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		info, err := svc.RecordUsage(c.Request.Context(), req.TenantID)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(info))
	}
}

// @Summary      Validate a promo code
// @Description  Checks active/expiry/use-cap; rejections carry a typed reason (NotFound, Expired, Exhausted).
// @Tags         Subscription
// @Accept       json
// @Produce      json
// @Param        request  body  ValidatePromoRequest  true  "promo code"
// @Success      200  {object}  response.APIResponse[ValidatePromoResponse]
// @Failure      409  {object}  response.APIResponse[any]
// @Router       /api/v1/subscription/promo/validate [post]
func ApiValidatePromo(svc MeteringService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidatePromoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		promo, err := svc.ValidatePromo(c.Request.Context(), req.Code)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ValidatePromoResponse{Code: promo.Code, DiscountPercent: promo.DiscountPercent}))
	}
}

// @Summary      Cancel a subscription
// @Description  Soft-transitions the tenant's subscription to cancelled. Idempotent.
// @Tags         Subscription
// @Produce      json
// @Param        tenant_id  query  string  true  "tenant id"
// @Success      200  {object}  response.APIResponse[any]
// @Router       /api/v1/subscription [delete]
func ApiCancelSubscription(svc MeteringService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Cancel(c.Request.Context(), c.Query("tenant_id")); err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      Sweep expired trials (Cron)
// @Description  Settles every elapsed trial: convert with a payment method on file, downgrade to free otherwise. Idempotent and resumable.
// @Tags         Cron
// @Produce      json
// @Security     ApiKeyAuth
// @Success      200  {object}  response.APIResponse[metering.SweepResult]
// @Router       /api/v1/cron/sweep_expired_trials [get]
func ApiSweepExpiredTrials(svc MeteringService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := svc.SweepExpiredTrials(c.Request.Context())
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

func RegisterSubscriptionRoutes(r gin.IRouter, svc MeteringService) {
	r.POST("/subscription/select_plan", ApiSelectPlan(svc))
	r.GET("/subscription/usage", ApiGetUsage(svc))
	r.POST("/subscription/usage/record", ApiRecordUsage(svc))
	r.POST("/subscription/promo/validate", ApiValidatePromo(svc))
	r.DELETE("/subscription", ApiCancelSubscription(svc))
}

func RegisterCronRoutes(r gin.IRouter, svc MeteringService) {
	r.GET("/sweep_expired_trials", ApiSweepExpiredTrials(svc))
}
