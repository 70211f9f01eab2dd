package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/metering/internal/app/api/middleware"
	"github.com/propfolio/metering/internal/app/service/metering"
	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/types"
)

type stubMetering struct {
	sub   *models.Subscription
	usage *types.UsageInfo
	promo *models.PromoCode
	sweep *metering.SweepResult
	err   error
}

func (s *stubMetering) SelectPlan(context.Context, string, types.PlanType, int) (*models.Subscription, error) {
	return s.sub, s.err
}
func (s *stubMetering) CheckQuota(context.Context, string) (*types.UsageInfo, error) {
	return s.usage, s.err
}
func (s *stubMetering) RecordUsage(context.Context, string) (*types.UsageInfo, error) {
	return s.usage, s.err
}
func (s *stubMetering) ValidatePromo(context.Context, string) (*models.PromoCode, error) {
	return s.promo, s.err
}
func (s *stubMetering) SweepExpiredTrials(context.Context) (*metering.SweepResult, error) {
	return s.sweep, s.err
}
func (s *stubMetering) Cancel(context.Context, string) error {
	return s.err
}

func newSubscriptionRouter(svc MeteringService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterSubscriptionRoutes(r.Group("/api/v1"), svc)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestApiSelectPlan(t *testing.T) {
	sub := &models.Subscription{TenantID: "t1", PlanType: types.PlanTypeBasic, Status: types.SubscriptionStatusTrial}
	r := newSubscriptionRouter(&stubMetering{sub: sub})

	w := postJSON(t, r, "/api/v1/subscription/select_plan", SelectPlanRequest{
		TenantID: "t1", PlanType: types.PlanTypeBasic, TrialDays: 7,
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"trial"`)
}

func TestApiSelectPlan_MissingFields(t *testing.T) {
	r := newSubscriptionRouter(&stubMetering{})
	w := postJSON(t, r, "/api/v1/subscription/select_plan", gin.H{"tenant_id": "t1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiSelectPlan_ConflictMapsTo409(t *testing.T) {
	r := newSubscriptionRouter(&stubMetering{
		err: apperr.Conflictf(metering.ConflictReasonAlreadyOnboarded, "tenant t1 already completed onboarding"),
	})
	w := postJSON(t, r, "/api/v1/subscription/select_plan", SelectPlanRequest{
		TenantID: "t1", PlanType: types.PlanTypePremium,
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"AlreadyOnboarded"`)
}

func TestApiGetUsage(t *testing.T) {
	reset := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	r := newSubscriptionRouter(&stubMetering{
		usage: &types.UsageInfo{Allowed: true, Used: 3, Limit: 10, ResetDate: reset},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/subscription/usage?tenant_id=t1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":true`)
	assert.Contains(t, w.Body.String(), `"used":3`)
	assert.Contains(t, w.Body.String(), `"limit":10`)
}

func TestApiRecordUsage_QuotaExhausted(t *testing.T) {
	r := newSubscriptionRouter(&stubMetering{
		usage: &types.UsageInfo{Allowed: false, Used: 10, Limit: 10},
	})
	w := postJSON(t, r, "/api/v1/subscription/usage/record", RecordUsageRequest{TenantID: "t1"})
	// Refusal is data, not an HTTP error.
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"allowed":false`)
}

func TestApiValidatePromo_Rejection(t *testing.T) {
	r := newSubscriptionRouter(&stubMetering{
		err: apperr.Conflictf(metering.PromoReasonExhausted, "promo code SPENT has no uses left"),
	})
	w := postJSON(t, r, "/api/v1/subscription/promo/validate", ValidatePromoRequest{Code: "SPENT"})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"reason":"Exhausted"`)
}

func TestApiCancelSubscription(t *testing.T) {
	r := newSubscriptionRouter(&stubMetering{})
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/subscription?tenant_id=t1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func newCronRouter(secret string, svc MeteringService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/api/v1/cron", middleware.CronAuthMiddleware(secret))
	RegisterCronRoutes(grp, svc)
	return r
}

func cronToken(t *testing.T, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestApiSweepExpiredTrials_Auth(t *testing.T) {
	svc := &stubMetering{sweep: &metering.SweepResult{Total: 2, Converted: 1, Downgraded: 1}}
	r := newCronRouter("cron-secret", svc)

	t.Run("no token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/sweep_expired_trials", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/sweep_expired_trials", nil)
		req.Header.Set("Authorization", "Bearer "+cronToken(t, "other-secret"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/sweep_expired_trials", nil)
		req.Header.Set("Authorization", "Bearer "+cronToken(t, "cron-secret"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"converted":1`)
	})

	t.Run("no secret configured", func(t *testing.T) {
		unconfigured := newCronRouter("", svc)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cron/sweep_expired_trials", nil)
		req.Header.Set("Authorization", "Bearer "+cronToken(t, "cron-secret"))
		w := httptest.NewRecorder()
		unconfigured.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}
