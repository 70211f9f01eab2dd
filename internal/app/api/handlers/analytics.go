package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/propfolio/metering/internal/app/service/aggregator"
	"github.com/propfolio/metering/internal/app/service/metering"
	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/response"
)

// AggregatorService is the aggregation surface the handlers need.
type AggregatorService interface {
	Aggregate(ctx context.Context, tenantID, widgetID string, from, to time.Time) error
	GetDailyMetrics(ctx context.Context, tenantID string, from, to time.Time) ([]*models.DailyMetric, error)
	ListDailyMetrics(ctx context.Context, req *aggregator.ListMetricsRequest) ([]*models.DailyMetric, int64, error)
}

// BenchmarkService is the read-only benchmark surface.
type BenchmarkService interface {
	PlatformAverage(ctx context.Context, windowDays int) (*metering.BenchmarkResult, error)
}

type AggregateRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
	WidgetID string `json:"widget_id" binding:"required"`
	From     string `json:"from" binding:"required"`
	To       string `json:"to" binding:"required"`
}

type ListMetricsResponse struct {
	Items []*models.DailyMetric `json:"items"`
	Total int64                 `json:"total"`
}

// @Summary      Aggregate daily metrics (Admin)
// @Description  Folds raw widget events into per-day rollups for a tenant over an inclusive date range. Safe to re-run.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request  body  AggregateRequest  true  "aggregation range"
// @Success      200  {object}  response.APIResponse[any]
// @Failure      400  {object}  response.APIResponse[any]
// @Router       /api/v1/admin/metrics/aggregate [post]
func ApiAggregateMetrics(agg AggregatorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AggregateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		from, err1 := time.Parse(time.DateOnly, req.From)
		to, err2 := time.Parse(time.DateOnly, req.To)
		if err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		if err := agg.Aggregate(c.Request.Context(), req.TenantID, req.WidgetID, from, to); err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT[any](nil))
	}
}

// @Summary      List daily metrics (Admin)
// @Description  Paginated, filterable listing of stored daily rollups.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request  body  aggregator.ListMetricsRequest  true  "filters and pagination"
// @Success      200  {object}  response.APIResponse[ListMetricsResponse]
// @Router       /api/v1/admin/metrics/list [post]
func ApiListDailyMetrics(agg AggregatorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req aggregator.ListMetricsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		items, total, err := agg.ListDailyMetrics(c.Request.Context(), &req)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ListMetricsResponse{Items: items, Total: total}))
	}
}

// @Summary      Daily metrics for a tenant
// @Description  Stored rollups over an inclusive date range, oldest first. For the tenant dashboard.
// @Tags         Metrics
// @Produce      json
// @Param        tenant_id  query  string  true  "tenant id"
// @Param        from       query  string  true  "start date (YYYY-MM-DD)"
// @Param        to         query  string  true  "end date (YYYY-MM-DD)"
// @Success      200  {object}  response.APIResponse[[]models.DailyMetric]
// @Failure      400  {object}  response.APIResponse[any]
// @Router       /api/v1/metrics/daily [get]
func ApiGetDailyMetrics(agg AggregatorService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.Query("tenant_id")
		from, err1 := time.Parse(time.DateOnly, c.Query("from"))
		to, err2 := time.Parse(time.DateOnly, c.Query("to"))
		if tenantID == "" || err1 != nil || err2 != nil {
			c.JSON(http.StatusBadRequest, response.ErrorT[any](response.APIResponseCodeBadRequest, nil))
			return
		}
		rows, err := agg.GetDailyMetrics(c.Request.Context(), tenantID, from, to)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Platform average conversion rate
// @Description  Averages per-tenant conversion rates across active tenants over a trailing window.
// @Tags         Benchmark
// @Produce      json
// @Param        window_days  query  int  false  "trailing window in days (default 30)"
// @Success      200  {object}  response.APIResponse[metering.BenchmarkResult]
// @Router       /api/v1/benchmark/platform_average [get]
func ApiPlatformAverage(bench BenchmarkService) gin.HandlerFunc {
	return func(c *gin.Context) {
		windowDays, _ := strconv.Atoi(c.Query("window_days"))
		result, err := bench.PlatformAverage(c.Request.Context(), windowDays)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

func RegisterAdminMetricsRoutes(r gin.IRouter, agg AggregatorService) {
	r.POST("/metrics/aggregate", ApiAggregateMetrics(agg))
	r.POST("/metrics/list", ApiListDailyMetrics(agg))
}

func RegisterMetricsRoutes(r gin.IRouter, agg AggregatorService) {
	r.GET("/metrics/daily", ApiGetDailyMetrics(agg))
}

func RegisterBenchmarkRoutes(r gin.IRouter, bench BenchmarkService) {
	r.GET("/benchmark/platform_average", ApiPlatformAverage(bench))
}
