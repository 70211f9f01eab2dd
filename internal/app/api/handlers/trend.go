package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/propfolio/metering/internal/app/service/trend"
	"github.com/propfolio/metering/pkg/response"
)

// TrendService is the price trend surface the handlers need.
type TrendService interface {
	ZonesForCity(ctx context.Context, city string) ([]string, error)
	Trend(ctx context.Context, city, zone, propertyType string, maxSemesters int) (*trend.Result, error)
}

type ZonesResponse struct {
	City  string   `json:"city"`
	Zones []string `json:"zones"`
}

// @Summary      Zone price trend
// @Description  Derived trend over the recent semester history for a city zone. An empty history yields a stable/zero result, not an error.
// @Tags         Trend
// @Produce      json
// @Param        city           query  string  true   "city name"
// @Param        zone           query  string  true   "zone name"
// @Param        property_type  query  string  true   "property type"
// @Param        max_semesters  query  int     false  "history depth (default 6)"
// @Success      200  {object}  response.APIResponse[trend.Result]
// @Failure      400  {object}  response.APIResponse[any]
// @Router       /api/v1/trend [get]
func ApiTrend(svc TrendService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSemesters, _ := strconv.Atoi(c.Query("max_semesters"))
		result, err := svc.Trend(c.Request.Context(), c.Query("city"), c.Query("zone"), c.Query("property_type"), maxSemesters)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(result))
	}
}

// @Summary      Zones for a city
// @Description  Distinct zones with valuation observations, for the dashboard zone picker.
// @Tags         Trend
// @Produce      json
// @Param        city  query  string  true  "city name"
// @Success      200  {object}  response.APIResponse[ZonesResponse]
// @Router       /api/v1/trend/zones [get]
func ApiZonesForCity(svc TrendService) gin.HandlerFunc {
	return func(c *gin.Context) {
		city := c.Query("city")
		zones, err := svc.ZonesForCity(c.Request.Context(), city)
		if err != nil {
			status, resp := response.FromError(err)
			c.JSON(status, resp)
			return
		}
		c.JSON(http.StatusOK, response.OKT(&ZonesResponse{City: city, Zones: zones}))
	}
}

func RegisterTrendRoutes(r gin.IRouter, svc TrendService) {
	r.GET("/trend", ApiTrend(svc))
	r.GET("/trend/zones", ApiZonesForCity(svc))
}
