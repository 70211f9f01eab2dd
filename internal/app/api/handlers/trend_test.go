package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/propfolio/metering/internal/app/service/trend"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/types"
)

type stubTrend struct {
	zones  []string
	result *trend.Result
	err    error
}

func (s *stubTrend) ZonesForCity(context.Context, string) ([]string, error) {
	return s.zones, s.err
}
func (s *stubTrend) Trend(context.Context, string, string, string, int) (*trend.Result, error) {
	return s.result, s.err
}

func newTrendRouter(svc TrendService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterTrendRoutes(r.Group("/api/v1"), svc)
	return r
}

func TestApiTrend(t *testing.T) {
	r := newTrendRouter(&stubTrend{
		result: &trend.Result{Direction: types.TrendDirectionRising, ChangePercent: 4.2, SampleCount: 6},
	})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend?city=Madrid&zone=Centro&property_type=flat", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"direction":"rising"`)
	assert.Contains(t, w.Body.String(), `"change_percent":4.2`)
}

func TestApiTrend_MissingParams(t *testing.T) {
	r := newTrendRouter(&stubTrend{err: apperr.Validationf("city, zone and property_type are required")})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend?city=Madrid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestApiZonesForCity(t *testing.T) {
	r := newTrendRouter(&stubTrend{zones: []string{"Centro", "Chamberi"}})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/trend/zones?city=Madrid", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"city":"Madrid"`)
	assert.Contains(t, w.Body.String(), `"zones":["Centro","Chamberi"]`)
}
