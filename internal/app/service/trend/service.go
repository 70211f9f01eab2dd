package trend

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/config"
	"github.com/propfolio/metering/pkg/tool"
	"github.com/propfolio/metering/pkg/types"
)

// Result is the derived trend for a zone price series. It is advisory:
// fewer than two observations yields a stable/zero result, not an error.
type Result struct {
	Direction     types.TrendDirection       `json:"direction"`
	ChangePercent float64                    `json:"change_percent"`
	SampleCount   int                        `json:"sample_count"`
	History       []*models.PriceObservation `json:"history"`
}

type Service struct {
	cfg *config.Config
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(cfg *config.Config, db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{cfg: cfg, db: db, log: log}
}

// ZonesForCity lists the distinct zones with observations for a city.
func (s *Service) ZonesForCity(ctx context.Context, city string) ([]string, error) {
	if city == "" {
		return nil, apperr.Validationf("city is required")
	}
	var zones []string
	err := s.db.WithContext(ctx).Model(&models.PriceObservation{}).
		Where("city = ?", city).
		Order("zone").
		Distinct().
		Pluck("zone", &zones).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	return zones, nil
}

// History returns up to maxSemesters of the most recent observations for
// a bucket, oldest first. An unknown (city, zone) combination yields an
// empty slice; callers treat that as "trend unavailable".
func (s *Service) History(ctx context.Context, city, zone, propertyType string, maxSemesters int) ([]*models.PriceObservation, error) {
	if city == "" || zone == "" || propertyType == "" {
		return nil, apperr.Validationf("city, zone and property_type are required")
	}
	if maxSemesters <= 0 {
		maxSemesters = s.cfg.Trend.MaxSemesters
	}
	var rows []*models.PriceObservation
	err := s.db.WithContext(ctx).
		Where("city = ? AND zone = ? AND property_type = ?", city, zone, propertyType).
		Order("year DESC, semester DESC").
		Limit(maxSemesters).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	return lo.Reverse(rows), nil
}

// Trend derives the direction over the recent history. The change is
// latest vs earliest average price per sqm; moves inside the configured
// dead-band classify as stable so near-flat series do not flap.
func (s *Service) Trend(ctx context.Context, city, zone, propertyType string, maxSemesters int) (*Result, error) {
	history, err := s.History(ctx, city, zone, propertyType, maxSemesters)
	if err != nil {
		return nil, err
	}
	return Compute(history, s.cfg.Trend.DeadBandPercent), nil
}

// Compute is the pure trend derivation over an ascending series.
func Compute(history []*models.PriceObservation, deadBandPercent float64) *Result {
	res := &Result{
		Direction:   types.TrendDirectionStable,
		SampleCount: len(history),
		History:     history,
	}
	if len(history) < 2 {
		return res
	}
	earliest := history[0].AvgPerSqm
	latest := history[len(history)-1].AvgPerSqm
	if earliest == 0 {
		return res
	}
	res.ChangePercent = tool.Round2((latest - earliest) / earliest * 100)
	switch {
	case res.ChangePercent > deadBandPercent:
		res.Direction = types.TrendDirectionRising
	case res.ChangePercent < -deadBandPercent:
		res.Direction = types.TrendDirectionFalling
	}
	return res
}
