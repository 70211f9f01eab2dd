package models

import (
	"time"
)

// DailyMetric is the immutable-per-day rollup of widget interactions for
// one tenant. At most one row per (tenant, date); re-aggregation
// overwrites the counters in place.
type DailyMetric struct {
	ID       string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	TenantID string `gorm:"column:tenant_id;type:varchar(64);not null;uniqueIndex:idx_tenant_metric_date,priority:1" json:"tenant_id"`
	// MetricDate is the calendar day in YYYY-MM-DD form.
	MetricDate           string  `gorm:"column:metric_date;type:varchar(10);not null;uniqueIndex:idx_tenant_metric_date,priority:2" json:"metric_date"`
	Impressions          int64   `gorm:"column:impressions;not null;default:0" json:"impressions"`
	Clicks               int64   `gorm:"column:clicks;not null;default:0" json:"clicks"`
	LeadsGenerated       int64   `gorm:"column:leads_generated;not null;default:0" json:"leads_generated"`
	ValuationsCompleted  int64   `gorm:"column:valuations_completed;not null;default:0" json:"valuations_completed"`
	// ConversionRate is leads/impressions*100, rounded to 2 decimals, 0 when no impressions.
	ConversionRate float64   `gorm:"column:conversion_rate;not null;default:0" json:"conversion_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (DailyMetric) TableName() string {
	return "daily_metric"
}
