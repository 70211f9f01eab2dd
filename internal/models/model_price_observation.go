package models

import "time"

// PriceObservation is one semester bucket of the external valuation data
// source: average/min/max price per square meter for a city zone and
// property type. One row per (city, zone, property_type, year, semester),
// loaded by an import job and read-only here.
type PriceObservation struct {
	ID           string    `gorm:"column:id;type:uuid;primary_key" json:"-"`
	City         string    `gorm:"column:city;type:varchar(128);not null;uniqueIndex:idx_price_obs_bucket,priority:1" json:"city"`
	Zone         string    `gorm:"column:zone;type:varchar(128);not null;uniqueIndex:idx_price_obs_bucket,priority:2" json:"zone"`
	PropertyType string    `gorm:"column:property_type;type:varchar(64);not null;uniqueIndex:idx_price_obs_bucket,priority:3" json:"property_type"`
	Year         int       `gorm:"column:year;not null;uniqueIndex:idx_price_obs_bucket,priority:4" json:"year"`
	Semester     int       `gorm:"column:semester;not null;uniqueIndex:idx_price_obs_bucket,priority:5" json:"semester"`
	AvgPerSqm    float64   `gorm:"column:avg_per_sqm;not null" json:"avg_per_sqm"`
	MinPerSqm    float64   `gorm:"column:min_per_sqm;not null" json:"min_per_sqm"`
	MaxPerSqm    float64   `gorm:"column:max_per_sqm;not null" json:"max_per_sqm"`
	CreatedAt    time.Time `json:"-"`
}

func (PriceObservation) TableName() string {
	return "price_observation"
}
