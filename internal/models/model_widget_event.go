package models

import (
	"time"

	"github.com/propfolio/metering/pkg/types"
)

// WidgetEvent is one raw interaction recorded by an embedded widget.
// The table is append-only and owned by the ingestion path; the engine
// only ever reads it.
type WidgetEvent struct {
	ID         string          `gorm:"column:id;type:uuid;primary_key" json:"id"`
	TenantID   string          `gorm:"column:tenant_id;type:varchar(64);not null;index" json:"tenant_id"`
	WidgetID   string          `gorm:"column:widget_id;type:varchar(64);not null;index:idx_widget_occurred,priority:1" json:"widget_id"`
	Kind       types.EventKind `gorm:"column:kind;type:varchar(32);not null" json:"kind"`
	OccurredAt time.Time       `gorm:"column:occurred_at;not null;index:idx_widget_occurred,priority:2" json:"occurred_at"`
	CreatedAt  time.Time       `json:"created_at"`
}

func (WidgetEvent) TableName() string {
	return "widget_event"
}
