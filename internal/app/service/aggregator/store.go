package aggregator

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/propfolio/metering/internal/models"
	"github.com/propfolio/metering/pkg/apperr"
	"github.com/propfolio/metering/pkg/types"
)

// EventStore reads the append-only widget_event table. The ingestion
// path owns writes; nothing here mutates it.
type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore { return &EventStore{db: db} }

func (s *EventStore) CountEvents(ctx context.Context, widgetID string, kinds []types.EventKind, from, to time.Time) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.WidgetEvent{}).
		Where("widget_id = ? AND kind IN ? AND occurred_at >= ? AND occurred_at <= ?", widgetID, kinds, from, to).
		Count(&n).Error
	if err != nil {
		return 0, apperr.Transient("failed to count widget events", err)
	}
	return n, nil
}
