package types

// EventKind is the interaction kind recorded by the widget event store.
type EventKind string

const (
	EventKindOpen          EventKind = "OPEN"
	EventKindMessage       EventKind = "MESSAGE"
	EventKindContactSubmit EventKind = "CONTACT_SUBMIT"
	EventKindValuationView EventKind = "VALUATION_VIEW"
)

// TrendDirection classifies a zone price series.
type TrendDirection string

const (
	TrendDirectionRising  TrendDirection = "rising"
	TrendDirectionFalling TrendDirection = "falling"
	TrendDirectionStable  TrendDirection = "stable"
)
