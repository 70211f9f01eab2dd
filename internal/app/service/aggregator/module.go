package aggregator

import "go.uber.org/fx"

// Module exposes the daily aggregator via Fx.
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(NewEventStore, fx.As(new(EventCounter))),
		NewService,
	),
)
