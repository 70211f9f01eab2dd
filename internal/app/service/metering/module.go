package metering

import "go.uber.org/fx"

// Module exposes the usage metering and lifecycle service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
