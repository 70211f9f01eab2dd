package trend

import "go.uber.org/fx"

// Module exposes the price trend engine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
