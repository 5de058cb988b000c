package delivery

import "go.uber.org/fx"

var Module = fx.Module("delivery.repository",
	fx.Provide(NewRepository),
)
