package finance

import "go.uber.org/fx"

var Module = fx.Module("finance.repository",
	fx.Provide(NewRepository),
)
