package leave

import "go.uber.org/fx"

var Module = fx.Module("leave.repository",
	fx.Provide(NewRepository),
)
