package billable

import (
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billable.service",
	fx.Provide(service.NewService),
)
