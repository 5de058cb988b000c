package report

import (
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/repository"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/service"
	"go.uber.org/fx"
)

var Module = fx.Module("report.service",
	fx.Provide(
		repository.NewSnapshotRepository,
		service.NewService,
	),
)
