package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/config"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/delivery"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/leave"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/logger"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/migration"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/report"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/scheduler"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/server"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain services
		billable.Module,
		ledger.Module,
		delivery.Module,
		leave.Module,
		finance.Module,
		report.Module,

		// Surfaces
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
