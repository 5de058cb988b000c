package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/config"
	financedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance/domain"
	ledgerdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger/domain"
	reportdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log.Named("http")))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	clock       clock.Clock
	genID       *snowflake.Node
	billableSvc billabledomain.Service
	ledgerSvc   ledgerdomain.Service
	reportSvc   reportdomain.Service
	financeRepo financedomain.Repository
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	Clock       clock.Clock
	GenID       *snowflake.Node
	BillableSvc billabledomain.Service
	LedgerSvc   ledgerdomain.Service
	ReportSvc   reportdomain.Service
	FinanceRepo financedomain.Repository
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		clock:       p.Clock,
		genID:       p.GenID,
		billableSvc: p.BillableSvc,
		ledgerSvc:   p.LedgerSvc,
		reportSvc:   p.ReportSvc,
		financeRepo: p.FinanceRepo,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Billable entities --------
	api.POST("/entities", s.CreateEntity)
	api.GET("/entities", s.ListEntities)
	api.GET("/entities/:id", s.GetEntityByID)
	api.PATCH("/entities/:id", s.UpdateEntity)
	api.DELETE("/entities/:id", s.DeactivateEntity)

	// -------- Period payments --------
	api.POST("/entities/:id/payments", s.ProcessPayment)
	api.GET("/entities/:id/payments", s.ListEntityPayments)

	// -------- Monthly reports --------
	api.GET("/reports/clients", s.GetClientReport)
	api.GET("/reports/employees", s.GetEmployeeReport)
	api.GET("/reports/finance", s.GetFinanceReport)
	api.POST("/reports/rebuild", s.RebuildReports)

	// -------- General finance entries --------
	api.POST("/finance/entries", s.CreateFinanceEntry)
}
