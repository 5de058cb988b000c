package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/calendar"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	reportdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/domain"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log         *zap.Logger
	Clock       clock.Clock
	BillableSvc billabledomain.Service
	ReportSvc   reportdomain.Service
	Config      Config `optional:"true"`
}

type Scheduler struct {
	log         *zap.Logger
	cfg         Config
	clock       clock.Clock
	billableSvc billabledomain.Service
	reportSvc   reportdomain.Service
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.BillableSvc == nil || p.ReportSvc == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:         p.Log.Named("scheduler"),
		cfg:         p.Config.withDefaults(),
		clock:       p.Clock,
		billableSvc: p.BillableSvc,
		reportSvc:   p.ReportSvc,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, s.cfg.JobTimeout)
	defer cancel()

	runID := uuid.NewString()
	log := s.log.With(
		zap.String("job", name),
		zap.String("run_id", runID),
	)
	log.Info("scheduler.job.start")

	err := fn(ctx)
	duration := time.Since(start)

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.Warn("scheduler.job.timeout",
			zap.Duration("timeout", s.cfg.JobTimeout),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil
	}
	if err != nil {
		log.Error("scheduler.job.finish",
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", name, err)
	}

	log.Info("scheduler.job.finish", zap.Duration("duration", duration))
	return nil
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error
	err = errors.Join(err, s.runJob(parent, "refresh_statuses", s.RefreshStatusesJob))
	err = errors.Join(err, s.runJob(parent, "rebuild_snapshots", s.RebuildSnapshotsJob))
	return err
}

// RefreshStatusesJob flips pending entities past their due date to
// overdue.
func (s *Scheduler) RefreshStatusesJob(ctx context.Context) error {
	today := calendar.Midnight(s.clock.Now())
	changed, err := s.billableSvc.RefreshStatuses(ctx, today)
	if err != nil {
		return err
	}
	if changed > 0 {
		s.log.Info("payment statuses refreshed",
			zap.Time("as_of", today),
			zap.Int("changed", changed),
		)
	}
	return nil
}

// RebuildSnapshotsJob regenerates the current period's three report
// snapshots so dashboard reads stay cheap.
func (s *Scheduler) RebuildSnapshotsJob(ctx context.Context) error {
	now := s.clock.Now()
	month, year := int(now.Month()), now.Year()

	var err error
	if _, buildErr := s.reportSvc.BuildClientReport(ctx, month, year, "system"); buildErr != nil {
		err = errors.Join(err, fmt.Errorf("%s snapshot: %w", reportdomain.KindClient, buildErr))
	}
	if _, buildErr := s.reportSvc.BuildEmployeeReport(ctx, month, year, "system"); buildErr != nil {
		err = errors.Join(err, fmt.Errorf("%s snapshot: %w", reportdomain.KindEmployee, buildErr))
	}
	if _, buildErr := s.reportSvc.BuildFinanceReport(ctx, month, year, "system"); buildErr != nil {
		err = errors.Join(err, fmt.Errorf("%s snapshot: %w", reportdomain.KindFinance, buildErr))
	}
	return err
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
