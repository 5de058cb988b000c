package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	reportdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type billableStub struct {
	refreshedAt time.Time
	refreshErr  error
	changed     int
}

func (s *billableStub) Create(context.Context, billabledomain.CreateEntityRequest) (*billabledomain.Entity, error) {
	return nil, nil
}
func (s *billableStub) Update(context.Context, snowflake.ID, billabledomain.UpdateEntityRequest) (*billabledomain.Entity, error) {
	return nil, nil
}
func (s *billableStub) Get(context.Context, snowflake.ID) (*billabledomain.Entity, error) {
	return nil, nil
}
func (s *billableStub) List(context.Context, billabledomain.ListEntitiesRequest) (billabledomain.ListEntitiesResponse, error) {
	return billabledomain.ListEntitiesResponse{}, nil
}
func (s *billableStub) Deactivate(context.Context, snowflake.ID) error { return nil }
func (s *billableStub) Settle(context.Context, snowflake.ID, time.Time) (*billabledomain.Entity, error) {
	return nil, nil
}
func (s *billableStub) RefreshStatuses(_ context.Context, today time.Time) (int, error) {
	s.refreshedAt = today
	return s.changed, s.refreshErr
}

type reportStub struct {
	built      []reportdomain.Kind
	failKind   reportdomain.Kind
	failureErr error
}

func (s *reportStub) build(kind reportdomain.Kind) error {
	s.built = append(s.built, kind)
	if kind == s.failKind && s.failureErr != nil {
		return s.failureErr
	}
	return nil
}

func (s *reportStub) BuildClientReport(context.Context, int, int, string) (*reportdomain.ClientReport, error) {
	return &reportdomain.ClientReport{}, s.build(reportdomain.KindClient)
}
func (s *reportStub) BuildEmployeeReport(context.Context, int, int, string) (*reportdomain.EmployeeReport, error) {
	return &reportdomain.EmployeeReport{}, s.build(reportdomain.KindEmployee)
}
func (s *reportStub) BuildFinanceReport(context.Context, int, int, string) (*reportdomain.FinanceReport, error) {
	return &reportdomain.FinanceReport{}, s.build(reportdomain.KindFinance)
}
func (s *reportStub) GetSnapshot(context.Context, reportdomain.Kind, int, int) (*reportdomain.Snapshot, error) {
	return nil, reportdomain.ErrSnapshotMissing
}

func newTestScheduler(t *testing.T, bs *billableStub, rs *reportStub, now time.Time) *Scheduler {
	t.Helper()
	sched, err := New(Params{
		Log:         zaptest.NewLogger(t),
		Clock:       clock.NewFakeClock(now),
		BillableSvc: bs,
		ReportSvc:   rs,
	})
	if err != nil {
		t.Fatal(err)
	}
	return sched
}

func TestRunOnce(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 30, 0, 0, time.UTC)
	bs := &billableStub{changed: 3}
	rs := &reportStub{}
	sched := newTestScheduler(t, bs, rs, now)

	assert.NoError(t, sched.RunOnce(context.Background()))
	// Status refresh sees the day, not the wall-clock instant.
	assert.Equal(t, time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC), bs.refreshedAt)
	assert.Equal(t, []reportdomain.Kind{
		reportdomain.KindClient,
		reportdomain.KindEmployee,
		reportdomain.KindFinance,
	}, rs.built)
}

func TestRunOnce_BuilderFailureDoesNotStopOthers(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 30, 0, 0, time.UTC)
	bs := &billableStub{}
	rs := &reportStub{failKind: reportdomain.KindEmployee, failureErr: errors.New("boom")}
	sched := newTestScheduler(t, bs, rs, now)

	err := sched.RunOnce(context.Background())
	assert.Error(t, err)
	// The finance snapshot still ran after the employee one failed.
	assert.Equal(t, []reportdomain.Kind{
		reportdomain.KindClient,
		reportdomain.KindEmployee,
		reportdomain.KindFinance,
	}, rs.built)
}

func TestRunOnce_TimeoutIsSoft(t *testing.T) {
	now := time.Date(2025, time.March, 20, 14, 30, 0, 0, time.UTC)
	bs := &billableStub{refreshErr: context.DeadlineExceeded}
	rs := &reportStub{}
	sched := newTestScheduler(t, bs, rs, now)

	assert.NoError(t, sched.RunOnce(context.Background()))
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Params{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
