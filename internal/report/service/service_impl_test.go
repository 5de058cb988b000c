package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	billableservice "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/service"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/delivery"
	deliverydomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/delivery/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance"
	financedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/leave"
	leavedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/leave/domain"
	ledgerdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger/domain"
	ledgerservice "github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger/service"
	reportdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/domain"
	reportrepository "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/repository"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type reportHarness struct {
	db          *gorm.DB
	node        *snowflake.Node
	clock       *clock.FakeClock
	billableSvc billabledomain.Service
	ledgerSvc   ledgerdomain.Service
	svc         *Service
}

func newReportHarness(t *testing.T, dsn string, now time.Time) *reportHarness {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	// Setup schema
	db.Exec(`CREATE TABLE IF NOT EXISTS billable_entities (
		id BIGINT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		email TEXT,
		recurring_amount NUMERIC NOT NULL,
		payment_cycle TEXT NOT NULL,
		payment_day INTEGER NOT NULL,
		next_payment_date TIMESTAMP NOT NULL,
		current_period_status TEXT NOT NULL,
		last_payment_date TIMESTAMP,
		payment_timing TEXT,
		onboarded_at TIMESTAMP NOT NULL,
		is_active BOOLEAN NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS period_payments (
		id BIGINT PRIMARY KEY,
		entity_id BIGINT NOT NULL,
		period_month INTEGER NOT NULL,
		period_year INTEGER NOT NULL,
		gross_amount NUMERIC NOT NULL,
		tax_amount NUMERIC NOT NULL,
		discount_amount NUMERIC NOT NULL,
		net_amount NUMERIC NOT NULL,
		net_overridden BOOLEAN NOT NULL DEFAULT FALSE,
		scheduled_date TIMESTAMP NOT NULL,
		paid_at TIMESTAMP,
		status TEXT NOT NULL,
		method TEXT,
		processed_by TEXT,
		remarks TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (entity_id, period_month, period_year)
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS delivery_verifications (
		id BIGINT PRIMARY KEY,
		client_id BIGINT NOT NULL,
		period_month INTEGER NOT NULL,
		period_year INTEGER NOT NULL,
		deliverable TEXT NOT NULL,
		verified BOOLEAN NOT NULL DEFAULT FALSE,
		verified_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS leave_records (
		id BIGINT PRIMARY KEY,
		employee_id BIGINT NOT NULL,
		period_month INTEGER NOT NULL,
		period_year INTEGER NOT NULL,
		start_date TIMESTAMP NOT NULL,
		end_date TIMESTAMP NOT NULL,
		days INTEGER NOT NULL,
		status TEXT NOT NULL,
		reason TEXT,
		created_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS finance_entries (
		id BIGINT PRIMARY KEY,
		kind TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		amount NUMERIC NOT NULL,
		entry_date TIMESTAMP NOT NULL,
		period_month INTEGER NOT NULL,
		period_year INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS report_snapshots (
		id BIGINT PRIMARY KEY,
		kind TEXT NOT NULL,
		period_month INTEGER NOT NULL,
		period_year INTEGER NOT NULL,
		totals TEXT NOT NULL,
		generated_by TEXT NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (kind, period_month, period_year)
	)`)

	node, _ := snowflake.NewNode(1)
	fc := clock.NewFakeClock(now)
	log := zaptest.NewLogger(t)

	billableSvc := billableservice.NewService(billableservice.ServiceParam{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fc,
	})
	ledgerSvc := ledgerservice.NewService(ledgerservice.ServiceParam{
		DB:          db,
		Log:         log,
		GenID:       node,
		Clock:       fc,
		BillableSvc: billableSvc,
	})
	svc := &Service{
		log:   log.Named("report.service"),
		genID: node,
		clock: fc,

		entityrepo:   repository.ProvideStore[billabledomain.Entity](db),
		ledgersvc:    ledgerSvc,
		deliveryrepo: delivery.NewRepository(db),
		leaverepo:    leave.NewRepository(db),
		financerepo:  finance.NewRepository(db),
		snapshots:    reportrepository.NewSnapshotRepository(db),
	}
	return &reportHarness{
		db:          db,
		node:        node,
		clock:       fc,
		billableSvc: billableSvc,
		ledgerSvc:   ledgerSvc,
		svc:         svc,
	}
}

func (h *reportHarness) createEntity(t *testing.T, kind billabledomain.EntityKind, name string, amount int64) *billabledomain.Entity {
	t.Helper()
	onboarded := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	entity, err := h.billableSvc.Create(context.Background(), billabledomain.CreateEntityRequest{
		Kind:            kind,
		Name:            name,
		RecurringAmount: decimal.NewFromInt(amount),
		PaymentCycle:    billabledomain.PaymentCycleMonthly,
		PaymentDay:      25,
		OnboardedAt:     &onboarded,
	})
	if err != nil {
		t.Fatal(err)
	}
	return entity
}

func TestBuildClientReport(t *testing.T) {
	now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)
	h := newReportHarness(t, "file:report_client?mode=memory&cache=shared", now)
	ctx := context.Background()

	settled := h.createEntity(t, billabledomain.EntityKindClient, "Acme Studio", 1000)
	open := h.createEntity(t, billabledomain.EntityKindClient, "Northwind", 2000)
	inactive := h.createEntity(t, billabledomain.EntityKindClient, "Gone Inc", 500)
	assert.NoError(t, h.billableSvc.Deactivate(ctx, inactive.ID))

	_, err := h.ledgerSvc.ProcessPayment(ctx, ledgerdomain.ProcessPaymentRequest{
		EntityID: settled.ID,
		Amount:   decimal.NewFromInt(1000),
	})
	assert.NoError(t, err)

	deliveryRepo := delivery.NewRepository(h.db)
	for i, verified := range []bool{true, true, false} {
		assert.NoError(t, deliveryRepo.Create(ctx, &deliverydomain.Verification{
			ID:          h.node.Generate(),
			ClientID:    settled.ID,
			PeriodMonth: 3,
			PeriodYear:  2025,
			Deliverable: []string{"reels", "posts", "stories"}[i],
			Verified:    verified,
			CreatedAt:   now,
		}))
	}

	report, err := h.svc.BuildClientReport(ctx, 3, 2025, "ops@agency.test")
	assert.NoError(t, err)
	assert.Len(t, report.Details, 2)
	assert.Equal(t, 2, report.Summary.ActiveClients)
	assert.Equal(t, 1, report.Summary.SettledCount)
	assert.Equal(t, 1, report.Summary.UnsettledCount)
	// Revenue counts settled periods only; expected covers every active
	// client regardless of settlement.
	assert.True(t, report.Summary.TotalRevenue.Equal(decimal.NewFromInt(1000)),
		report.Summary.TotalRevenue.String())
	assert.True(t, report.Summary.TotalExpectedRevenue.Equal(decimal.NewFromInt(3000)),
		report.Summary.TotalExpectedRevenue.String())

	for _, row := range report.Details {
		switch row.EntityID {
		case settled.ID:
			assert.Equal(t, reportdomain.RowSourceLedger, row.Source)
			assert.Equal(t, string(billabledomain.PaymentStatusEarlyPaid), row.Status)
			assert.Equal(t, 3, row.DeliverablesTotal)
			assert.Equal(t, 2, row.DeliverablesVerified)
			assert.NotNil(t, row.NetAmount)
		case open.ID:
			assert.Equal(t, reportdomain.RowSourceRoster, row.Source)
			assert.Equal(t, string(billabledomain.PaymentStatusPending), row.Status)
			assert.Nil(t, row.NetAmount)
		default:
			t.Fatalf("unexpected row for entity %s", row.EntityID)
		}
	}

	snapshot, err := h.svc.GetSnapshot(ctx, reportdomain.KindClient, 3, 2025)
	assert.NoError(t, err)
	assert.Equal(t, "ops@agency.test", snapshot.GeneratedBy)
	assert.Equal(t, "1000", snapshot.Totals["total_revenue"])

	// A rebuild overwrites the cached snapshot instead of adding a row.
	_, err = h.svc.BuildClientReport(ctx, 3, 2025, "ops@agency.test")
	assert.NoError(t, err)
	var count int64
	h.db.Raw(`SELECT COUNT(*) FROM report_snapshots WHERE kind = ?`, reportdomain.KindClient).Scan(&count)
	assert.Equal(t, int64(1), count)
}

func TestBuildEmployeeReport(t *testing.T) {
	now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)
	h := newReportHarness(t, "file:report_employee?mode=memory&cache=shared", now)
	ctx := context.Background()

	paid := h.createEntity(t, billabledomain.EntityKindEmployee, "Dana Writer", 3000)
	unpaid := h.createEntity(t, billabledomain.EntityKindEmployee, "Sam Editor", 2500)

	_, err := h.ledgerSvc.ProcessPayment(ctx, ledgerdomain.ProcessPaymentRequest{
		EntityID: paid.ID,
		Amount:   decimal.NewFromInt(3000),
	})
	assert.NoError(t, err)

	leaveRepo := leave.NewRepository(h.db)
	assert.NoError(t, leaveRepo.Create(ctx, &leavedomain.Record{
		ID:          h.node.Generate(),
		EmployeeID:  unpaid.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		StartDate:   time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC),
		Days:        2,
		Status:      leavedomain.LeaveStatusApproved,
		CreatedAt:   now,
	}))
	// Pending leave does not count.
	assert.NoError(t, leaveRepo.Create(ctx, &leavedomain.Record{
		ID:          h.node.Generate(),
		EmployeeID:  unpaid.ID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		StartDate:   time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		Days:        1,
		Status:      leavedomain.LeaveStatusPending,
		CreatedAt:   now,
	}))

	report, err := h.svc.BuildEmployeeReport(ctx, 3, 2025, "")
	assert.NoError(t, err)
	assert.Len(t, report.Details, 2)
	assert.Equal(t, 2, report.Summary.ActiveEmployees)
	assert.Equal(t, 1, report.Summary.SettledCount)
	assert.Equal(t, 2, report.Summary.TotalLeaveDays)
	assert.True(t, report.Summary.TotalSalaryOutflow.Equal(decimal.NewFromInt(3000)),
		report.Summary.TotalSalaryOutflow.String())
	assert.True(t, report.Summary.TotalExpectedOutflow.Equal(decimal.NewFromInt(5500)),
		report.Summary.TotalExpectedOutflow.String())

	for _, row := range report.Details {
		if row.EntityID == unpaid.ID {
			assert.Equal(t, 2, row.LeaveDays)
			assert.Equal(t, reportdomain.RowSourceRoster, row.Source)
		}
	}

	snapshot, err := h.svc.GetSnapshot(ctx, reportdomain.KindEmployee, 3, 2025)
	assert.NoError(t, err)
	assert.Equal(t, "system", snapshot.GeneratedBy)
}

func TestBuildFinanceReport(t *testing.T) {
	now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)
	h := newReportHarness(t, "file:report_finance?mode=memory&cache=shared", now)
	ctx := context.Background()

	financeRepo := finance.NewRepository(h.db)
	assert.NoError(t, financeRepo.Create(ctx, &financedomain.Entry{
		ID:        h.node.Generate(),
		Kind:      financedomain.EntryKindIncome,
		Category:  "one_off_project",
		Amount:    decimal.NewFromInt(500),
		EntryDate: time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
	}))
	assert.NoError(t, financeRepo.Create(ctx, &financedomain.Entry{
		ID:        h.node.Generate(),
		Kind:      financedomain.EntryKindExpense,
		Category:  "office_rent",
		Amount:    decimal.NewFromInt(200),
		EntryDate: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt: now,
	}))

	report, err := h.svc.BuildFinanceReport(ctx, 3, 2025, "finance@agency.test")
	assert.NoError(t, err)
	assert.Len(t, report.Income, 1)
	assert.Len(t, report.Expense, 1)
	assert.True(t, report.Summary.TotalIncome.Equal(decimal.NewFromInt(500)))
	assert.True(t, report.Summary.TotalExpense.Equal(decimal.NewFromInt(200)))
	assert.True(t, report.Summary.Net.Equal(decimal.NewFromInt(300)), report.Summary.Net.String())
}

func TestReportPeriodAndSnapshotGuards(t *testing.T) {
	now := time.Date(2025, time.March, 20, 10, 0, 0, 0, time.UTC)
	h := newReportHarness(t, "file:report_guards?mode=memory&cache=shared", now)
	ctx := context.Background()

	_, err := h.svc.BuildClientReport(ctx, 13, 2025, "")
	assert.ErrorIs(t, err, reportdomain.ErrInvalidPeriod)

	_, err = h.svc.GetSnapshot(ctx, reportdomain.Kind("weekly"), 3, 2025)
	assert.ErrorIs(t, err, reportdomain.ErrInvalidKind)

	_, err = h.svc.GetSnapshot(ctx, reportdomain.KindFinance, 3, 2025)
	assert.ErrorIs(t, err, reportdomain.ErrSnapshotMissing)
}
