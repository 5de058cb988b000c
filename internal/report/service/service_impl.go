package service

import (
	"context"
	"fmt"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/calendar"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	deliverydomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/delivery/domain"
	financedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance/domain"
	leavedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/leave/domain"
	ledgerdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger/domain"
	reportdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/option"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock

	LedgerSvc    ledgerdomain.Service
	DeliveryRepo deliverydomain.Repository
	LeaveRepo    leavedomain.Repository
	FinanceRepo  financedomain.Repository
	SnapshotRepo reportdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	entityrepo   repository.Repository[billabledomain.Entity]
	ledgersvc    ledgerdomain.Service
	deliveryrepo deliverydomain.Repository
	leaverepo    leavedomain.Repository
	financerepo  financedomain.Repository
	snapshots    reportdomain.Repository
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		log:   p.Log.Named("report.service"),
		genID: p.GenID,
		clock: p.Clock,

		entityrepo:   repository.ProvideStore[billabledomain.Entity](p.DB),
		ledgersvc:    p.LedgerSvc,
		deliveryrepo: p.DeliveryRepo,
		leaverepo:    p.LeaveRepo,
		financerepo:  p.FinanceRepo,
		snapshots:    p.SnapshotRepo,
	}
}

func (s *Service) BuildClientReport(ctx context.Context, month, year int, generatedBy string) (*reportdomain.ClientReport, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	clients, err := s.activeEntities(ctx, billabledomain.EntityKindClient)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentsByEntity(ctx, month, year)
	if err != nil {
		return nil, err
	}
	deliveries, err := s.deliveryrepo.CountsForPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	report := &reportdomain.ClientReport{Month: month, Year: year}
	for _, client := range clients {
		row, err := buildClientRow(client, payments[client.ID], deliveries[client.ID])
		if err != nil {
			// One malformed roster member must not sink the whole
			// report; these rows come from loosely validated history.
			s.log.Warn("skipping client report row",
				zap.String("entity_id", client.ID.String()),
				zap.Error(err),
			)
			continue
		}

		report.Summary.ActiveClients++
		report.Summary.TotalExpectedRevenue = report.Summary.TotalExpectedRevenue.Add(client.RecurringAmount)

		payment := payments[client.ID]
		if payment != nil && payment.Status.Settled() {
			report.Summary.SettledCount++
			report.Summary.TotalRevenue = report.Summary.TotalRevenue.Add(payment.NetAmount)
			report.Summary.TotalTax = report.Summary.TotalTax.Add(payment.TaxAmount)
			report.Summary.TotalDiscount = report.Summary.TotalDiscount.Add(payment.DiscountAmount)
		} else {
			report.Summary.UnsettledCount++
		}

		report.Details = append(report.Details, row)
	}

	totals := datatypes.JSONMap{
		"active_clients":         report.Summary.ActiveClients,
		"settled_count":          report.Summary.SettledCount,
		"unsettled_count":        report.Summary.UnsettledCount,
		"total_revenue":          report.Summary.TotalRevenue.String(),
		"total_tax":              report.Summary.TotalTax.String(),
		"total_discount":         report.Summary.TotalDiscount.String(),
		"total_expected_revenue": report.Summary.TotalExpectedRevenue.String(),
	}
	if err := s.persistSnapshot(ctx, reportdomain.KindClient, month, year, totals, generatedBy); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) BuildEmployeeReport(ctx context.Context, month, year int, generatedBy string) (*reportdomain.EmployeeReport, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	employees, err := s.activeEntities(ctx, billabledomain.EntityKindEmployee)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentsByEntity(ctx, month, year)
	if err != nil {
		return nil, err
	}
	leaveDays, err := s.leaverepo.ApprovedDaysForPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	report := &reportdomain.EmployeeReport{Month: month, Year: year}
	for _, employee := range employees {
		row, err := buildEmployeeRow(employee, payments[employee.ID], leaveDays[employee.ID])
		if err != nil {
			s.log.Warn("skipping employee report row",
				zap.String("entity_id", employee.ID.String()),
				zap.Error(err),
			)
			continue
		}

		report.Summary.ActiveEmployees++
		report.Summary.TotalExpectedOutflow = report.Summary.TotalExpectedOutflow.Add(employee.RecurringAmount)
		report.Summary.TotalLeaveDays += row.LeaveDays

		payment := payments[employee.ID]
		if payment != nil && payment.Status.Settled() {
			report.Summary.SettledCount++
			report.Summary.TotalSalaryOutflow = report.Summary.TotalSalaryOutflow.Add(payment.NetAmount)
		} else {
			report.Summary.UnsettledCount++
		}

		report.Details = append(report.Details, row)
	}

	totals := datatypes.JSONMap{
		"active_employees":       report.Summary.ActiveEmployees,
		"settled_count":          report.Summary.SettledCount,
		"unsettled_count":        report.Summary.UnsettledCount,
		"total_salary_outflow":   report.Summary.TotalSalaryOutflow.String(),
		"total_expected_outflow": report.Summary.TotalExpectedOutflow.String(),
		"total_leave_days":       report.Summary.TotalLeaveDays,
	}
	if err := s.persistSnapshot(ctx, reportdomain.KindEmployee, month, year, totals, generatedBy); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) BuildFinanceReport(ctx context.Context, month, year int, generatedBy string) (*reportdomain.FinanceReport, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	entries, err := s.financerepo.ListForPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	report := &reportdomain.FinanceReport{Month: month, Year: year}
	for _, entry := range entries {
		row := reportdomain.FinanceRow{
			ID:          entry.ID,
			Category:    entry.Category,
			Description: entry.Description,
			Amount:      entry.Amount,
			EntryDate:   entry.EntryDate,
		}
		switch entry.Kind {
		case financedomain.EntryKindIncome:
			report.Income = append(report.Income, row)
			report.Summary.TotalIncome = report.Summary.TotalIncome.Add(entry.Amount)
		case financedomain.EntryKindExpense:
			report.Expense = append(report.Expense, row)
			report.Summary.TotalExpense = report.Summary.TotalExpense.Add(entry.Amount)
		default:
			s.log.Warn("skipping finance entry with unknown kind",
				zap.String("entry_id", entry.ID.String()),
				zap.String("kind", string(entry.Kind)),
			)
		}
	}
	report.Summary.Net = report.Summary.TotalIncome.Sub(report.Summary.TotalExpense)

	totals := datatypes.JSONMap{
		"total_income":  report.Summary.TotalIncome.String(),
		"total_expense": report.Summary.TotalExpense.String(),
		"net":           report.Summary.Net.String(),
	}
	if err := s.persistSnapshot(ctx, reportdomain.KindFinance, month, year, totals, generatedBy); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *Service) GetSnapshot(ctx context.Context, kind reportdomain.Kind, month, year int) (*reportdomain.Snapshot, error) {
	switch kind {
	case reportdomain.KindClient, reportdomain.KindEmployee, reportdomain.KindFinance:
	default:
		return nil, reportdomain.ErrInvalidKind
	}
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	snapshot, err := s.snapshots.FindSnapshot(ctx, kind, month, year)
	if err != nil {
		return nil, err
	}
	if snapshot == nil {
		return nil, reportdomain.ErrSnapshotMissing
	}
	return snapshot, nil
}

func (s *Service) activeEntities(ctx context.Context, kind billabledomain.EntityKind) ([]*billabledomain.Entity, error) {
	return s.entityrepo.Find(ctx,
		&billabledomain.Entity{Kind: kind},
		option.WithWhere("is_active = ?", true),
		option.WithOrder("id ASC"),
	)
}

func (s *Service) paymentsByEntity(ctx context.Context, month, year int) (map[snowflake.ID]*ledgerdomain.PeriodPayment, error) {
	payments, err := s.ledgersvc.ListForPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}
	byEntity := make(map[snowflake.ID]*ledgerdomain.PeriodPayment, len(payments))
	for _, payment := range payments {
		byEntity[payment.EntityID] = payment
	}
	return byEntity, nil
}

func (s *Service) persistSnapshot(ctx context.Context, kind reportdomain.Kind, month, year int, totals datatypes.JSONMap, generatedBy string) error {
	now := s.clock.Now()
	if generatedBy == "" {
		generatedBy = "system"
	}
	return s.snapshots.UpsertSnapshot(ctx, &reportdomain.Snapshot{
		ID:          s.genID.Generate(),
		Kind:        kind,
		PeriodMonth: month,
		PeriodYear:  year,
		Totals:      totals,
		GeneratedBy: generatedBy,
		GeneratedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func buildClientRow(client *billabledomain.Entity, payment *ledgerdomain.PeriodPayment, counts deliverydomain.Counts) (reportdomain.ClientRow, error) {
	row := reportdomain.ClientRow{
		EntityID:             client.ID,
		Name:                 client.Name,
		Source:               reportdomain.RowSourceRoster,
		RecurringAmount:      client.RecurringAmount,
		Status:               string(billabledomain.PaymentStatusPending),
		DeliverablesTotal:    counts.Total,
		DeliverablesVerified: counts.Verified,
	}
	if payment == nil {
		return row, nil
	}
	if err := validateLedgerStatus(payment); err != nil {
		return reportdomain.ClientRow{}, err
	}
	row.Source = reportdomain.RowSourceLedger
	row.Status = string(payment.Status)
	net := payment.NetAmount
	row.NetAmount = &net
	row.PaidAt = payment.PaidAt
	return row, nil
}

func buildEmployeeRow(employee *billabledomain.Entity, payment *ledgerdomain.PeriodPayment, leaveDays int) (reportdomain.EmployeeRow, error) {
	row := reportdomain.EmployeeRow{
		EntityID:        employee.ID,
		Name:            employee.Name,
		Source:          reportdomain.RowSourceRoster,
		RecurringAmount: employee.RecurringAmount,
		Status:          string(billabledomain.PaymentStatusPending),
		LeaveDays:       leaveDays,
	}
	if payment == nil {
		return row, nil
	}
	if err := validateLedgerStatus(payment); err != nil {
		return reportdomain.EmployeeRow{}, err
	}
	row.Source = reportdomain.RowSourceLedger
	row.Status = string(payment.Status)
	net := payment.NetAmount
	row.NetAmount = &net
	row.PaidAt = payment.PaidAt
	return row, nil
}

// validateLedgerStatus guards the aggregator against historical rows
// whose status text predates the current enum.
func validateLedgerStatus(payment *ledgerdomain.PeriodPayment) error {
	switch payment.Status {
	case billabledomain.PaymentStatusPending,
		billabledomain.PaymentStatusOverdue,
		billabledomain.PaymentStatusPaid,
		billabledomain.PaymentStatusEarlyPaid,
		billabledomain.PaymentStatusPartial:
		return nil
	default:
		return fmt.Errorf("unknown ledger status %q", payment.Status)
	}
}

func validatePeriod(month, year int) error {
	if year < 1 {
		return reportdomain.ErrInvalidPeriod
	}
	if _, err := calendar.LastDayOfMonth(year, month); err != nil {
		return reportdomain.ErrInvalidPeriod
	}
	return nil
}
