package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/engine"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/calendar"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	ledgerdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/ledger/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/option"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	BillableSvc billabledomain.Service
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	billablesvc billabledomain.Service
	paymentrepo repository.Repository[ledgerdomain.PeriodPayment]
}

func NewService(p ServiceParam) ledgerdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("ledger.service"),
		genID: p.GenID,
		clock: p.Clock,

		billablesvc: p.BillableSvc,
		paymentrepo: repository.ProvideStore[ledgerdomain.PeriodPayment](p.DB),
	}
}

func (s *Service) Upsert(ctx context.Context, input ledgerdomain.UpsertInput) (*ledgerdomain.PeriodPayment, error) {
	if input.EntityID == 0 {
		return nil, ledgerdomain.ErrNotFound
	}
	if input.Year < 1 {
		return nil, ledgerdomain.ErrInvalidPeriod
	}
	lastDay, err := calendar.LastDayOfMonth(input.Year, input.Month)
	if err != nil {
		return nil, ledgerdomain.ErrInvalidPeriod
	}

	existing, err := s.find(ctx, input.EntityID, input.Month, input.Year)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	record := existing
	if record == nil {
		record = &ledgerdomain.PeriodPayment{
			ID:          s.genID.Generate(),
			EntityID:    input.EntityID,
			PeriodMonth: input.Month,
			PeriodYear:  input.Year,
			// Scheduled date is the period end.
			ScheduledDate: time.Date(input.Year, time.Month(input.Month), lastDay, 0, 0, 0, 0, time.UTC),
			Status:        billabledomain.PaymentStatusPending,
			CreatedAt:     now,
		}
	}

	componentsTouched := false
	if input.Gross != nil {
		record.GrossAmount = *input.Gross
		componentsTouched = true
	}
	if input.Tax != nil {
		record.TaxAmount = *input.Tax
		componentsTouched = true
	}
	if input.Discount != nil {
		record.DiscountAmount = *input.Discount
		componentsTouched = true
	}

	switch {
	case input.Net != nil:
		record.NetAmount = *input.Net
		record.NetOverridden = true
	case componentsTouched && !record.NetOverridden:
		record.NetAmount = netOf(record.GrossAmount, record.TaxAmount, record.DiscountAmount)
	}

	if input.Status != nil {
		record.Status = billabledomain.PaymentStatus(strings.TrimSpace(*input.Status))
	}
	if input.PaidAt != nil {
		paidAt := input.PaidAt.UTC()
		record.PaidAt = &paidAt
	}
	if input.Method != nil {
		record.Method = strings.TrimSpace(*input.Method)
	}
	if input.ProcessedBy != nil {
		record.ProcessedBy = strings.TrimSpace(*input.ProcessedBy)
	}
	if input.Remarks != nil {
		record.Remarks = *input.Remarks
	}
	record.UpdatedAt = now

	if err := s.save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// save writes through the unique (entity, month, year) index; a re-run
// for the same period overwrites rather than duplicates.
func (s *Service) save(ctx context.Context, record *ledgerdomain.PeriodPayment) error {
	return s.db.WithContext(ctx).Exec(
		`INSERT INTO period_payments (
			id, entity_id, period_month, period_year,
			gross_amount, tax_amount, discount_amount, net_amount, net_overridden,
			scheduled_date, paid_at, status, method, processed_by, remarks,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (entity_id, period_month, period_year) DO UPDATE SET
			gross_amount = excluded.gross_amount,
			tax_amount = excluded.tax_amount,
			discount_amount = excluded.discount_amount,
			net_amount = excluded.net_amount,
			net_overridden = excluded.net_overridden,
			paid_at = excluded.paid_at,
			status = excluded.status,
			method = excluded.method,
			processed_by = excluded.processed_by,
			remarks = excluded.remarks,
			updated_at = excluded.updated_at`,
		record.ID,
		record.EntityID,
		record.PeriodMonth,
		record.PeriodYear,
		record.GrossAmount,
		record.TaxAmount,
		record.DiscountAmount,
		record.NetAmount,
		record.NetOverridden,
		record.ScheduledDate,
		record.PaidAt,
		record.Status,
		record.Method,
		record.ProcessedBy,
		record.Remarks,
		record.CreatedAt,
		record.UpdatedAt,
	).Error
}

func (s *Service) HasSettledPeriod(ctx context.Context, entityID snowflake.ID, month, year int) (bool, error) {
	record, err := s.find(ctx, entityID, month, year)
	if err != nil {
		return false, err
	}
	return record != nil && record.Status.Settled(), nil
}

func (s *Service) ProcessPayment(ctx context.Context, req ledgerdomain.ProcessPaymentRequest) (*ledgerdomain.PeriodPayment, error) {
	if req.Amount.IsNegative() {
		return nil, ledgerdomain.ErrInvalidAmount
	}

	entity, err := s.billablesvc.Get(ctx, req.EntityID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	month, year := int(now.Month()), now.Year()
	if req.Month != nil {
		month = *req.Month
	}
	if req.Year != nil {
		year = *req.Year
	}
	if _, err := calendar.LastDayOfMonth(year, month); err != nil {
		return nil, ledgerdomain.ErrInvalidPeriod
	}

	// Pre-payment bookkeeping is a deliberate non-feature; so is
	// charging for months before the entity existed.
	if year > now.Year() || (year == now.Year() && month > int(now.Month())) {
		return nil, ledgerdomain.ErrFuturePeriod
	}
	if year < entity.OnboardedAt.Year() ||
		(year == entity.OnboardedAt.Year() && month < int(entity.OnboardedAt.Month())) {
		return nil, ledgerdomain.ErrBeforeOnboarding
	}

	settled, err := s.HasSettledPeriod(ctx, entity.ID, month, year)
	if err != nil {
		return nil, err
	}
	if settled {
		return nil, ledgerdomain.ErrAlreadySettled
	}

	paidAt := now
	if req.PaidAt != nil && !req.PaidAt.IsZero() {
		paidAt = req.PaidAt.UTC()
	}

	// Backfilled periods have no live due date to compare against, so
	// only the current period distinguishes early settlement.
	currentPeriod := month == int(now.Month()) && year == now.Year()
	status := string(billabledomain.PaymentStatusPaid)
	if currentPeriod {
		classified, _ := engine.Classify(paidAt, entity.NextPaymentDate)
		status = string(classified)
	}

	record, err := s.Upsert(ctx, ledgerdomain.UpsertInput{
		EntityID:    entity.ID,
		Month:       month,
		Year:        year,
		Gross:       &req.Amount,
		Tax:         req.Tax,
		Discount:    req.Discount,
		Net:         req.Net,
		Status:      &status,
		PaidAt:      &paidAt,
		Method:      &req.Method,
		ProcessedBy: &req.ProcessedBy,
		Remarks:     &req.Remarks,
	})
	if err != nil {
		return nil, err
	}

	// Backfills of past open periods only touch the ledger; the
	// entity's cycle state advances from its current period alone.
	if currentPeriod {
		if _, err := s.billablesvc.Settle(ctx, entity.ID, paidAt); err != nil {
			return nil, err
		}
	}

	s.log.Info("period payment processed",
		zap.String("entity_id", entity.ID.String()),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("status", status),
		zap.String("net", record.NetAmount.String()),
	)
	return record, nil
}

func (s *Service) ListForPeriod(ctx context.Context, month, year int) ([]*ledgerdomain.PeriodPayment, error) {
	return s.paymentrepo.Find(ctx,
		&ledgerdomain.PeriodPayment{PeriodMonth: month, PeriodYear: year},
		option.WithOrder("entity_id ASC"),
	)
}

func (s *Service) ListForEntity(ctx context.Context, entityID snowflake.ID) ([]*ledgerdomain.PeriodPayment, error) {
	return s.paymentrepo.Find(ctx,
		&ledgerdomain.PeriodPayment{EntityID: entityID},
		option.WithOrder("period_year DESC, period_month DESC"),
	)
}

func (s *Service) find(ctx context.Context, entityID snowflake.ID, month, year int) (*ledgerdomain.PeriodPayment, error) {
	return s.paymentrepo.FindOne(ctx, &ledgerdomain.PeriodPayment{
		EntityID:    entityID,
		PeriodMonth: month,
		PeriodYear:  year,
	})
}

func netOf(gross, tax, discount decimal.Decimal) decimal.Decimal {
	return gross.Add(tax).Sub(discount)
}
