package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/engine"
	"github.com/cipherpeak/cipherpeak-backend-sub000/internal/clock"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/option"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/pagination"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	entityrepo repository.Repository[billabledomain.Entity]
}

func NewService(p ServiceParam) billabledomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("billable.service"),
		genID: p.GenID,
		clock: p.Clock,

		entityrepo: repository.ProvideStore[billabledomain.Entity](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req billabledomain.CreateEntityRequest) (*billabledomain.Entity, error) {
	kind, err := normalizeKind(req.Kind)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, billabledomain.ErrInvalidName
	}
	cycle, err := normalizeCycle(req.PaymentCycle)
	if err != nil {
		return nil, err
	}
	if req.PaymentDay < 1 || req.PaymentDay > 31 {
		return nil, billabledomain.ErrInvalidPaymentDay
	}
	if req.RecurringAmount.IsNegative() {
		return nil, billabledomain.ErrInvalidAmount
	}

	now := s.clock.Now()
	onboarded := now
	if req.OnboardedAt != nil && !req.OnboardedAt.IsZero() {
		onboarded = req.OnboardedAt.UTC()
	}

	entity := &billabledomain.Entity{
		ID:              s.genID.Generate(),
		Kind:            kind,
		Name:            name,
		Email:           strings.TrimSpace(req.Email),
		RecurringAmount: req.RecurringAmount,
		OnboardedAt:     onboarded,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	engine.Initialize(req.PaymentDay, cycle, now).Apply(entity)

	if err := s.entityrepo.Create(ctx, entity); err != nil {
		return nil, err
	}

	s.log.Info("billable entity created",
		zap.String("entity_id", entity.ID.String()),
		zap.String("kind", string(entity.Kind)),
		zap.Time("next_payment_date", entity.NextPaymentDate),
	)
	return entity, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req billabledomain.UpdateEntityRequest) (*billabledomain.Entity, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rescheduled := false
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, billabledomain.ErrInvalidName
		}
		entity.Name = name
	}
	if req.Email != nil {
		entity.Email = strings.TrimSpace(*req.Email)
	}
	if req.RecurringAmount != nil {
		if req.RecurringAmount.IsNegative() {
			return nil, billabledomain.ErrInvalidAmount
		}
		entity.RecurringAmount = *req.RecurringAmount
	}
	if req.PaymentCycle != nil {
		cycle, err := normalizeCycle(*req.PaymentCycle)
		if err != nil {
			return nil, err
		}
		entity.PaymentCycle = cycle
		rescheduled = true
	}
	if req.PaymentDay != nil {
		if *req.PaymentDay < 1 || *req.PaymentDay > 31 {
			return nil, billabledomain.ErrInvalidPaymentDay
		}
		entity.PaymentDay = *req.PaymentDay
		rescheduled = true
	}

	now := s.clock.Now()
	if rescheduled {
		engine.Reschedule(engine.StateOf(entity), now).Apply(entity)
	}
	entity.UpdatedAt = now

	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		return nil, err
	}
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*billabledomain.Entity, error) {
	entity, err := s.entityrepo.FindOne(ctx, &billabledomain.Entity{ID: id})
	if err != nil {
		return nil, err
	}
	if entity == nil {
		return nil, billabledomain.ErrNotFound
	}
	return entity, nil
}

func (s *Service) List(ctx context.Context, req billabledomain.ListEntitiesRequest) (billabledomain.ListEntitiesResponse, error) {
	filter := &billabledomain.Entity{}
	if req.Kind != "" {
		kind, err := normalizeKind(req.Kind)
		if err != nil {
			return billabledomain.ListEntitiesResponse{}, err
		}
		filter.Kind = kind
	}

	limit := req.PageSize
	if limit <= 0 {
		limit = 25
	}

	opts := []option.QueryOption{
		option.WithOrder("id ASC"),
		option.WithLimit(limit + 1),
	}
	if req.ActiveOnly {
		opts = append(opts, option.WithWhere("is_active = ?", true))
	}
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return billabledomain.ListEntitiesResponse{}, err
		}
		if cursor.ID != "" {
			opts = append(opts, option.WithWhere("id > ?", cursor.ID))
		}
	}

	entities, err := s.entityrepo.Find(ctx, filter, opts...)
	if err != nil {
		return billabledomain.ListEntitiesResponse{}, err
	}

	entities, info := pagination.BuildCursorPageInfo(entities, limit, func(e *billabledomain.Entity) string {
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: e.ID.String()})
		return token
	})

	return billabledomain.ListEntitiesResponse{
		PageInfo: *info,
		Entities: entities,
	}, nil
}

func (s *Service) Deactivate(ctx context.Context, id snowflake.ID) error {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !entity.IsActive {
		return nil
	}
	return s.entityrepo.Update(ctx, int64(entity.ID), map[string]any{
		"is_active":  false,
		"updated_at": s.clock.Now(),
	})
}

func (s *Service) Settle(ctx context.Context, id snowflake.ID, paymentDate time.Time) (*billabledomain.Entity, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	state, err := engine.RecordPayment(engine.StateOf(entity), paymentDate)
	if err != nil {
		return nil, err
	}
	state.Apply(entity)
	entity.UpdatedAt = s.clock.Now()

	if err := s.db.WithContext(ctx).Save(entity).Error; err != nil {
		return nil, err
	}

	s.log.Info("entity period settled",
		zap.String("entity_id", entity.ID.String()),
		zap.String("timing", string(entity.PaymentTiming)),
		zap.Time("next_payment_date", entity.NextPaymentDate),
	)
	return entity, nil
}

func (s *Service) RefreshStatuses(ctx context.Context, today time.Time) (int, error) {
	entities, err := s.entityrepo.Find(ctx, &billabledomain.Entity{},
		option.WithWhere("is_active = ?", true),
		option.WithWhere("current_period_status NOT IN (?, ?)",
			billabledomain.PaymentStatusPaid, billabledomain.PaymentStatusEarlyPaid),
	)
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, entity := range entities {
		refreshed := engine.RefreshStatus(engine.StateOf(entity), today)
		if refreshed.Status == entity.CurrentPeriodStatus {
			continue
		}
		if err := s.entityrepo.Update(ctx, int64(entity.ID), map[string]any{
			"current_period_status": refreshed.Status,
			"updated_at":            today,
		}); err != nil {
			s.log.Warn("failed to refresh entity status",
				zap.String("entity_id", entity.ID.String()),
				zap.Error(err),
			)
			continue
		}
		changed++
	}
	return changed, nil
}

func normalizeKind(kind billabledomain.EntityKind) (billabledomain.EntityKind, error) {
	switch billabledomain.EntityKind(strings.ToLower(strings.TrimSpace(string(kind)))) {
	case billabledomain.EntityKindClient:
		return billabledomain.EntityKindClient, nil
	case billabledomain.EntityKindEmployee:
		return billabledomain.EntityKindEmployee, nil
	default:
		return "", billabledomain.ErrInvalidKind
	}
}

func normalizeCycle(cycle billabledomain.PaymentCycle) (billabledomain.PaymentCycle, error) {
	switch billabledomain.PaymentCycle(strings.ToLower(strings.TrimSpace(string(cycle)))) {
	case billabledomain.PaymentCycleMonthly:
		return billabledomain.PaymentCycleMonthly, nil
	case billabledomain.PaymentCycleQuarterly:
		return billabledomain.PaymentCycleQuarterly, nil
	case billabledomain.PaymentCycleYearly:
		return billabledomain.PaymentCycleYearly, nil
	case billabledomain.PaymentCycleCustom:
		// Accepted in storage for legacy rows, but new writes need a
		// rollover rule that does not exist yet.
		return "", billabledomain.ErrUnsupportedCycle
	default:
		return "", billabledomain.ErrInvalidCycle
	}
}
