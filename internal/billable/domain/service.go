package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/pagination"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("entity_not_found")
	ErrInvalidKind       = errors.New("invalid_entity_kind")
	ErrInvalidName       = errors.New("invalid_entity_name")
	ErrInvalidPaymentDay = errors.New("invalid_payment_day")
	ErrInvalidCycle      = errors.New("invalid_payment_cycle")
	ErrUnsupportedCycle  = errors.New("unsupported_payment_cycle")
	ErrInvalidAmount     = errors.New("invalid_recurring_amount")
)

type CreateEntityRequest struct {
	Kind            EntityKind      `json:"kind"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	RecurringAmount decimal.Decimal `json:"recurring_amount"`
	PaymentCycle    PaymentCycle    `json:"payment_cycle"`
	PaymentDay      int             `json:"payment_day"`
	OnboardedAt     *time.Time      `json:"onboarded_at"`
}

type UpdateEntityRequest struct {
	Name            *string          `json:"name"`
	Email           *string          `json:"email"`
	RecurringAmount *decimal.Decimal `json:"recurring_amount"`
	PaymentCycle    *PaymentCycle    `json:"payment_cycle"`
	PaymentDay      *int             `json:"payment_day"`
}

type ListEntitiesRequest struct {
	pagination.Pagination
	Kind       EntityKind `form:"kind"`
	ActiveOnly bool       `form:"active_only"`
}

type ListEntitiesResponse struct {
	pagination.PageInfo
	Entities []*Entity `json:"entities"`
}

type Service interface {
	Create(ctx context.Context, req CreateEntityRequest) (*Entity, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateEntityRequest) (*Entity, error)
	Get(ctx context.Context, id snowflake.ID) (*Entity, error)
	List(ctx context.Context, req ListEntitiesRequest) (ListEntitiesResponse, error)
	Deactivate(ctx context.Context, id snowflake.ID) error

	// Settle applies a period settlement to the entity's payment state:
	// timing classification against the pre-rollover due date, sticky
	// paid status, and the cycle rollover of next_payment_date.
	Settle(ctx context.Context, id snowflake.ID, paymentDate time.Time) (*Entity, error)

	// RefreshStatuses recomputes pending/overdue for every active,
	// unsettled entity as of today. Returns the number of rows changed.
	RefreshStatuses(ctx context.Context, today time.Time) (int, error)
}
