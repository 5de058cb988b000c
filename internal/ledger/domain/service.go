package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("period_payment_not_found")
	ErrInvalidPeriod    = errors.New("invalid_period")
	ErrInvalidAmount    = errors.New("invalid_payment_amount")
	ErrAlreadySettled   = errors.New("period_already_settled")
	ErrFuturePeriod     = errors.New("future_period_rejected")
	ErrBeforeOnboarding = errors.New("period_before_onboarding")
)

// UpsertInput carries a partial period payment; nil fields keep the
// stored value. Keyed on (EntityID, Month, Year).
type UpsertInput struct {
	EntityID snowflake.ID
	Month    int
	Year     int

	Gross    *decimal.Decimal
	Tax      *decimal.Decimal
	Discount *decimal.Decimal
	// Net overrides the computed gross + tax - discount; the override
	// sticks across later saves of unrelated fields.
	Net *decimal.Decimal

	Status      *string
	PaidAt      *time.Time
	Method      *string
	ProcessedBy *string
	Remarks     *string
}

// ProcessPaymentRequest settles a period for an entity. Month and year
// default to the current period; future periods are rejected outright.
type ProcessPaymentRequest struct {
	EntityID snowflake.ID     `json:"-"`
	Month    *int             `json:"month"`
	Year     *int             `json:"year"`
	Amount   decimal.Decimal  `json:"amount"`
	Tax      *decimal.Decimal `json:"tax"`
	Discount *decimal.Decimal `json:"discount"`
	Net      *decimal.Decimal `json:"net"`
	PaidAt   *time.Time       `json:"paid_at"`

	Method      string `json:"method"`
	ProcessedBy string `json:"processed_by"`
	Remarks     string `json:"remarks"`
}

type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*PeriodPayment, error)
	HasSettledPeriod(ctx context.Context, entityID snowflake.ID, month, year int) (bool, error)
	ProcessPayment(ctx context.Context, req ProcessPaymentRequest) (*PeriodPayment, error)
	ListForPeriod(ctx context.Context, month, year int) ([]*PeriodPayment, error)
	ListForEntity(ctx context.Context, entityID snowflake.ID) ([]*PeriodPayment, error)
}
