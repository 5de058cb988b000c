package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// EntityKind discriminates the two billable rosters. Clients owe the
// agency a recurring retainer; employees are owed a recurring salary.
type EntityKind string

const (
	EntityKindClient   EntityKind = "client"
	EntityKindEmployee EntityKind = "employee"
)

// PaymentCycle is the recurrence of the charge.
type PaymentCycle string

const (
	PaymentCycleMonthly   PaymentCycle = "monthly"
	PaymentCycleQuarterly PaymentCycle = "quarterly"
	PaymentCycleYearly    PaymentCycle = "yearly"
	// PaymentCycleCustom is accepted for storage compatibility but has
	// no rollover rule; any operation needing one rejects it.
	PaymentCycleCustom PaymentCycle = "custom"
)

// PaymentStatus is the coarse state of the current billing period.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusOverdue   PaymentStatus = "overdue"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusEarlyPaid PaymentStatus = "early_paid"
	PaymentStatusPartial   PaymentStatus = "partial"
)

// Settled reports whether the status marks the period as paid. Settled
// statuses are sticky; only a new-period rollover reopens them.
func (s PaymentStatus) Settled() bool {
	return s == PaymentStatusPaid || s == PaymentStatusEarlyPaid
}

// PaymentTiming classifies the last settlement against its due date.
type PaymentTiming string

const (
	PaymentTimingEarly  PaymentTiming = "early"
	PaymentTimingOnTime PaymentTiming = "on_time"
	PaymentTimingLate   PaymentTiming = "late"
)

// Entity is a client or employee with a recurring payment obligation.
type Entity struct {
	ID    snowflake.ID `gorm:"primaryKey" json:"id"`
	Kind  EntityKind   `gorm:"type:text;not null;index" json:"kind"`
	Name  string       `gorm:"type:text;not null" json:"name"`
	Email string       `gorm:"type:text" json:"email,omitempty"`

	RecurringAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"recurring_amount"`
	PaymentCycle    PaymentCycle    `gorm:"type:text;not null;default:'monthly'" json:"payment_cycle"`
	PaymentDay      int             `gorm:"not null" json:"payment_day"`

	NextPaymentDate     time.Time     `gorm:"not null;index" json:"next_payment_date"`
	CurrentPeriodStatus PaymentStatus `gorm:"type:text;not null;default:'pending'" json:"current_period_status"`
	LastPaymentDate     *time.Time    `json:"last_payment_date,omitempty"`
	PaymentTiming       PaymentTiming `gorm:"type:text" json:"payment_timing,omitempty"`

	OnboardedAt time.Time `gorm:"not null" json:"onboarded_at"`
	IsActive    bool      `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entity) TableName() string { return "billable_entities" }
