package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	billabledomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/billable/domain"
	"github.com/shopspring/decimal"
)

// PeriodPayment is the settlement record for one entity and one
// (month, year) billing window. The unique index over the triple is the
// only write guard: concurrent saves collapse into last-writer-wins
// upserts instead of duplicate rows.
type PeriodPayment struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	EntityID snowflake.ID `gorm:"not null;uniqueIndex:ux_period_payments_period,priority:1" json:"entity_id"`

	PeriodMonth int `gorm:"not null;uniqueIndex:ux_period_payments_period,priority:2" json:"period_month"`
	PeriodYear  int `gorm:"not null;uniqueIndex:ux_period_payments_period,priority:3" json:"period_year"`

	GrossAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"gross_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"tax_amount"`
	DiscountAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"discount_amount"`
	NetAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"net_amount"`
	// NetOverridden marks a caller-supplied net amount; once set, later
	// saves of unrelated fields no longer recompute net.
	NetOverridden bool `gorm:"not null;default:false" json:"net_overridden"`

	ScheduledDate time.Time                    `gorm:"not null" json:"scheduled_date"`
	PaidAt        *time.Time                   `json:"paid_at,omitempty"`
	Status        billabledomain.PaymentStatus `gorm:"type:text;not null;default:'pending'" json:"status"`

	Method      string `gorm:"type:text" json:"method,omitempty"`
	ProcessedBy string `gorm:"type:text" json:"processed_by,omitempty"`
	Remarks     string `gorm:"type:text" json:"remarks,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (PeriodPayment) TableName() string { return "period_payments" }
