package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type EntryKind string

const (
	EntryKindIncome  EntryKind = "income"
	EntryKindExpense EntryKind = "expense"
)

// Entry is a general income or expense record outside the retainer and
// salary ledgers, for example one-off project fees or office costs.
type Entry struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Kind EntryKind    `gorm:"type:text;not null;index" json:"kind"`

	Category    string          `gorm:"type:text;not null" json:"category"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`

	EntryDate   time.Time `gorm:"not null" json:"entry_date"`
	PeriodMonth int       `gorm:"not null;index:ix_finance_entries_period" json:"period_month"`
	PeriodYear  int       `gorm:"not null;index:ix_finance_entries_period" json:"period_year"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "finance_entries" }
