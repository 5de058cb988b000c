package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Kind names the three monthly report families.
type Kind string

const (
	KindClient   Kind = "client"
	KindEmployee Kind = "employee"
	KindFinance  Kind = "finance"
)

// Snapshot is the persisted, overwrite-on-recompute cache of one
// period's aggregated totals. One row per (kind, month, year); the live
// ledger and roster stay the source of truth.
type Snapshot struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Kind Kind         `gorm:"type:text;not null;uniqueIndex:ux_report_snapshots_period,priority:1" json:"kind"`

	PeriodMonth int `gorm:"not null;uniqueIndex:ux_report_snapshots_period,priority:2" json:"period_month"`
	PeriodYear  int `gorm:"not null;uniqueIndex:ux_report_snapshots_period,priority:3" json:"period_year"`

	Totals datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"totals"`

	GeneratedBy string    `gorm:"type:text;not null" json:"generated_by"`
	GeneratedAt time.Time `gorm:"not null" json:"generated_at"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Snapshot) TableName() string { return "report_snapshots" }

// RowSource tags where a report row's payment figures came from: a
// ledger row for the period, or the roster alone when no payment
// exists yet.
type RowSource string

const (
	RowSourceLedger RowSource = "ledger"
	RowSourceRoster RowSource = "roster"
)

// ClientRow is one client's line in the monthly client report. Clients
// without a payment row still appear; surfacing missing payments is the
// report's point.
type ClientRow struct {
	EntityID        snowflake.ID     `json:"entity_id"`
	Name            string           `json:"name"`
	Source          RowSource        `json:"source"`
	RecurringAmount decimal.Decimal  `json:"recurring_amount"`
	Status          string           `json:"status"`
	NetAmount       *decimal.Decimal `json:"net_amount,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`

	DeliverablesTotal    int `json:"deliverables_total"`
	DeliverablesVerified int `json:"deliverables_verified"`
}

// ClientTotals accumulates settled revenue against the expected revenue
// of every active client, settled or not.
type ClientTotals struct {
	ActiveClients        int             `json:"active_clients"`
	SettledCount         int             `json:"settled_count"`
	UnsettledCount       int             `json:"unsettled_count"`
	TotalRevenue         decimal.Decimal `json:"total_revenue"`
	TotalTax             decimal.Decimal `json:"total_tax"`
	TotalDiscount        decimal.Decimal `json:"total_discount"`
	TotalExpectedRevenue decimal.Decimal `json:"total_expected_revenue"`
}

type ClientReport struct {
	Month   int          `json:"month"`
	Year    int          `json:"year"`
	Details []ClientRow  `json:"details"`
	Summary ClientTotals `json:"summary"`
}

// EmployeeRow is one employee's line in the monthly payroll report.
type EmployeeRow struct {
	EntityID        snowflake.ID     `json:"entity_id"`
	Name            string           `json:"name"`
	Source          RowSource        `json:"source"`
	RecurringAmount decimal.Decimal  `json:"recurring_amount"`
	Status          string           `json:"status"`
	NetAmount       *decimal.Decimal `json:"net_amount,omitempty"`
	PaidAt          *time.Time       `json:"paid_at,omitempty"`

	LeaveDays int `json:"leave_days"`
}

type EmployeeTotals struct {
	ActiveEmployees      int             `json:"active_employees"`
	SettledCount         int             `json:"settled_count"`
	UnsettledCount       int             `json:"unsettled_count"`
	TotalSalaryOutflow   decimal.Decimal `json:"total_salary_outflow"`
	TotalExpectedOutflow decimal.Decimal `json:"total_expected_outflow"`
	TotalLeaveDays       int             `json:"total_leave_days"`
}

type EmployeeReport struct {
	Month   int            `json:"month"`
	Year    int            `json:"year"`
	Details []EmployeeRow  `json:"details"`
	Summary EmployeeTotals `json:"summary"`
}

// FinanceRow is one general income or expense entry in the monthly
// finance report.
type FinanceRow struct {
	ID          snowflake.ID    `json:"id"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	EntryDate   time.Time       `json:"entry_date"`
}

type FinanceTotals struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Net          decimal.Decimal `json:"net"`
}

type FinanceReport struct {
	Month   int           `json:"month"`
	Year    int           `json:"year"`
	Income  []FinanceRow  `json:"income"`
	Expense []FinanceRow  `json:"expense"`
	Summary FinanceTotals `json:"summary"`
}
