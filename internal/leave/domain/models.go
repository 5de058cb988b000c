package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

// Record is one employee leave entry. The request/approval workflow
// lives in the external CRUD layer; the report aggregator only reads
// approved day counts per period.
type Record struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	EmployeeID snowflake.ID `gorm:"not null;index:ix_leave_records_period" json:"employee_id"`

	PeriodMonth int `gorm:"not null;index:ix_leave_records_period" json:"period_month"`
	PeriodYear  int `gorm:"not null;index:ix_leave_records_period" json:"period_year"`

	StartDate time.Time   `gorm:"not null" json:"start_date"`
	EndDate   time.Time   `gorm:"not null" json:"end_date"`
	Days      int         `gorm:"not null" json:"days"`
	Status    LeaveStatus `gorm:"type:text;not null;default:'pending'" json:"status"`
	Reason    string      `gorm:"type:text" json:"reason,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Record) TableName() string { return "leave_records" }
