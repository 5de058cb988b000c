package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Verification records whether one content deliverable for a client was
// checked off in a given period. The monthly client report reads these
// as counts; they are owned by the delivery-tracking collaborator.
type Verification struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	ClientID snowflake.ID `gorm:"not null;index:ix_delivery_verifications_period" json:"client_id"`

	PeriodMonth int `gorm:"not null;index:ix_delivery_verifications_period" json:"period_month"`
	PeriodYear  int `gorm:"not null;index:ix_delivery_verifications_period" json:"period_year"`

	Deliverable string     `gorm:"type:text;not null" json:"deliverable"`
	Verified    bool       `gorm:"not null;default:false" json:"verified"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Verification) TableName() string { return "delivery_verifications" }

// Counts summarizes a client's deliverables for one period.
type Counts struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
}
