package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, record *Record) error
	// ApprovedDaysForPeriod returns approved leave days per employee
	// for one (month, year) window.
	ApprovedDaysForPeriod(ctx context.Context, month, year int) (map[snowflake.ID]int, error)
}
