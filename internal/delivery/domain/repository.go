package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Create(ctx context.Context, v *Verification) error
	// CountsForPeriod returns per-client deliverable counts for one
	// (month, year) window.
	CountsForPeriod(ctx context.Context, month, year int) (map[snowflake.ID]Counts, error)
}
