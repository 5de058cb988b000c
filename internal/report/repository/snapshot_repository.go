package repository

import (
	"context"

	reportdomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/report/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"gorm.io/gorm"
)

type SnapshotRepository struct {
	db        *gorm.DB
	snapshots repository.Repository[reportdomain.Snapshot]
}

func NewSnapshotRepository(db *gorm.DB) reportdomain.Repository {
	return &SnapshotRepository{
		db:        db,
		snapshots: repository.ProvideStore[reportdomain.Snapshot](db),
	}
}

// UpsertSnapshot writes through the unique (kind, month, year) index so
// a rebuild overwrites the cached totals instead of accumulating rows.
func (r *SnapshotRepository) UpsertSnapshot(ctx context.Context, snapshot *reportdomain.Snapshot) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO report_snapshots (
			id, kind, period_month, period_year, totals,
			generated_by, generated_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (kind, period_month, period_year) DO UPDATE SET
			totals = excluded.totals,
			generated_by = excluded.generated_by,
			generated_at = excluded.generated_at,
			updated_at = excluded.updated_at`,
		snapshot.ID,
		snapshot.Kind,
		snapshot.PeriodMonth,
		snapshot.PeriodYear,
		snapshot.Totals,
		snapshot.GeneratedBy,
		snapshot.GeneratedAt,
		snapshot.CreatedAt,
		snapshot.UpdatedAt,
	).Error
}

func (r *SnapshotRepository) FindSnapshot(ctx context.Context, kind reportdomain.Kind, month, year int) (*reportdomain.Snapshot, error) {
	return r.snapshots.FindOne(ctx, &reportdomain.Snapshot{
		Kind:        kind,
		PeriodMonth: month,
		PeriodYear:  year,
	})
}
