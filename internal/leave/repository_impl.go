package leave

import (
	"context"

	"github.com/bwmarrin/snowflake"
	leavedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/leave/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"gorm.io/gorm"
)

type Repository struct {
	db      *gorm.DB
	records repository.Repository[leavedomain.Record]
}

func NewRepository(db *gorm.DB) leavedomain.Repository {
	return &Repository{
		db:      db,
		records: repository.ProvideStore[leavedomain.Record](db),
	}
}

func (r *Repository) Create(ctx context.Context, record *leavedomain.Record) error {
	return r.records.Create(ctx, record)
}

func (r *Repository) ApprovedDaysForPeriod(ctx context.Context, month, year int) (map[snowflake.ID]int, error) {
	var rows []struct {
		EmployeeID snowflake.ID
		Days       int
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT employee_id, SUM(days) AS days
		 FROM leave_records
		 WHERE period_month = ? AND period_year = ? AND status = ?
		 GROUP BY employee_id`,
		month,
		year,
		leavedomain.LeaveStatusApproved,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	days := make(map[snowflake.ID]int, len(rows))
	for _, row := range rows {
		days[row.EmployeeID] = row.Days
	}
	return days, nil
}
