package delivery

import (
	"context"

	"github.com/bwmarrin/snowflake"
	deliverydomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/delivery/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"gorm.io/gorm"
)

type Repository struct {
	db            *gorm.DB
	verifications repository.Repository[deliverydomain.Verification]
}

func NewRepository(db *gorm.DB) deliverydomain.Repository {
	return &Repository{
		db:            db,
		verifications: repository.ProvideStore[deliverydomain.Verification](db),
	}
}

func (r *Repository) Create(ctx context.Context, v *deliverydomain.Verification) error {
	return r.verifications.Create(ctx, v)
}

func (r *Repository) CountsForPeriod(ctx context.Context, month, year int) (map[snowflake.ID]deliverydomain.Counts, error) {
	var rows []struct {
		ClientID snowflake.ID
		Total    int
		Verified int
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT client_id,
			COUNT(1) AS total,
			SUM(CASE WHEN verified THEN 1 ELSE 0 END) AS verified
		 FROM delivery_verifications
		 WHERE period_month = ? AND period_year = ?
		 GROUP BY client_id`,
		month,
		year,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[snowflake.ID]deliverydomain.Counts, len(rows))
	for _, row := range rows {
		counts[row.ClientID] = deliverydomain.Counts{Total: row.Total, Verified: row.Verified}
	}
	return counts, nil
}
