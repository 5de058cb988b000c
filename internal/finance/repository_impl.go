package finance

import (
	"context"
	"strings"

	financedomain "github.com/cipherpeak/cipherpeak-backend-sub000/internal/finance/domain"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/option"
	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/repository"
	"gorm.io/gorm"
)

type Repository struct {
	entries repository.Repository[financedomain.Entry]
}

func NewRepository(db *gorm.DB) financedomain.Repository {
	return &Repository{
		entries: repository.ProvideStore[financedomain.Entry](db),
	}
}

func (r *Repository) Create(ctx context.Context, entry *financedomain.Entry) error {
	kind := financedomain.EntryKind(strings.ToLower(strings.TrimSpace(string(entry.Kind))))
	if kind != financedomain.EntryKindIncome && kind != financedomain.EntryKindExpense {
		return financedomain.ErrInvalidEntry
	}
	if strings.TrimSpace(entry.Category) == "" || entry.Amount.IsNegative() {
		return financedomain.ErrInvalidEntry
	}
	entry.Kind = kind
	if entry.PeriodMonth == 0 {
		entry.PeriodMonth = int(entry.EntryDate.Month())
		entry.PeriodYear = entry.EntryDate.Year()
	}
	return r.entries.Create(ctx, entry)
}

func (r *Repository) ListForPeriod(ctx context.Context, month, year int) ([]*financedomain.Entry, error) {
	return r.entries.Find(ctx,
		&financedomain.Entry{PeriodMonth: month, PeriodYear: year},
		option.WithOrder("entry_date ASC, id ASC"),
	)
}
