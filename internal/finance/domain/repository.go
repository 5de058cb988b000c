package domain

import (
	"context"
	"errors"
)

var ErrInvalidEntry = errors.New("invalid_finance_entry")

type Repository interface {
	Create(ctx context.Context, entry *Entry) error
	ListForPeriod(ctx context.Context, month, year int) ([]*Entry, error)
}
