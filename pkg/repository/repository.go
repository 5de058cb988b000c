package repository

import (
	"context"

	"github.com/cipherpeak/cipherpeak-backend-sub000/pkg/db/option"
	"gorm.io/gorm"
)

// Repository is the generic gorm-backed store shared by the domain
// repositories. Filters are expressed as partially populated models.
type Repository[T any] interface {
	WithTrx(tx *gorm.DB) Repository[T]
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error)
	Create(ctx context.Context, resource *T) error
	Update(ctx context.Context, resourceID int64, resource any) error
	Delete(ctx context.Context, resourceID int64) error
	Count(ctx context.Context, query *T) (int64, error)
}
