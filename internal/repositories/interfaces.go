package repositories

import (
	"context"
	"errors"

	domain "github.com/warli-jewels/storefront/internal/domain"
)

// RepositoryError lets callers classify storage failures without importing
// the backing store package.
type RepositoryError interface {
	error
	IsNotFound() bool
	IsUnavailable() bool
}

// IsNotFound reports whether err is a repository not-found error.
func IsNotFound(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsNotFound()
}

// IsUnavailable reports whether err indicates the backing store is unreachable.
func IsUnavailable(err error) bool {
	var repoErr RepositoryError
	return errors.As(err, &repoErr) && repoErr.IsUnavailable()
}

// ProductUpdate carries the optional fields of a partial product update.
// Nil fields are left untouched.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
	Category    *domain.Category
	InStock     *bool
}

// ProductRepository persists remotely managed products.
type ProductRepository interface {
	// List returns every stored product ordered by creation time, newest first.
	List(ctx context.Context) ([]domain.Product, error)
	// Get returns the product with the given remote id.
	Get(ctx context.Context, id string) (domain.Product, error)
	// Create stores the product and returns it with its assigned id and timestamps.
	Create(ctx context.Context, product domain.Product) (domain.Product, error)
	// Update applies a partial update and returns the updated product.
	Update(ctx context.Context, id string, update ProductUpdate) (domain.Product, error)
	// Delete removes the product and returns the deleted record.
	Delete(ctx context.Context, id string) (domain.Product, error)
	// DeleteCustom removes every product tagged source == custom and reports
	// how many documents were removed.
	DeleteCustom(ctx context.Context) (int, error)
}
