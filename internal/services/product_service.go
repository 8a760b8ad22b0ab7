package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	domain "github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/repositories"
)

var (
	// ErrProductInvalidInput indicates the caller supplied invalid data to a product mutation.
	ErrProductInvalidInput = errors.New("product service: invalid input")
)

// CreateProductInput carries the fields accepted when creating a product.
type CreateProductInput struct {
	Name        string
	Description string
	Price       *float64
	Image       string
	Category    string
	InStock     *bool
	Source      string
}

// UpdateProductInput carries the optional fields of a partial update.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Image       *string
	Category    *string
	InStock     *bool
}

// ProductService exposes the catalog operations of the product API.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (domain.Product, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (domain.Product, error)
	Delete(ctx context.Context, id string) (domain.Product, error)
	ClearCustom(ctx context.Context) (int, error)
}

// ProductServiceDeps bundles constructor inputs for the product service.
type ProductServiceDeps struct {
	Products repositories.ProductRepository
	Clock    func() time.Time
}

type productService struct {
	repo  repositories.ProductRepository
	clock func() time.Time
}

// NewProductService constructs the product service with the supplied dependencies.
func NewProductService(deps ProductServiceDeps) (ProductService, error) {
	if deps.Products == nil {
		return nil, fmt.Errorf("product service: product repository is required")
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &productService{
		repo:  deps.Products,
		clock: func() time.Time { return clock().UTC() },
	}, nil
}

func (s *productService) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *productService) Get(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrProductInvalidInput)
	}
	return s.repo.Get(ctx, id)
}

func (s *productService) Create(ctx context.Context, input CreateProductInput) (domain.Product, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	image := strings.TrimSpace(input.Image)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if input.Price == nil {
		missing = append(missing, "price")
	}
	if image == "" {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return domain.Product{}, fmt.Errorf("%w: missing required fields: %s", ErrProductInvalidInput, strings.Join(missing, ", "))
	}
	price, err := validatePrice(*input.Price)
	if err != nil {
		return domain.Product{}, err
	}

	category := domain.CategoryCustom
	if trimmed := strings.TrimSpace(input.Category); trimmed != "" {
		category = domain.Category(trimmed)
		if !domain.ValidCategory(category) {
			return domain.Product{}, fmt.Errorf("%w: unknown category %q", ErrProductInvalidInput, trimmed)
		}
	}

	source := domain.SourceCustom
	if trimmed := strings.TrimSpace(input.Source); trimmed != "" {
		switch domain.Source(trimmed) {
		case domain.SourceCustom, domain.SourceDefault:
			source = domain.Source(trimmed)
		default:
			return domain.Product{}, fmt.Errorf("%w: unknown source %q", ErrProductInvalidInput, trimmed)
		}
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	now := s.clock()
	product := domain.Product{
		Name:        name,
		Description: description,
		Price:       price,
		Image:       image,
		Category:    category,
		InStock:     inStock,
		Source:      source,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return s.repo.Create(ctx, product)
}

func (s *productService) Update(ctx context.Context, id string, input UpdateProductInput) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrProductInvalidInput)
	}

	update := repositories.ProductUpdate{InStock: input.InStock}
	if input.Name != nil {
		if trimmed := strings.TrimSpace(*input.Name); trimmed != "" {
			update.Name = &trimmed
		}
	}
	if input.Description != nil {
		if trimmed := strings.TrimSpace(*input.Description); trimmed != "" {
			update.Description = &trimmed
		}
	}
	if input.Price != nil {
		price, err := validatePrice(*input.Price)
		if err != nil {
			return domain.Product{}, err
		}
		update.Price = &price
	}
	if input.Image != nil {
		if trimmed := strings.TrimSpace(*input.Image); trimmed != "" {
			update.Image = &trimmed
		}
	}
	if input.Category != nil {
		if trimmed := strings.TrimSpace(*input.Category); trimmed != "" {
			category := domain.Category(trimmed)
			if !domain.ValidCategory(category) {
				return domain.Product{}, fmt.Errorf("%w: unknown category %q", ErrProductInvalidInput, trimmed)
			}
			update.Category = &category
		}
	}

	return s.repo.Update(ctx, id, update)
}

func (s *productService) Delete(ctx context.Context, id string) (domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, fmt.Errorf("%w: product id is required", ErrProductInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}

func (s *productService) ClearCustom(ctx context.Context) (int, error) {
	return s.repo.DeleteCustom(ctx)
}

func validatePrice(price float64) (float64, error) {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return 0, fmt.Errorf("%w: price must be a valid number greater than or equal to 0", ErrProductInvalidInput)
	}
	return price, nil
}
