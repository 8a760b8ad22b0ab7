package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/oklog/ulid/v2"
	"google.golang.org/api/iterator"

	domain "github.com/warli-jewels/storefront/internal/domain"
	pfirestore "github.com/warli-jewels/storefront/internal/platform/firestore"
	"github.com/warli-jewels/storefront/internal/repositories"
)

const defaultProductCollection = "products"

// ProductRepository persists products in a Firestore collection.
type ProductRepository struct {
	provider   *pfirestore.Provider
	collection string
	clock      func() time.Time
}

// NewProductRepository constructs a Firestore-backed product repository.
func NewProductRepository(provider *pfirestore.Provider, collection string, clock func() time.Time) (*ProductRepository, error) {
	if provider == nil {
		return nil, errors.New("product repository requires firestore provider")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = defaultProductCollection
	}
	if clock == nil {
		clock = time.Now
	}
	return &ProductRepository{provider: provider, collection: collection, clock: clock}, nil
}

// List returns every stored product, newest first.
func (r *ProductRepository) List(ctx context.Context) ([]domain.Product, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return nil, err
	}

	iter := coll.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var products []domain.Product
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, pfirestore.WrapError("products.list", err)
		}
		product, err := decodeProductDocument(snap)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

// Get returns the product stored under id.
func (r *ProductRepository) Get(ctx context.Context, id string) (domain.Product, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, errors.New("product repository: id is required")
	}
	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		return domain.Product{}, pfirestore.WrapError("products.get", err)
	}
	return decodeProductDocument(snap)
}

// Create stores the product under a freshly generated ULID document id.
func (r *ProductRepository) Create(ctx context.Context, product domain.Product) (domain.Product, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return domain.Product{}, err
	}

	id := ulid.Make().String()
	doc := encodeProductDocument(product)
	if _, err := coll.Doc(id).Create(ctx, doc); err != nil {
		return domain.Product{}, pfirestore.WrapError("products.create", err)
	}
	product.ID = domain.RemoteID(id)
	return product, nil
}

// Update applies the non-nil fields of update and returns the stored product.
func (r *ProductRepository) Update(ctx context.Context, id string, update repositories.ProductUpdate) (domain.Product, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, errors.New("product repository: id is required")
	}

	updates := r.buildUpdates(update)
	if len(updates) > 0 {
		if _, err := coll.Doc(id).Update(ctx, updates); err != nil {
			return domain.Product{}, pfirestore.WrapError("products.update", err)
		}
	}

	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		return domain.Product{}, pfirestore.WrapError("products.update", err)
	}
	return decodeProductDocument(snap)
}

// Delete removes the product and returns the record it held.
func (r *ProductRepository) Delete(ctx context.Context, id string) (domain.Product, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Product{}, errors.New("product repository: id is required")
	}

	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		return domain.Product{}, pfirestore.WrapError("products.delete", err)
	}
	product, err := decodeProductDocument(snap)
	if err != nil {
		return domain.Product{}, err
	}
	if _, err := coll.Doc(id).Delete(ctx); err != nil {
		return domain.Product{}, pfirestore.WrapError("products.delete", err)
	}
	return product, nil
}

// DeleteCustom removes every document tagged source == custom.
func (r *ProductRepository) DeleteCustom(ctx context.Context) (int, error) {
	coll, err := r.coll(ctx)
	if err != nil {
		return 0, err
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return 0, err
	}

	iter := coll.Where("source", "==", string(domain.SourceCustom)).Documents(ctx)
	defer iter.Stop()

	writer := client.BulkWriter(ctx)
	count := 0
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			writer.End()
			return 0, pfirestore.WrapError("products.deleteCustom", err)
		}
		if _, err := writer.Delete(snap.Ref); err != nil {
			writer.End()
			return 0, pfirestore.WrapError("products.deleteCustom", err)
		}
		count++
	}
	writer.End()
	return count, nil
}

func (r *ProductRepository) coll(ctx context.Context) (*firestore.CollectionRef, error) {
	if r == nil || r.provider == nil {
		return nil, errors.New("product repository not initialised")
	}
	client, err := r.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Collection(r.collection), nil
}

type productDocument struct {
	Name        string    `firestore:"name"`
	Description string    `firestore:"description"`
	Price       float64   `firestore:"price"`
	Image       string    `firestore:"image"`
	Category    string    `firestore:"category"`
	InStock     bool      `firestore:"inStock"`
	Source      string    `firestore:"source"`
	CreatedAt   time.Time `firestore:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt"`
}

func encodeProductDocument(product domain.Product) productDocument {
	return productDocument{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		Category:    string(product.Category),
		InStock:     product.InStock,
		Source:      string(product.Source),
		CreatedAt:   product.CreatedAt.UTC(),
		UpdatedAt:   product.UpdatedAt.UTC(),
	}
}

func decodeProductDocument(snap *firestore.DocumentSnapshot) (domain.Product, error) {
	var doc productDocument
	if err := snap.DataTo(&doc); err != nil {
		return domain.Product{}, fmt.Errorf("decode product %s: %w", snap.Ref.ID, err)
	}
	return domain.Product{
		ID:          domain.RemoteID(snap.Ref.ID),
		Name:        doc.Name,
		Description: doc.Description,
		Price:       doc.Price,
		Image:       doc.Image,
		Category:    domain.Category(doc.Category),
		InStock:     doc.InStock,
		Source:      domain.Source(doc.Source),
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (r *ProductRepository) buildUpdates(update repositories.ProductUpdate) []firestore.Update {
	var updates []firestore.Update
	if update.Name != nil {
		updates = append(updates, firestore.Update{Path: "name", Value: *update.Name})
	}
	if update.Description != nil {
		updates = append(updates, firestore.Update{Path: "description", Value: *update.Description})
	}
	if update.Price != nil {
		updates = append(updates, firestore.Update{Path: "price", Value: *update.Price})
	}
	if update.Image != nil {
		updates = append(updates, firestore.Update{Path: "image", Value: *update.Image})
	}
	if update.Category != nil {
		updates = append(updates, firestore.Update{Path: "category", Value: string(*update.Category)})
	}
	if update.InStock != nil {
		updates = append(updates, firestore.Update{Path: "inStock", Value: *update.InStock})
	}
	if len(updates) > 0 {
		updates = append(updates, firestore.Update{Path: "updatedAt", Value: r.clock().UTC()})
	}
	return updates
}

// Ensure interface compliance.
var _ repositories.ProductRepository = (*ProductRepository)(nil)
