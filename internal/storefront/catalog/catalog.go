package catalog

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/storefront/client"
)

// Fetcher is the slice of the remote catalog client the reconciler needs.
type Fetcher interface {
	FetchProducts(ctx context.Context) ([]client.Record, error)
}

// Catalog owns the merged catalog for a storefront session. All reads return
// copies; the internal slice is never handed out.
type Catalog struct {
	fetcher Fetcher
	logger  *zap.Logger

	mu        sync.Mutex
	products  []domain.Product
	customIDs map[string]struct{}
}

// New builds a catalog seeded with the compiled-in products.
func New(fetcher Fetcher, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		fetcher:   fetcher,
		logger:    logger.Named("catalog"),
		products:  domain.Builtins(),
		customIDs: make(map[string]struct{}),
	}
}

// Refresh fetches the remote products and reconciles them into the catalog.
// A fetch failure leaves the current catalog in place and is reported for
// diagnostics; the catalog itself stays valid either way.
func (c *Catalog) Refresh(ctx context.Context, forceRefresh bool) error {
	records, err := c.fetcher.FetchProducts(ctx)
	if err != nil {
		c.logger.Warn("catalog refresh failed; keeping current catalog", zap.Error(err))
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	outcome := Reconcile(c.products, records, c.customIDs, forceRefresh, c.logger)
	c.products = outcome.Products
	c.customIDs = outcome.CustomIDs
	c.logger.Info("catalog reconciled",
		zap.Int("products", len(outcome.Products)),
		zap.Int("custom", len(outcome.CustomIDs)),
		zap.Bool("force", forceRefresh),
	)
	return nil
}

// Products returns a copy of the merged catalog.
func (c *Catalog) Products() []domain.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product looks up a catalog entry by its rendered identifier.
func (c *Catalog) Product(id string) (domain.Product, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.products {
		if p.ID.String() == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// CustomCount reports how many custom products the catalog currently carries.
func (c *Catalog) CustomCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.customIDs)
}
