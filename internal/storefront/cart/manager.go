// Package cart owns the shopper's cart and wishlist for a storefront session.
package cart

import (
	"fmt"
	"sync"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/storefront/localstore"
)

// Manager holds the cart lines and wishlist entries. Every mutation persists
// synchronously to the local store before returning; the persisted copy is
// what a restarted session reloads.
type Manager struct {
	store  *localstore.Store
	logger *zap.Logger
	newID  func() string

	mu       sync.Mutex
	lines    []domain.CartLine
	wishlist []domain.WishlistEntry
}

// Option customises the Manager.
type Option func(*Manager)

// WithLineIDs overrides cart line id generation, used by tests.
func WithLineIDs(newID func() string) Option {
	return func(m *Manager) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// NewManager builds a manager seeded from the local store's persisted cart
// and wishlist collections.
func NewManager(store *localstore.Store, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		store:  store,
		logger: logger.Named("cart"),
		newID:  func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	store.Load(localstore.KeyCart, &m.lines)
	store.Load(localstore.KeyWishlist, &m.wishlist)
	return m
}

// AddToCart merges quantity of the product's variant into the cart. A line
// with the same name and variant absorbs the quantity; otherwise a new line is
// appended. The snapshot decouples the line from later catalog edits.
func (m *Manager) AddToCart(product domain.Product, variant string, quantity int) (domain.CartTotals, error) {
	if quantity < 1 {
		return m.Totals(), fmt.Errorf("cart: quantity must be at least 1, got %d", quantity)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	merged := false
	for i := range m.lines {
		if m.lines[i].Name == product.Name && m.lines[i].Size == variant {
			m.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		m.lines = append(m.lines, domain.CartLine{
			ID:       m.newID(),
			Name:     product.Name,
			Price:    product.Price,
			Size:     variant,
			Quantity: quantity,
			Image:    product.Image,
		})
	}

	if err := m.store.Save(localstore.KeyCart, m.lines); err != nil {
		return domain.TotalsOf(m.lines), err
	}
	m.logger.Debug("cart updated",
		zap.String("product", product.Name),
		zap.String("variant", variant),
		zap.Int("quantity", quantity),
		zap.Bool("merged", merged),
	)
	return domain.TotalsOf(m.lines), nil
}

// RemoveFromCart drops the line with the given id, a no-op when absent.
func (m *Manager) RemoveFromCart(lineID string) (domain.CartTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.lines[:0]
	removed := false
	for _, line := range m.lines {
		if line.ID == lineID {
			removed = true
			continue
		}
		kept = append(kept, line)
	}
	m.lines = kept
	if !removed {
		return domain.TotalsOf(m.lines), nil
	}
	if err := m.store.Save(localstore.KeyCart, m.lines); err != nil {
		return domain.TotalsOf(m.lines), err
	}
	return domain.TotalsOf(m.lines), nil
}

// Lines returns a copy of the cart lines.
func (m *Manager) Lines() []domain.CartLine {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CartLine, len(m.lines))
	copy(out, m.lines)
	return out
}

// Totals recomputes the cart aggregates.
func (m *Manager) Totals() domain.CartTotals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domain.TotalsOf(m.lines)
}

// ToggleWishlist flips the wishlist membership of the given product. It
// reports whether the product is on the wishlist after the toggle.
func (m *Manager) ToggleWishlist(product domain.Product) (bool, error) {
	id := product.ID.String()

	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.wishlist[:0]
	removed := false
	for _, entry := range m.wishlist {
		if entry.ProductID == id {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	m.wishlist = kept
	if !removed {
		m.wishlist = append(m.wishlist, domain.WishlistEntry{ProductID: id, Product: product})
	}

	if err := m.store.Save(localstore.KeyWishlist, m.wishlist); err != nil {
		return !removed, err
	}
	return !removed, nil
}

// Wishlist returns a copy of the wishlist entries.
func (m *Manager) Wishlist() []domain.WishlistEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WishlistEntry, len(m.wishlist))
	copy(out, m.wishlist)
	return out
}

// WishlistCount reports the number of wishlist entries.
func (m *Manager) WishlistCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.wishlist)
}
