// Package admin implements the edit-session state machine behind the product
// management surface. A session is either creating a new product or editing
// one that exists in the local custom-product mirror; every remote operation
// confirms with the product service before any local state changes.
package admin

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/storefront/client"
	"github.com/warli-jewels/storefront/internal/storefront/localstore"
	"github.com/warli-jewels/storefront/internal/storefront/notify"
)

// State names the two session modes.
type State string

const (
	// StateCreating is the resting state: submissions create new products.
	StateCreating State = "creating"
	// StateEditing means submissions update the product the session targets.
	StateEditing State = "editing"
)

// Catalog is the slice of the remote catalog client the session needs.
type Catalog interface {
	FetchProducts(ctx context.Context) ([]client.Record, error)
	CreateProduct(ctx context.Context, req client.CreateRequest) (client.Record, error)
	UpdateProduct(ctx context.Context, id string, req client.UpdateRequest) (client.Record, error)
	DeleteProduct(ctx context.Context, id string) (client.Record, error)
	ClearCustomProducts(ctx context.Context) (int, error)
}

// Form carries the admin form fields as submitted. Price arrives as text and
// is parsed during validation.
type Form struct {
	Name        string
	Description string
	Price       string
	Image       string
	Category    string
	InStock     *bool
}

// Session is the admin edit-session state machine plus the local mirror of
// custom products it manages.
type Session struct {
	catalog  Catalog
	store    *localstore.Store
	notifier *notify.Notifier
	logger   *zap.Logger

	mu        sync.Mutex
	state     State
	editingID string
	mirror    []domain.Product
	// generation advances on every session transition so a completion racing
	// a superseding action can detect it went stale and discard itself.
	generation uint64
}

// NewSession builds a session in the creating state, seeding the mirror from
// the local store.
func NewSession(catalog Catalog, store *localstore.Store, notifier *notify.Notifier, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{
		catalog:  catalog,
		store:    store,
		notifier: notifier,
		logger:   logger.Named("admin"),
		state:    StateCreating,
	}
	store.Load(localstore.KeyCustomProducts, &s.mirror)
	return s
}

// RefreshMirror rebuilds the local mirror from the remote catalog, keeping
// only the custom subset. A fetch failure keeps the current mirror.
func (s *Session) RefreshMirror(ctx context.Context) error {
	records, err := s.catalog.FetchProducts(ctx)
	if err != nil {
		s.logger.Warn("mirror refresh failed; keeping current mirror", zap.Error(err))
		return err
	}

	mirror := make([]domain.Product, 0, len(records))
	for _, record := range records {
		source := strings.TrimSpace(record.Source)
		if source != "" && source != string(domain.SourceCustom) {
			continue
		}
		id := record.EffectiveID()
		if id == "" {
			continue
		}
		mirror = append(mirror, productOf(record))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror = mirror
	if s.editingID != "" && !s.inMirrorLocked(s.editingID) {
		// The edit target vanished remotely; fall back to creating.
		s.resetLocked()
	}
	return s.persistLocked()
}

// State reports the current mode and, when editing, the targeted product id.
func (s *Session) State() (State, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.editingID
}

// Mirror returns a copy of the local custom-product mirror.
func (s *Session) Mirror() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, len(s.mirror))
	copy(out, s.mirror)
	return out
}

// EnterEdit targets the session at an existing mirror entry and returns the
// form projection of that entry. An unknown id leaves the session untouched.
func (s *Session) EnterEdit(productID string) (Form, bool) {
	productID = strings.TrimSpace(productID)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.mirror {
		if p.ID.String() == productID {
			s.state = StateEditing
			s.editingID = productID
			s.generation++
			inStock := p.InStock
			return Form{
				Name:        p.Name,
				Description: p.Description,
				Price:       strconv.FormatFloat(p.Price, 'f', -1, 64),
				Image:       p.Image,
				Category:    string(p.Category),
				InStock:     &inStock,
			}, true
		}
	}
	return Form{}, false
}

// Cancel abandons the current edit unconditionally.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// Submit validates the form and either creates a new product or updates the
// session's edit target. Validation failures never reach the remote service
// and leave the session state unchanged; so does any remote failure.
func (s *Session) Submit(ctx context.Context, form Form) error {
	price, err := s.validate(form)
	if err != nil {
		s.notifyFailure(err)
		return err
	}

	s.mu.Lock()
	editingID := s.editingID
	generation := s.generation
	s.mu.Unlock()

	if editingID != "" {
		return s.submitUpdate(ctx, editingID, generation, form, price)
	}
	return s.submitCreate(ctx, generation, form, price)
}

func (s *Session) submitCreate(ctx context.Context, generation uint64, form Form, price float64) error {
	req := client.CreateRequest{
		Name:        strings.TrimSpace(form.Name),
		Description: strings.TrimSpace(form.Description),
		Price:       price,
		Image:       strings.TrimSpace(form.Image),
		Category:    strings.TrimSpace(form.Category),
		InStock:     form.InStock,
		Source:      string(domain.SourceCustom),
	}
	record, err := s.catalog.CreateProduct(ctx, req)
	if err != nil {
		s.notifyFailure(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	// The product now exists remotely regardless of session churn, so it
	// always joins the mirror; only the session transition is guarded.
	s.mirror = append(s.mirror, productOf(record))
	if err := s.persistLocked(); err != nil {
		return err
	}
	if s.generation == generation {
		s.resetLocked()
	}
	s.notifier.Publish("Product added successfully!", notify.SeverityInfo)
	return nil
}

func (s *Session) submitUpdate(ctx context.Context, id string, generation uint64, form Form, price float64) error {
	name := strings.TrimSpace(form.Name)
	description := strings.TrimSpace(form.Description)
	image := strings.TrimSpace(form.Image)
	req := client.UpdateRequest{
		Name:        &name,
		Description: &description,
		Price:       &price,
		Image:       &image,
		InStock:     form.InStock,
	}
	if category := strings.TrimSpace(form.Category); category != "" {
		req.Category = &category
	}

	record, err := s.catalog.UpdateProduct(ctx, id, req)
	if err != nil {
		s.notifyFailure(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation {
		// A superseding action (cancel, another edit, a delete) moved the
		// session on while the update was in flight. The server state changed,
		// so the mirror entry is still replaced, but the session is left to
		// whatever superseded this submission.
		s.replaceMirrorLocked(id, productOf(record))
		return s.persistLocked()
	}
	s.replaceMirrorLocked(id, productOf(record))
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.resetLocked()
	s.notifier.Publish("Product updated successfully!", notify.SeverityInfo)
	return nil
}

// Remove deletes a product remotely, then drops it from the mirror. When the
// session was editing that product, it falls back to creating in the same
// step, so the session never references a deleted entity.
func (s *Session) Remove(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if _, err := s.catalog.DeleteProduct(ctx, productID); err != nil {
		s.notifyFailure(err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == productID {
		s.resetLocked()
	}
	kept := s.mirror[:0]
	for _, p := range s.mirror {
		if p.ID.String() == productID {
			continue
		}
		kept = append(kept, p)
	}
	s.mirror = kept
	if err := s.persistLocked(); err != nil {
		return err
	}
	s.notifier.Publish("Product deleted successfully!", notify.SeverityInfo)
	return nil
}

// ClearAll bulk-deletes every custom product. Confirmation happens at the
// calling surface; by the time this runs the user has already agreed.
func (s *Session) ClearAll(ctx context.Context) (int, error) {
	count, err := s.catalog.ClearCustomProducts(ctx)
	if err != nil {
		s.notifyFailure(err)
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.mirror = nil
	s.resetLocked()
	if err := s.persistLocked(); err != nil {
		return count, err
	}
	s.notifier.Publish("All custom products cleared!", notify.SeverityInfo)
	return count, nil
}

// validate enforces the required fields and parses the price. It returns a
// client.ValidationError so callers see one failure taxonomy regardless of
// whether the rejection happened locally or at the service.
func (s *Session) validate(form Form) (float64, error) {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", form.Name},
		{"description", form.Description},
		{"price", form.Price},
		{"image", form.Image},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return 0, &client.ValidationError{Message: "missing required fields: " + strings.Join(missing, ", ")}
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(form.Price), 64)
	if err != nil {
		return 0, &client.ValidationError{Message: "price must be a number"}
	}
	if price < 0 {
		return 0, &client.ValidationError{Message: "price must not be negative"}
	}
	return price, nil
}

func (s *Session) notifyFailure(err error) {
	s.logger.Warn("admin operation failed", zap.Error(err))
	switch {
	case client.IsStorageUnavailable(err):
		s.notifier.Publish("Product storage is unavailable. Please try again later.", notify.SeverityError)
	case client.IsValidation(err):
		s.notifier.Publish("Please fill in all required fields correctly.", notify.SeverityWarning)
	case client.IsNotFound(err):
		s.notifier.Publish("That product no longer exists.", notify.SeverityWarning)
	default:
		s.notifier.Publish("Something went wrong. Please try again.", notify.SeverityError)
	}
}

func (s *Session) resetLocked() {
	s.state = StateCreating
	s.editingID = ""
	s.generation++
}

func (s *Session) inMirrorLocked(id string) bool {
	for _, p := range s.mirror {
		if p.ID.String() == id {
			return true
		}
	}
	return false
}

func (s *Session) replaceMirrorLocked(id string, product domain.Product) {
	for i := range s.mirror {
		if s.mirror[i].ID.String() == id {
			s.mirror[i] = product
			return
		}
	}
	s.mirror = append(s.mirror, product)
}

func (s *Session) persistLocked() error {
	return s.store.Save(localstore.KeyCustomProducts, s.mirror)
}

func productOf(record client.Record) domain.Product {
	category := domain.Category(strings.TrimSpace(record.Category))
	if category == "" {
		category = domain.CategoryCustom
	}
	return domain.Product{
		ID:          domain.RemoteID(record.EffectiveID()),
		Name:        record.Name,
		Description: record.Description,
		Price:       record.Price,
		Image:       record.Image,
		Category:    category,
		InStock:     record.InStock,
		Source:      domain.SourceCustom,
	}
}
