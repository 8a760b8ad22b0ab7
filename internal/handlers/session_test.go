package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	domain "github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/storefront/admin"
	"github.com/warli-jewels/storefront/internal/storefront/cart"
	"github.com/warli-jewels/storefront/internal/storefront/catalog"
	"github.com/warli-jewels/storefront/internal/storefront/client"
	"github.com/warli-jewels/storefront/internal/storefront/localstore"
	"github.com/warli-jewels/storefront/internal/storefront/notify"
)

// fakeCatalogService is an in-memory stand-in for the remote product service,
// shared by the catalog reconciler and the admin session in these tests.
type fakeCatalogService struct {
	records []client.Record
	nextID  int
	err     error
}

func (f *fakeCatalogService) FetchProducts(context.Context) ([]client.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]client.Record, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeCatalogService) CreateProduct(_ context.Context, req client.CreateRequest) (client.Record, error) {
	if f.err != nil {
		return client.Record{}, f.err
	}
	f.nextID++
	record := client.Record{
		ID: fmt.Sprintf("srv-%d", f.nextID), Name: req.Name, Description: req.Description,
		Price: req.Price, Image: req.Image, Category: req.Category, Source: "custom", InStock: true,
	}
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeCatalogService) UpdateProduct(_ context.Context, id string, req client.UpdateRequest) (client.Record, error) {
	if f.err != nil {
		return client.Record{}, f.err
	}
	for i := range f.records {
		if f.records[i].ID == id {
			if req.Name != nil {
				f.records[i].Name = *req.Name
			}
			if req.Price != nil {
				f.records[i].Price = *req.Price
			}
			return f.records[i], nil
		}
	}
	return client.Record{}, &client.NotFoundError{ID: id}
}

func (f *fakeCatalogService) DeleteProduct(_ context.Context, id string) (client.Record, error) {
	if f.err != nil {
		return client.Record{}, f.err
	}
	for i, record := range f.records {
		if record.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return record, nil
		}
	}
	return client.Record{}, &client.NotFoundError{ID: id}
}

func (f *fakeCatalogService) ClearCustomProducts(context.Context) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	count := len(f.records)
	f.records = nil
	return count, nil
}

type sessionFixture struct {
	router  http.Handler
	service *fakeCatalogService
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	service := &fakeCatalogService{}
	store := localstore.Open(filepath.Join(t.TempDir(), "state.json"), nil)
	notifier := notify.New(nil)

	handlers := NewSessionHandlers(
		catalog.New(service, nil),
		cart.NewManager(store, nil),
		admin.NewSession(service, store, notifier, nil),
		notifier,
	)
	return &sessionFixture{
		router:  NewRouter(WithSessionRoutes(handlers.Routes)),
		service: service,
	}
}

func (f *sessionFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	} else {
		reader = &bytes.Buffer{}
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestSessionCatalogStartsWithBuiltins(t *testing.T) {
	f := newSessionFixture(t)
	rec := f.do(t, http.MethodGet, "/api/session/catalog", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Products []map[string]any `json:"products"`
	}
	decodeBody(t, rec, &payload)
	if len(payload.Products) != len(domain.Builtins()) {
		t.Fatalf("products = %d, want %d", len(payload.Products), len(domain.Builtins()))
	}
}

func TestVisibilityMergesRemoteCustoms(t *testing.T) {
	f := newSessionFixture(t)
	f.service.records = []client.Record{{ID: "c1", Name: "Remote Choker", Source: "custom"}}

	rec := f.do(t, http.MethodPost, "/api/session/visibility", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		Refreshed bool `json:"refreshed"`
		Products  int  `json:"products"`
	}
	decodeBody(t, rec, &payload)
	if !payload.Refreshed {
		t.Fatal("refreshed = false")
	}
	if payload.Products != len(domain.Builtins())+1 {
		t.Fatalf("products = %d, want %d", payload.Products, len(domain.Builtins())+1)
	}
}

func TestCartFlowOverHTTP(t *testing.T) {
	f := newSessionFixture(t)

	rec := f.do(t, http.MethodPost, "/api/session/cart/items", map[string]any{
		"productId": "1", "size": "M", "quantity": 2,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodPost, "/api/session/cart/items", map[string]any{
		"productId": "1", "size": "M", "quantity": 1,
	})
	var payload struct {
		Lines []struct {
			ID       string `json:"id"`
			Quantity int    `json:"quantity"`
		} `json:"lines"`
		Totals struct {
			Items int     `json:"items"`
			Price float64 `json:"price"`
		} `json:"totals"`
	}
	decodeBody(t, rec, &payload)
	if len(payload.Lines) != 1 {
		t.Fatalf("lines = %d, want 1 merged line", len(payload.Lines))
	}
	if payload.Totals.Items != 3 {
		t.Fatalf("items = %d, want 3", payload.Totals.Items)
	}

	rec = f.do(t, http.MethodDelete, "/api/session/cart/items/"+payload.Lines[0].ID, nil)
	decodeBody(t, rec, &payload)
	if len(payload.Lines) != 0 {
		t.Fatalf("lines = %d after removal", len(payload.Lines))
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	f := newSessionFixture(t)
	rec := f.do(t, http.MethodPost, "/api/session/cart/items", map[string]any{"productId": "ghost"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestWishlistToggleOverHTTP(t *testing.T) {
	f := newSessionFixture(t)

	var payload struct {
		Wishlisted bool `json:"wishlisted"`
		Count      int  `json:"count"`
	}
	rec := f.do(t, http.MethodPost, "/api/session/wishlist/toggle", map[string]any{"productId": "5"})
	decodeBody(t, rec, &payload)
	if !payload.Wishlisted || payload.Count != 1 {
		t.Fatalf("after first toggle: %+v", payload)
	}

	rec = f.do(t, http.MethodPost, "/api/session/wishlist/toggle", map[string]any{"productId": "5"})
	decodeBody(t, rec, &payload)
	if payload.Wishlisted || payload.Count != 0 {
		t.Fatalf("after second toggle: %+v", payload)
	}
}

func TestAdminLifecycleOverHTTP(t *testing.T) {
	f := newSessionFixture(t)

	rec := f.do(t, http.MethodPost, "/api/session/admin/submit", map[string]any{
		"name": "Tribal Pendant", "description": "Hand painted", "price": "1499.50", "image": "asset/p.jpg",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit status = %d: %s", rec.Code, rec.Body.String())
	}

	var state struct {
		State            string           `json:"state"`
		EditingProductID string           `json:"editingProductId"`
		Mirror           []map[string]any `json:"mirror"`
	}
	rec = f.do(t, http.MethodGet, "/api/session/admin", nil)
	decodeBody(t, rec, &state)
	if state.State != "creating" || len(state.Mirror) != 1 {
		t.Fatalf("admin state = %+v", state)
	}
	productID, _ := state.Mirror[0]["id"].(string)

	rec = f.do(t, http.MethodPost, "/api/session/admin/edit", map[string]any{"productId": productID})
	if rec.Code != http.StatusOK {
		t.Fatalf("edit status = %d", rec.Code)
	}

	rec = f.do(t, http.MethodGet, "/api/session/admin", nil)
	decodeBody(t, rec, &state)
	if state.State != "editing" || state.EditingProductID != productID {
		t.Fatalf("admin state after edit = %+v", state)
	}

	rec = f.do(t, http.MethodDelete, "/api/session/admin/products/"+productID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(t, http.MethodGet, "/api/session/admin", nil)
	decodeBody(t, rec, &state)
	if state.State != "creating" || len(state.Mirror) != 0 {
		t.Fatalf("admin state after remove = %+v", state)
	}
}

func TestAdminSubmitValidationOverHTTP(t *testing.T) {
	f := newSessionFixture(t)
	rec := f.do(t, http.MethodPost, "/api/session/admin/submit", map[string]any{
		"name": "", "description": "d", "price": "10", "image": "asset/p.jpg",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAdminClearAllRequiresConfirmation(t *testing.T) {
	f := newSessionFixture(t)

	rec := f.do(t, http.MethodDelete, "/api/session/admin/products", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed status = %d, want 400", rec.Code)
	}

	rec = f.do(t, http.MethodDelete, "/api/session/admin/products?confirm=true", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmed status = %d", rec.Code)
	}
}

func TestNotificationSurfacesAfterMutation(t *testing.T) {
	f := newSessionFixture(t)
	f.do(t, http.MethodPost, "/api/session/cart/items", map[string]any{"productId": "1", "quantity": 1})

	var payload struct {
		Visible bool   `json:"visible"`
		Text    string `json:"text"`
	}
	rec := f.do(t, http.MethodGet, "/api/session/notification", nil)
	decodeBody(t, rec, &payload)
	if !payload.Visible || payload.Text != "Added to cart!" {
		t.Fatalf("notification = %+v", payload)
	}
}
