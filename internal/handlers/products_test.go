package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domain "github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/services"
)

type storeError struct {
	notFound    bool
	unavailable bool
}

func (e *storeError) Error() string       { return "store error" }
func (e *storeError) IsNotFound() bool    { return e.notFound }
func (e *storeError) IsUnavailable() bool { return e.unavailable }

type stubProductService struct {
	products []domain.Product
	err      error
	count    int
}

func (s *stubProductService) List(context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) Get(context.Context, string) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	return s.products[0], nil
}

func (s *stubProductService) Create(_ context.Context, input services.CreateProductInput) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	price := 0.0
	if input.Price != nil {
		price = *input.Price
	}
	return domain.Product{ID: domain.RemoteID("srv-1"), Name: input.Name, Price: price, Category: domain.CategoryCustom, Source: domain.SourceCustom, InStock: true}, nil
}

func (s *stubProductService) Update(context.Context, string, services.UpdateProductInput) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	return s.products[0], nil
}

func (s *stubProductService) Delete(context.Context, string) (domain.Product, error) {
	if s.err != nil {
		return domain.Product{}, s.err
	}
	return s.products[0], nil
}

func (s *stubProductService) ClearCustom(context.Context) (int, error) {
	return s.count, s.err
}

func newProductServer(svc services.ProductService) http.Handler {
	return NewRouter(WithProductRoutes(NewProductHandlers(svc).Routes))
}

func TestListProducts(t *testing.T) {
	svc := &stubProductService{products: []domain.Product{
		{ID: domain.RemoteID("p1"), Name: "Choker", Price: 1200, Category: domain.CategoryNecklaces, Source: domain.SourceCustom, InStock: true},
	}}
	rec := httptest.NewRecorder()
	newProductServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var payload []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("len = %d, want 1", len(payload))
	}
	if payload[0]["id"] != "p1" {
		t.Fatalf("id = %v, want p1", payload[0]["id"])
	}
}

func TestCreateProduct_Handler(t *testing.T) {
	svc := &stubProductService{}
	body := bytes.NewBufferString(`{"name":"Ring","description":"d","price":99.5,"image":"asset/r.jpg"}`)
	rec := httptest.NewRecorder()
	newProductServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestCreateProductRejectsBadJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	body := bytes.NewBufferString(`{"name":`)
	newProductServer(&stubProductService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/products", body))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestProductErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "invalid input maps to 400",
			err:        fmt.Errorf("%w: missing required fields: name", services.ErrProductInvalidInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "not found maps to 404",
			err:        &storeError{notFound: true},
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "unavailable store maps to 503",
			err:        &storeError{unavailable: true},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "storage_unavailable",
		},
		{
			name:       "unknown failure maps to 500",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			svc := &stubProductService{err: tc.err}
			newProductServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products/p1", nil))

			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			var envelope map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
				t.Fatalf("decode error envelope: %v", err)
			}
			if envelope["error"] != tc.wantCode {
				t.Fatalf("error = %v, want %s", envelope["error"], tc.wantCode)
			}
		})
	}
}

func TestStorageUnavailableMessageOnTheWire(t *testing.T) {
	rec := httptest.NewRecorder()
	svc := &stubProductService{err: &storeError{unavailable: true}}
	newProductServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products", nil))

	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope["message"] != StorageUnavailableMessage {
		t.Fatalf("message = %v, want %q", envelope["message"], StorageUnavailableMessage)
	}
}

func TestDeleteProductReturnsRecord(t *testing.T) {
	svc := &stubProductService{products: []domain.Product{
		{ID: domain.RemoteID("p1"), Name: "Choker", Source: domain.SourceCustom},
	}}
	rec := httptest.NewRecorder()
	newProductServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products/p1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var payload struct {
		Message string         `json:"message"`
		Product map[string]any `json:"product"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Message != "Product deleted successfully" {
		t.Fatalf("message = %q", payload.Message)
	}
	if payload.Product["id"] != "p1" {
		t.Fatalf("product id = %v, want p1", payload.Product["id"])
	}
}

func TestClearCustomReturnsCount(t *testing.T) {
	svc := &stubProductService{count: 4}
	rec := httptest.NewRecorder()
	newProductServer(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/products", nil))

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["count"] != float64(4) {
		t.Fatalf("count = %v, want 4", payload["count"])
	}
}

func TestUnknownRouteReturnsJSONError(t *testing.T) {
	rec := httptest.NewRecorder()
	newProductServer(&stubProductService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
	var envelope map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope["error"] != "route_not_found" {
		t.Fatalf("error = %v", envelope["error"])
	}
}
