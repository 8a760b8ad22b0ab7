package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	domain "github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/platform/httpx"
	"github.com/warli-jewels/storefront/internal/repositories"
	"github.com/warli-jewels/storefront/internal/services"
)

const maxProductRequestBody = 256 * 1024

// StorageUnavailableMessage is the recognizable message returned when the
// product store is unreachable. The storefront client matches on it to show a
// dedicated notice instead of a generic failure.
const StorageUnavailableMessage = "storage unavailable: please check the product store connection"

// ProductHandlers exposes the REST product endpoints consumed by the
// storefront and the admin panel.
type ProductHandlers struct {
	products services.ProductService
}

// NewProductHandlers constructs product handlers.
func NewProductHandlers(products services.ProductService) *ProductHandlers {
	return &ProductHandlers{products: products}
}

// Routes registers the product endpoints.
func (h *ProductHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/", h.clearCustom)
	r.Get("/{productID}", h.get)
	r.Put("/{productID}", h.update)
	r.Delete("/{productID}", h.remove)
}

type productPayload struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	Image       string     `json:"image"`
	Category    string     `json:"category"`
	InStock     bool       `json:"inStock"`
	Source      string     `json:"source"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

func newProductPayload(product domain.Product) productPayload {
	payload := productPayload{
		ID:          product.ID.String(),
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Image:       product.Image,
		Category:    string(product.Category),
		InStock:     product.InStock,
		Source:      string(product.Source),
	}
	if !product.CreatedAt.IsZero() {
		created := product.CreatedAt
		payload.CreatedAt = &created
	}
	if !product.UpdatedAt.IsZero() {
		updated := product.UpdatedAt
		payload.UpdatedAt = &updated
	}
	return payload
}

type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Category    *string  `json:"category"`
	InStock     *bool    `json:"inStock"`
	Source      *string  `json:"source"`
}

func (h *ProductHandlers) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "product service unavailable", http.StatusServiceUnavailable))
		return
	}
	products, err := h.products.List(ctx)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	payload := make([]productPayload, 0, len(products))
	for _, product := range products {
		payload = append(payload, newProductPayload(product))
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *ProductHandlers) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "product service unavailable", http.StatusServiceUnavailable))
		return
	}
	product, err := h.products.Get(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductPayload(product))
}

func (h *ProductHandlers) create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "product service unavailable", http.StatusServiceUnavailable))
		return
	}
	req, err := decodeProductRequest(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	input := services.CreateProductInput{Price: req.Price, InStock: req.InStock}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Image != nil {
		input.Image = *req.Image
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.Source != nil {
		input.Source = *req.Source
	}
	product, err := h.products.Create(ctx, input)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProductPayload(product))
}

func (h *ProductHandlers) update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "product service unavailable", http.StatusServiceUnavailable))
		return
	}
	req, err := decodeProductRequest(r)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	product, err := h.products.Update(ctx, chi.URLParam(r, "productID"), services.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, newProductPayload(product))
}

func (h *ProductHandlers) remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "product service unavailable", http.StatusServiceUnavailable))
		return
	}
	product, err := h.products.Delete(ctx, chi.URLParam(r, "productID"))
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product deleted successfully",
		"product": newProductPayload(product),
	})
}

func (h *ProductHandlers) clearCustom(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.products == nil {
		httpx.WriteError(ctx, w, httpx.NewError("service_unavailable", "product service unavailable", http.StatusServiceUnavailable))
		return
	}
	count, err := h.products.ClearCustom(ctx)
	if err != nil {
		writeProductError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

func decodeProductRequest(r *http.Request) (productRequest, error) {
	var req productRequest
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxProductRequestBody))
	if err := decoder.Decode(&req); err != nil {
		return productRequest{}, errors.New("request body must be valid JSON")
	}
	return req, nil
}

func writeProductError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProductInvalidInput):
		message := strings.TrimPrefix(err.Error(), "product service: ")
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", message, http.StatusBadRequest))
	case repositories.IsNotFound(err):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "Product not found", http.StatusNotFound))
	case repositories.IsUnavailable(err):
		httpx.WriteError(ctx, w, httpx.NewError("storage_unavailable", StorageUnavailableMessage, http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "failed to process product request", http.StatusInternalServerError))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
