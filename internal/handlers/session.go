package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/warli-jewels/storefront/internal/platform/httpx"
	"github.com/warli-jewels/storefront/internal/storefront/admin"
	"github.com/warli-jewels/storefront/internal/storefront/cart"
	"github.com/warli-jewels/storefront/internal/storefront/catalog"
	"github.com/warli-jewels/storefront/internal/storefront/client"
	"github.com/warli-jewels/storefront/internal/storefront/notify"
)

const maxSessionRequestBody = 64 * 1024

// SessionHandlers exposes the storefront session state over HTTP so a
// rendering layer can poll the catalog, cart, wishlist and admin session, and
// drive mutations through named operations.
type SessionHandlers struct {
	catalog  *catalog.Catalog
	cart     *cart.Manager
	admin    *admin.Session
	notifier *notify.Notifier
}

// NewSessionHandlers constructs the session surface.
func NewSessionHandlers(cat *catalog.Catalog, cartManager *cart.Manager, adminSession *admin.Session, notifier *notify.Notifier) *SessionHandlers {
	return &SessionHandlers{
		catalog:  cat,
		cart:     cartManager,
		admin:    adminSession,
		notifier: notifier,
	}
}

// Routes registers the session endpoints.
func (h *SessionHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Get("/catalog", h.getCatalog)
	r.Post("/visibility", h.visibility)
	r.Get("/notification", h.getNotification)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addToCart)
	r.Delete("/cart/items/{lineID}", h.removeFromCart)

	r.Get("/wishlist", h.getWishlist)
	r.Post("/wishlist/toggle", h.toggleWishlist)

	r.Get("/admin", h.getAdmin)
	r.Post("/admin/edit", h.adminEdit)
	r.Post("/admin/submit", h.adminSubmit)
	r.Post("/admin/cancel", h.adminCancel)
	r.Delete("/admin/products/{productID}", h.adminRemove)
	r.Delete("/admin/products", h.adminClearAll)
}

func (h *SessionHandlers) getCatalog(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.Products()
	payload := make([]productPayload, 0, len(products))
	for _, product := range products {
		payload = append(payload, newProductPayload(product))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"products": payload,
		"custom":   h.catalog.CustomCount(),
	})
}

// visibility is the session-became-visible signal: it force-refreshes the
// catalog and the admin mirror so a tab that was backgrounded catches up with
// edits made elsewhere.
func (h *SessionHandlers) visibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	refreshed := true
	if err := h.catalog.Refresh(ctx, true); err != nil {
		refreshed = false
	}
	if err := h.admin.RefreshMirror(ctx); err != nil {
		refreshed = false
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"refreshed": refreshed,
		"products":  len(h.catalog.Products()),
	})
}

func (h *SessionHandlers) getNotification(w http.ResponseWriter, r *http.Request) {
	message, visible := h.notifier.Current()
	if !visible {
		writeJSON(w, http.StatusOK, map[string]any{"visible": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"visible":  true,
		"text":     message.Text,
		"severity": string(message.Severity),
	})
}

type cartLinePayload struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

func (h *SessionHandlers) writeCart(w http.ResponseWriter) {
	lines := h.cart.Lines()
	payload := make([]cartLinePayload, 0, len(lines))
	for _, line := range lines {
		payload = append(payload, cartLinePayload(line))
	}
	totals := h.cart.Totals()
	writeJSON(w, http.StatusOK, map[string]any{
		"lines": payload,
		"totals": map[string]any{
			"items": totals.Items,
			"price": totals.Price,
		},
	})
}

func (h *SessionHandlers) getCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(w)
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity"`
}

func (h *SessionHandlers) addToCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req addToCartRequest
	if err := decodeSessionRequest(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, found := h.catalog.Product(strings.TrimSpace(req.ProductID))
	if !found {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "Product not found", http.StatusNotFound))
		return
	}
	if _, err := h.cart.AddToCart(product, req.Size, req.Quantity); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	h.notifier.Publish("Added to cart!", notify.SeverityInfo)
	h.writeCart(w)
}

func (h *SessionHandlers) removeFromCart(w http.ResponseWriter, r *http.Request) {
	if _, err := h.cart.RemoveFromCart(chi.URLParam(r, "lineID")); err != nil {
		httpx.WriteError(r.Context(), w, httpx.NewError("internal_error", "failed to update cart", http.StatusInternalServerError))
		return
	}
	h.writeCart(w)
}

func (h *SessionHandlers) getWishlist(w http.ResponseWriter, r *http.Request) {
	entries := h.cart.Wishlist()
	payload := make([]map[string]any, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, map[string]any{
			"productId": entry.ProductID,
			"product":   newProductPayload(entry.Product),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": payload,
		"count":   h.cart.WishlistCount(),
	})
}

type toggleWishlistRequest struct {
	ProductID string `json:"productId"`
}

func (h *SessionHandlers) toggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req toggleWishlistRequest
	if err := decodeSessionRequest(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	product, found := h.catalog.Product(strings.TrimSpace(req.ProductID))
	if !found {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "Product not found", http.StatusNotFound))
		return
	}
	wishlisted, err := h.cart.ToggleWishlist(product)
	if err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("internal_error", "failed to update wishlist", http.StatusInternalServerError))
		return
	}
	if wishlisted {
		h.notifier.Publish("Added to wishlist!", notify.SeverityInfo)
	} else {
		h.notifier.Publish("Removed from wishlist.", notify.SeverityInfo)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"wishlisted": wishlisted,
		"count":      h.cart.WishlistCount(),
	})
}

func (h *SessionHandlers) getAdmin(w http.ResponseWriter, r *http.Request) {
	state, editingID := h.admin.State()
	mirror := h.admin.Mirror()
	payload := make([]productPayload, 0, len(mirror))
	for _, product := range mirror {
		payload = append(payload, newProductPayload(product))
	}
	response := map[string]any{
		"state":  string(state),
		"mirror": payload,
	}
	if editingID != "" {
		response["editingProductId"] = editingID
	}
	writeJSON(w, http.StatusOK, response)
}

type adminEditRequest struct {
	ProductID string `json:"productId"`
}

func (h *SessionHandlers) adminEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req adminEditRequest
	if err := decodeSessionRequest(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	form, ok := h.admin.EnterEdit(req.ProductID)
	if !ok {
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "Product not found", http.StatusNotFound))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"state": string(admin.StateEditing),
		"form": map[string]any{
			"name":        form.Name,
			"description": form.Description,
			"price":       form.Price,
			"image":       form.Image,
			"category":    form.Category,
			"inStock":     form.InStock,
		},
	})
}

type adminSubmitRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	InStock     *bool  `json:"inStock"`
}

func (h *SessionHandlers) adminSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req adminSubmitRequest
	if err := decodeSessionRequest(r, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	err := h.admin.Submit(ctx, admin.Form{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		InStock:     req.InStock,
	})
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}
	state, editingID := h.admin.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"state":   string(state),
		"editing": editingID,
		"mirror":  len(h.admin.Mirror()),
	})
}

func (h *SessionHandlers) adminCancel(w http.ResponseWriter, r *http.Request) {
	h.admin.Cancel()
	writeJSON(w, http.StatusOK, map[string]any{"state": string(admin.StateCreating)})
}

func (h *SessionHandlers) adminRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.admin.Remove(ctx, chi.URLParam(r, "productID")); err != nil {
		writeSessionError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Product deleted successfully",
		"mirror":  len(h.admin.Mirror()),
	})
}

// adminClearAll requires an explicit confirm flag; the destructive bulk
// delete never runs off a bare request.
func (h *SessionHandlers) adminClearAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if r.URL.Query().Get("confirm") != "true" {
		httpx.WriteError(ctx, w, httpx.NewError("confirmation_required", "pass confirm=true to clear all custom products", http.StatusBadRequest))
		return
	}
	count, err := h.admin.ClearAll(ctx)
	if err != nil {
		writeSessionError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": count})
}

func decodeSessionRequest(r *http.Request, out any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxSessionRequestBody))
	if err := decoder.Decode(out); err != nil {
		return errors.New("request body must be valid JSON")
	}
	return nil
}

// writeSessionError maps the catalog client failure taxonomy onto the wire.
func writeSessionError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case client.IsValidation(err):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", err.Error(), http.StatusBadRequest))
	case client.IsNotFound(err):
		httpx.WriteError(ctx, w, httpx.NewError("not_found", "Product not found", http.StatusNotFound))
	case client.IsStorageUnavailable(err):
		httpx.WriteError(ctx, w, httpx.NewError("storage_unavailable", StorageUnavailableMessage, http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError("upstream_error", "product service request failed", http.StatusBadGateway))
	}
}
