package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Source identifies where a product originated.
type Source string

const (
	// SourceDefault marks a compiled-in product. Default products are
	// immutable and never persisted remotely.
	SourceDefault Source = "default"
	// SourceCustom marks a product managed through the remote product service.
	SourceCustom Source = "custom"
)

// Category enumerates the storefront product categories.
type Category string

const (
	CategoryRings     Category = "rings"
	CategoryNecklaces Category = "necklaces"
	CategoryEarrings  Category = "earrings"
	CategoryBracelets Category = "bracelets"
	CategoryCustom    Category = "custom"
)

// Categories lists every valid product category.
func Categories() []Category {
	return []Category{CategoryRings, CategoryNecklaces, CategoryEarrings, CategoryBracelets, CategoryCustom}
}

// ValidCategory reports whether value is a known category.
func ValidCategory(value Category) bool {
	switch value {
	case CategoryRings, CategoryNecklaces, CategoryEarrings, CategoryBracelets, CategoryCustom:
		return true
	}
	return false
}

// ProductID is a tagged identifier distinguishing the numeric ids of
// compiled-in products from the string ids assigned by the remote product
// service. A built-in id and a remote id never compare equal, which keeps the
// two id spaces disjoint by construction.
type ProductID struct {
	builtin uint64
	remote  string
}

// BuiltinID constructs the identifier of a compiled-in product.
func BuiltinID(n uint64) ProductID {
	return ProductID{builtin: n}
}

// RemoteID constructs the identifier of a remotely managed product.
func RemoteID(id string) ProductID {
	return ProductID{remote: strings.TrimSpace(id)}
}

// ParseProductID interprets raw as a product identifier: an all-digit value
// addresses the built-in id space, anything else the remote one.
func ParseProductID(raw string) (ProductID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ProductID{}, fmt.Errorf("product id is required")
	}
	if n, err := strconv.ParseUint(trimmed, 10, 64); err == nil {
		return BuiltinID(n), nil
	}
	return RemoteID(trimmed), nil
}

// IsZero reports whether the identifier is unset.
func (id ProductID) IsZero() bool {
	return id.builtin == 0 && id.remote == ""
}

// IsBuiltin reports whether the identifier addresses the built-in id space.
func (id ProductID) IsBuiltin() bool {
	return id.builtin != 0
}

// IsRemote reports whether the identifier addresses the remote id space.
func (id ProductID) IsRemote() bool {
	return id.remote != ""
}

// Remote returns the remote identifier, empty for built-in ids.
func (id ProductID) Remote() string {
	return id.remote
}

// String renders the identifier the way the rendering layer addresses
// products: the decimal number for built-ins, the server id otherwise.
func (id ProductID) String() string {
	if id.IsBuiltin() {
		return strconv.FormatUint(id.builtin, 10)
	}
	return id.remote
}

// MarshalText encodes the identifier in its rendered form so products survive
// a round trip through the local store.
func (id ProductID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes an identifier from its rendered form.
func (id *ProductID) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*id = ProductID{}
		return nil
	}
	parsed, err := ParseProductID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Product is a single catalog entry. Built-in products come from Builtins;
// custom products are created, updated and deleted only through the remote
// product service.
type Product struct {
	ID          ProductID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	Category    Category  `json:"category"`
	InStock     bool      `json:"inStock"`
	Source      Source    `json:"source"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
