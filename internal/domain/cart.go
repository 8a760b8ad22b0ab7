package domain

// CartLine is one row of the shopping cart. It stores a snapshot of the
// product attributes taken when the line was added, so later catalog edits or
// deletions cannot change a cart the shopper already assembled.
type CartLine struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Size     string  `json:"size"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

// CartTotals are the derived cart aggregates recomputed after every mutation.
type CartTotals struct {
	Items int     `json:"items"`
	Price float64 `json:"price"`
}

// TotalsOf sums quantities and price x quantity over the given lines.
func TotalsOf(lines []CartLine) CartTotals {
	var totals CartTotals
	for _, line := range lines {
		totals.Items += line.Quantity
		totals.Price += line.Price * float64(line.Quantity)
	}
	return totals
}

// WishlistEntry is a full product snapshot keyed by product identifier.
// Entries carry no quantity; the wishlist is a toggled set.
type WishlistEntry struct {
	ProductID string  `json:"productId"`
	Product   Product `json:"product"`
}
