// Package catalog maintains the merged storefront catalog: the compiled-in
// products plus the custom products fetched from the remote product service.
package catalog

import (
	"strings"

	"go.uber.org/zap"

	"github.com/warli-jewels/storefront/internal/domain"
	"github.com/warli-jewels/storefront/internal/storefront/client"
)

// Outcome is the result of a reconciliation: the next merged catalog and the
// set of custom identifiers it contains, which feeds the next call.
type Outcome struct {
	Products  []domain.Product
	CustomIDs map[string]struct{}
}

// Reconcile merges freshly fetched remote records into the current catalog.
//
// Only records tagged source "custom", or carrying no source at all, are
// accepted; anything else is outside the editable subset and dropped. Accepted
// records are normalized (string server id, category defaulted to "custom")
// and discarded if their id collides with a compiled-in one.
//
// With forceRefresh, every identifier in priorCustomIDs is first removed from
// current, so stale remote entries do not accumulate across repeated
// reconciliations. Without it, records whose id is already present are
// skipped, making the merge idempotent.
func Reconcile(current []domain.Product, fetched []client.Record, priorCustomIDs map[string]struct{}, forceRefresh bool, logger *zap.Logger) Outcome {
	if logger == nil {
		logger = zap.NewNop()
	}

	base := current
	customIDs := make(map[string]struct{}, len(priorCustomIDs))
	if forceRefresh {
		base = make([]domain.Product, 0, len(current))
		for _, p := range current {
			if _, stale := priorCustomIDs[p.ID.String()]; stale {
				continue
			}
			base = append(base, p)
		}
	} else {
		for id := range priorCustomIDs {
			customIDs[id] = struct{}{}
		}
	}

	merged := make([]domain.Product, len(base), len(base)+len(fetched))
	copy(merged, base)

	present := make(map[string]struct{}, len(merged))
	for _, p := range merged {
		present[p.ID.String()] = struct{}{}
	}
	builtinIDs := domain.BuiltinIDSet()

	for _, record := range fetched {
		product, ok := normalize(record, builtinIDs, logger)
		if !ok {
			continue
		}
		id := product.ID.String()
		if _, dup := present[id]; dup {
			continue
		}
		merged = append(merged, product)
		present[id] = struct{}{}
		customIDs[id] = struct{}{}
	}

	return Outcome{Products: merged, CustomIDs: customIDs}
}

// normalize converts a raw remote record into a catalog product, reporting
// false for records that do not belong in the merged catalog.
func normalize(record client.Record, builtinIDs map[string]struct{}, logger *zap.Logger) (domain.Product, bool) {
	source := strings.TrimSpace(record.Source)
	if source != "" && source != string(domain.SourceCustom) {
		return domain.Product{}, false
	}

	id := record.EffectiveID()
	if id == "" {
		logger.Warn("remote product has no identifier; dropping", zap.String("name", record.Name))
		return domain.Product{}, false
	}
	if _, collides := builtinIDs[id]; collides {
		logger.Warn("remote product id collides with a built-in; dropping",
			zap.String("id", id),
			zap.String("name", record.Name),
		)
		return domain.Product{}, false
	}

	category := domain.Category(strings.TrimSpace(record.Category))
	if category == "" {
		category = domain.CategoryCustom
	}

	return domain.Product{
		ID:          domain.RemoteID(id),
		Name:        record.Name,
		Description: record.Description,
		Price:       record.Price,
		Image:       record.Image,
		Category:    category,
		InStock:     record.InStock,
		Source:      domain.SourceCustom,
	}, true
}
