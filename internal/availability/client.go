// Package availability provides clients for the external availability source
// abstracted behind an interface for testability.
package availability

import (
	"context"
	"strconv"
)

// StoreStock is one per-store stock record returned by the availability
// source. Stock is kept loosely typed because the source occasionally emits
// non-numeric values; use StockCount to read it.
type StoreStock struct {
	StoreID     string `json:"buCode"`
	StoreName   string `json:"name,omitempty"`
	Stock       any    `json:"stock"`
	Probability string `json:"probability,omitempty"`
}

// StockCount returns the record's stock as an integer. The second return is
// false when the value is missing or not interpretable as a number; such
// records contribute zero to aggregates.
func (r *StoreStock) StockCount() (int, bool) {
	switch v := r.Stock.(type) {
	case float64: // encoding/json decodes numbers into float64
		return int(v), true
	case int:
		return v, true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// StoreInfo identifies one store in a region.
type StoreInfo struct {
	StoreID string `json:"buCode"`
	Name    string `json:"name"`
	Country string `json:"countryCode,omitempty"`
}

// Source defines the interface for querying the external availability source.
type Source interface {
	// Fetch returns per-store stock records for a product in a region.
	// A nil storeIDs filter means all stores in the region.
	Fetch(ctx context.Context, region, productID string, storeIDs []string) ([]StoreStock, error)

	// Stores returns the store directory for a region.
	Stores(ctx context.Context, region string) ([]StoreInfo, error)
}
