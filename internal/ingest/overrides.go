package ingest

import "github.com/skypie-oracle/precomputer/internal/catalog"

// ApplyPriceOverrides replaces the storage-group price component of any
// parsed row whose store key matches overrides, the --config HCL file's
// price_overrides map (config.FileConfig.PriceOverrides). Overrides target
// the storage price specifically since that is the component operators
// most commonly need to correct (a negotiated discount, a promotional
// tier) without touching the request/transfer prices derived from the same
// CSV row set.
func ApplyPriceOverrides(rows []catalog.StoreRaw, overrides map[string]float64) []catalog.StoreRaw {
	if len(overrides) == 0 {
		return rows
	}
	out := make([]catalog.StoreRaw, len(rows))
	for i, r := range rows {
		if r.Group == catalog.GroupStorage {
			if price, ok := overrides[r.StoreKey()]; ok {
				r.PricePerUnit = price
			}
		}
		out[i] = r
	}
	return out
}
