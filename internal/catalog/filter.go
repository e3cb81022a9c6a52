package catalog

import (
	"sort"
	"strings"
)

const (
	SortName       = "name"
	SortPriceLow   = "price-low"
	SortPriceHigh  = "price-high"
	SortBestSeller = "best-seller"
)

type ListOptions struct {
	SupplierID string
	Search     string
	SortBy     string
}

// Filter narrows and orders a product list the way the products page does. The
// input slice is left untouched.
func Filter(products []Product, opts ListOptions) []Product {
	out := make([]Product, 0, len(products))
	q := strings.ToLower(strings.TrimSpace(opts.Search))

	for _, p := range products {
		if opts.SupplierID != "" && string(p.SupplierID) != opts.SupplierID {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortName
	}

	switch sortBy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool { return out[i].EffectivePrice() < out[j].EffectivePrice() })
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool { return out[i].EffectivePrice() > out[j].EffectivePrice() })
	case SortName:
		sort.SliceStable(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	case SortBestSeller:
		sort.SliceStable(out, func(i, j int) bool { return bool(out[i].IsBestSeller) && !bool(out[j].IsBestSeller) })
	}
	return out
}
