package catalog

import (
	"strings"

	"github.com/kmdsweets/storefront/internal/cart"
	"github.com/kmdsweets/storefront/internal/pricing"
)

const StatusOutOfStock = "out_of_stock"

type Product struct {
	ID              ID     `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	ImageURL        string `json:"image_url"`
	SellPrice       Number `json:"sell_price"`
	DiscountedPrice Number `json:"discounted_price"`
	DiscountPercent Number `json:"discount_percent"`
	StockQuantity   Number `json:"stock_quantity"`
	Status          string `json:"status"`
	SupplierID      ID     `json:"supplier_id"`
	Category        string `json:"category"`
	IsBestSeller    Flag   `json:"is_best_seller"`
}

func (p Product) EffectivePrice() float64 {
	return pricing.ResolveUnitPrice(p.SellPrice.Value, p.DiscountedPrice.Ptr())
}

func (p Product) HasDiscount() bool {
	return p.DiscountPercent.Value > 0
}

func (p Product) OutOfStock() bool {
	return p.Status == StatusOutOfStock || p.StockQuantity.Value <= 0
}

// Snapshot builds the cart input for this product. It is the only place where a
// loosely typed catalog record turns into a checked cart.Snapshot.
func (p Product) Snapshot() (cart.Snapshot, error) {
	s := cart.Snapshot{
		ID:              strings.TrimSpace(string(p.ID)),
		Name:            strings.TrimSpace(p.Name),
		ImageRef:        p.ImageURL,
		StandardPrice:   p.SellPrice.Value,
		DiscountedPrice: p.DiscountedPrice.Ptr(),
		MaxStock:        int(p.StockQuantity.Value),
		HasDiscount:     p.HasDiscount(),
	}
	if s.HasDiscount {
		orig := p.SellPrice.Value
		if !p.SellPrice.Valid {
			orig = p.EffectivePrice()
		}
		s.OriginalPrice = &orig
	}
	if err := s.Validate(); err != nil {
		return cart.Snapshot{}, err
	}
	return s, nil
}

type Slide struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type Supplier struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
}
