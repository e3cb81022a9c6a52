package cart

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kmdsweets/storefront/internal/pricing"
)

const StorageKey = "cart"

var ErrInvalidSnapshot = errors.New("invalid product snapshot")

type LineItem struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	ImageRef      string   `json:"imageRef"`
	UnitPrice     float64  `json:"unitPrice"`
	Quantity      int      `json:"quantity"`
	MaxStock      int      `json:"maxStock"`
	HasDiscount   bool     `json:"hasDiscount"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
}

func (i LineItem) clone() LineItem {
	if i.OriginalPrice != nil {
		v := *i.OriginalPrice
		i.OriginalPrice = &v
	}
	return i
}

// Snapshot is what a product view hands over when adding to the cart. Name, image
// and prices are copied into the line item and never refreshed.
type Snapshot struct {
	ID              string   `json:"id"               validate:"required,max=64"`
	Name            string   `json:"name"             validate:"required"`
	ImageRef        string   `json:"imageRef"`
	StandardPrice   float64  `json:"standardPrice"    validate:"gte=0"`
	DiscountedPrice *float64 `json:"discountedPrice"`
	MaxStock        int      `json:"maxStock"         validate:"gte=0"`
	HasDiscount     bool     `json:"hasDiscount"`
	OriginalPrice   *float64 `json:"originalPrice"`
}

var validate = validator.New()

func (s Snapshot) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return nil
}

func (s Snapshot) UnitPrice() float64 {
	return pricing.ResolveUnitPrice(s.StandardPrice, s.DiscountedPrice)
}

func (s Snapshot) lineItem(quantity int) LineItem {
	item := LineItem{
		ID:          s.ID,
		Name:        s.Name,
		ImageRef:    s.ImageRef,
		UnitPrice:   s.UnitPrice(),
		Quantity:    quantity,
		MaxStock:    s.MaxStock,
		HasDiscount: s.HasDiscount,
	}
	if s.HasDiscount && s.OriginalPrice != nil {
		v := *s.OriginalPrice
		item.OriginalPrice = &v
	}
	return item
}

func Lines(items []LineItem) []pricing.Line {
	lines := make([]pricing.Line, 0, len(items))
	for _, it := range items {
		lines = append(lines, pricing.Line{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	return lines
}
