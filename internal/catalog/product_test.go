package catalog

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmdsweets/storefront/internal/cart"
)

const productJSON = `{
	"id": "12",
	"name": "Kaju Katli",
	"description": "Cashew fudge",
	"image_url": "uploads/kaju.jpg",
	"sell_price": "500.00",
	"discounted_price": "450.00",
	"discount_percent": "10",
	"stock_quantity": "8",
	"status": "active",
	"supplier_id": 3,
	"category": "sweets",
	"is_best_seller": "1"
}`

func TestProduct_Snapshot(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(productJSON), &p))

	assert.Equal(t, 450.0, p.EffectivePrice())
	assert.False(t, p.OutOfStock())

	s, err := p.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "12", s.ID)
	assert.Equal(t, "Kaju Katli", s.Name)
	assert.Equal(t, "uploads/kaju.jpg", s.ImageRef)
	assert.Equal(t, 8, s.MaxStock)
	assert.True(t, s.HasDiscount)
	require.NotNil(t, s.OriginalPrice)
	assert.Equal(t, 500.0, *s.OriginalPrice)
	assert.Equal(t, 450.0, s.UnitPrice())
}

func TestProduct_SnapshotWithoutDiscount(t *testing.T) {
	p := Product{ID: "1", Name: "Ladoo", SellPrice: num(120), StockQuantity: num(3)}

	s, err := p.Snapshot()
	require.NoError(t, err)
	assert.False(t, s.HasDiscount)
	assert.Nil(t, s.OriginalPrice)
	assert.Nil(t, s.DiscountedPrice)
	assert.Equal(t, 120.0, s.UnitPrice())
}

func TestProduct_SnapshotRejectsIncompleteRecord(t *testing.T) {
	_, err := Product{Name: "no id", SellPrice: num(1)}.Snapshot()
	require.Error(t, err)
	assert.True(t, errors.Is(err, cart.ErrInvalidSnapshot))
}

func TestProduct_OutOfStock(t *testing.T) {
	assert.True(t, Product{Status: StatusOutOfStock, StockQuantity: num(5)}.OutOfStock())
	assert.True(t, Product{StockQuantity: num(0)}.OutOfStock())
	assert.False(t, Product{StockQuantity: num(1)}.OutOfStock())
}
