package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(v float64) *float64 { return &v }

func TestResolveUnitPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		standard   float64
		discounted *float64
		want       float64
	}{
		{name: "discount wins", standard: 500, discounted: ptr(400), want: 400},
		{name: "zero discount ignored", standard: 500, discounted: ptr(0), want: 500},
		{name: "negative discount ignored", standard: 500, discounted: ptr(-10), want: 500},
		{name: "absent discount", standard: 500, discounted: nil, want: 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveUnitPrice(tt.standard, tt.discounted))
		})
	}
}

func TestSummarize_FreeShippingAboveThreshold(t *testing.T) {
	t.Parallel()

	s := Summarize([]Line{{UnitPrice: 500, Quantity: 2}, {UnitPrice: 1200, Quantity: 1}})

	assert.Equal(t, 3, s.Items)
	assert.Equal(t, 2200.0, s.Subtotal)
	assert.Equal(t, 0.0, s.Shipping)
	assert.Equal(t, 2200.0, s.GrandTotal)
}

func TestSummarize_FlatFeeBelowThreshold(t *testing.T) {
	t.Parallel()

	s := Summarize([]Line{{UnitPrice: 300, Quantity: 2}})

	assert.Equal(t, 600.0, s.Subtotal)
	assert.Equal(t, 250.0, s.Shipping)
	assert.Equal(t, 850.0, s.GrandTotal)
}

func TestSummarize_EmptyCartOwesNothing(t *testing.T) {
	t.Parallel()

	for _, lines := range [][]Line{nil, {}} {
		s := Summarize(lines)
		assert.Equal(t, Summary{}, s)
	}
}

func TestShipping_ThresholdIsExclusive(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 250.0, Shipping(2000))
	assert.Equal(t, 0.0, Shipping(2000.01))
}

func TestSubtotal_NoFloatDrift(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.3, Subtotal([]Line{{UnitPrice: 0.1, Quantity: 1}, {UnitPrice: 0.2, Quantity: 1}}))
	assert.Equal(t, 0.0, Subtotal(nil))
}

func TestDiscountSavings(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100.0, DiscountSavings(500, 400))
	assert.Equal(t, 0.0, DiscountSavings(500, 500))
}
