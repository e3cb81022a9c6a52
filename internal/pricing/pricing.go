package pricing

import "github.com/shopspring/decimal"

const (
	FreeShippingThreshold = 2000
	FlatShippingFee       = 250
)

// ResolveUnitPrice returns the discounted price when it is set and positive,
// otherwise the standard price.
func ResolveUnitPrice(standard float64, discounted *float64) float64 {
	if discounted != nil && *discounted > 0 {
		return *discounted
	}
	return standard
}

// DiscountSavings is what the buyer saves per unit. Zero when there is no discount.
func DiscountSavings(standard, unit float64) float64 {
	d := decimal.NewFromFloat(standard).Sub(decimal.NewFromFloat(unit))
	if !d.IsPositive() {
		return 0
	}
	return d.Round(2).InexactFloat64()
}

type Line struct {
	UnitPrice float64
	Quantity  int
}

type Summary struct {
	Items      int     `json:"items"`
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grand_total"`
}

func subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.UnitPrice).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return sum
}

func shipping(sub decimal.Decimal) decimal.Decimal {
	if sub.GreaterThan(decimal.NewFromInt(FreeShippingThreshold)) {
		return decimal.Zero
	}
	return decimal.NewFromInt(FlatShippingFee)
}

func Subtotal(lines []Line) float64 {
	return subtotal(lines).Round(2).InexactFloat64()
}

func Shipping(subtotal float64) float64 {
	return shipping(decimal.NewFromFloat(subtotal)).InexactFloat64()
}

// Summarize computes the cart page totals. Nothing is cached, callers pass the
// current lines on every render. An empty cart ships nothing and owes nothing.
func Summarize(lines []Line) Summary {
	sub := subtotal(lines)

	items := 0
	for _, l := range lines {
		items += l.Quantity
	}

	ship := decimal.Zero
	if items > 0 {
		ship = shipping(sub)
	}

	return Summary{
		Items:      items,
		Subtotal:   sub.Round(2).InexactFloat64(),
		Shipping:   ship.InexactFloat64(),
		GrandTotal: sub.Add(ship).Round(2).InexactFloat64(),
	}
}
