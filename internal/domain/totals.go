package domain

// CheckoutTotals is derived at read time and never stored.
type CheckoutTotals struct {
	Subtotal    int64 `json:"subtotal"`
	ShippingFee int64 `json:"shipping_fee"`
	Tax         int64 `json:"tax"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// NewTotals combines the components, flooring the grand total at zero so an
// oversized discount can never drive it negative.
func NewTotals(subtotal, shippingFee, tax, discount int64) CheckoutTotals {
	total := subtotal + shippingFee + tax - discount
	if total < 0 {
		total = 0
	}
	return CheckoutTotals{
		Subtotal:    subtotal,
		ShippingFee: shippingFee,
		Tax:         tax,
		Discount:    discount,
		Total:       total,
	}
}
