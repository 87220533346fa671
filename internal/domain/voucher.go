package domain

import "time"

// DiscountType is how a voucher's value applies to the subtotal.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// VoucherStatus gates whether a voucher can be offered at all.
type VoucherStatus string

const (
	VoucherActive   VoucherStatus = "active"
	VoucherInactive VoucherStatus = "inactive"
)

// Voucher is a seller-issued, time-bounded discount. Nil ValidFrom/ValidTo
// mean the window is open on that side.
type Voucher struct {
	ID            string        `bson:"_id" json:"id"`
	SellerID      string        `bson:"seller_id" json:"seller_id"`
	Code          string        `bson:"code" json:"code"`
	DiscountType  DiscountType  `bson:"discount_type" json:"discount_type"`
	DiscountValue int64         `bson:"discount_value" json:"discount_value"`
	MinPurchase   int64         `bson:"min_purchase" json:"min_purchase"`
	MaxDiscount   int64         `bson:"max_discount" json:"max_discount"`
	ValidFrom     *time.Time    `bson:"valid_from,omitempty" json:"valid_from,omitempty"`
	ValidTo       *time.Time    `bson:"valid_to,omitempty" json:"valid_to,omitempty"`
	Status        VoucherStatus `bson:"status" json:"status"`
}

// ActiveAt reports whether the voucher is offerable at the given instant.
func (v Voucher) ActiveAt(now time.Time) bool {
	if v.Status != VoucherActive {
		return false
	}
	if v.ValidFrom != nil && now.Before(*v.ValidFrom) {
		return false
	}
	if v.ValidTo != nil && now.After(*v.ValidTo) {
		return false
	}
	return true
}
