// Package voucher evaluates promotional voucher eligibility and discount
// amounts against a checkout subtotal.
package voucher

import (
	"context"
	"errors"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/danjocayabyab/Furnihive-sub000/internal/mirror"
)

var (
	ErrVoucherNotActive  = errors.New("voucher is not active")
	ErrMinPurchaseNotMet = errors.New("subtotal is below the voucher minimum purchase")
)

type Engine struct {
	catalog mirror.VoucherCatalog
}

func NewEngine(catalog mirror.VoucherCatalog) *Engine {
	return &Engine{catalog: catalog}
}

// Eligible returns the vouchers offerable at the given instant: active
// status, now inside [ValidFrom, ValidTo], nil bounds open.
func (e *Engine) Eligible(ctx context.Context, now time.Time) ([]domain.Voucher, error) {
	all, err := e.catalog.ListVouchers(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Voucher, 0, len(all))
	for _, v := range all {
		if v.ActiveAt(now) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ComputeDiscount is the raw discount math: percentage vouchers round half
// up on the minor unit, fixed vouchers apply their value directly. The
// result is clamped to [0, subtotal]. MinPurchase/MaxDiscount are not
// consulted here; Validate enforces them when a voucher is selected.
func ComputeDiscount(v domain.Voucher, subtotal int64) int64 {
	var amount int64
	switch v.DiscountType {
	case domain.DiscountPercentage:
		amount = (subtotal*v.DiscountValue + 50) / 100
	case domain.DiscountFixed:
		amount = v.DiscountValue
	}

	if amount < 0 {
		amount = 0
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount
}

// Validate hard-enforces the advisory fields at selection time: the voucher
// must be active, the subtotal must meet MinPurchase, and a non-zero
// MaxDiscount caps the computed amount. Returns the discount that checkout
// will actually apply.
func Validate(v domain.Voucher, subtotal int64, now time.Time) (int64, error) {
	if !v.ActiveAt(now) {
		return 0, ErrVoucherNotActive
	}
	if v.MinPurchase > 0 && subtotal < v.MinPurchase {
		return 0, ErrMinPurchaseNotMet
	}

	amount := ComputeDiscount(v, subtotal)
	if v.MaxDiscount > 0 && amount > v.MaxDiscount {
		amount = v.MaxDiscount
	}
	return amount, nil
}
