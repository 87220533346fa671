// Package mirror is the remote persistence side of the cart system. The
// in-memory CartStore is authoritative for the UI; everything here is an
// eventually consistent copy plus the buyer-scoped collections (saved
// addresses, voucher catalog) that outlive a session.
package mirror

import (
	"context"
	"errors"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrAddressNotFound = errors.New("saved address not found")
)

// CartMirror holds the remote copy of each identity's cart, keyed by the
// identity's owner key. Consumers define this interface, not the MongoDB
// implementation.
type CartMirror interface {
	ListCartLines(ctx context.Context, ownerKey string) ([]domain.CartItem, error)
	UpsertCartLine(ctx context.Context, ownerKey string, item domain.CartItem) error
	DeleteCartLine(ctx context.Context, ownerKey string, productID string) error
	DeleteCart(ctx context.Context, ownerKey string) error
}

// AddressBook stores a buyer's saved shipping addresses. Deletion is soft:
// rows stay behind for audit and are only excluded from listings.
type AddressBook interface {
	List(ctx context.Context, buyerID string) ([]domain.SavedAddress, error)
	Create(ctx context.Context, addr domain.SavedAddress) error
	Rename(ctx context.Context, buyerID, addressID, label string) error
	SoftDelete(ctx context.Context, buyerID, addressID string) error
	SetDefault(ctx context.Context, buyerID, addressID string) error
}

// VoucherCatalog is the read-only source of promotional vouchers.
type VoucherCatalog interface {
	ListVouchers(ctx context.Context) ([]domain.Voucher, error)
}
