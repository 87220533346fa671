package domain

// IdentityKind discriminates anonymous guests from authenticated buyers.
type IdentityKind string

const (
	IdentityGuest IdentityKind = "guest"
	IdentityBuyer IdentityKind = "buyer"
)

// Identity is the current owner of the cart session.
type Identity struct {
	Kind    IdentityKind
	BuyerID string
}

func Guest() Identity {
	return Identity{Kind: IdentityGuest}
}

func Buyer(id string) Identity {
	return Identity{Kind: IdentityBuyer, BuyerID: id}
}

func (i Identity) IsBuyer() bool {
	return i.Kind == IdentityBuyer && i.BuyerID != ""
}

// Key is the storage key for this identity, used by both the local cache
// ("cart:<key>") and the remote mirror (owner_key column).
func (i Identity) Key() string {
	if i.IsBuyer() {
		return i.BuyerID
	}
	return "guest"
}

func (i Identity) Equal(other Identity) bool {
	return i.Kind == other.Kind && i.BuyerID == other.BuyerID
}
