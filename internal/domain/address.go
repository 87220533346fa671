package domain

import "time"

// ShippingAddress is the buyer-entered destination for a checkout. Resolved
// is nil until geocoding succeeds.
type ShippingAddress struct {
	Name         string    `json:"name"`
	Street       string    `json:"street"`
	City         string    `json:"city"`
	Province     string    `json:"province"`
	PostalCode   string    `json:"postal_code"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	DeliveryNote string    `json:"delivery_note,omitempty"`
	Resolved     *GeoPoint `json:"resolved,omitempty"`
}

// Freeform flattens the structured fields into a single geocodable line.
func (a ShippingAddress) Freeform() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.City, a.Province, a.PostalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += ", "
		}
		out += p
	}
	return out
}

// GeoPoint is a resolved coordinate pair with the provider's canonical
// address string.
type GeoPoint struct {
	Lat              float64 `bson:"lat" json:"lat"`
	Lng              float64 `bson:"lng" json:"lng"`
	FormattedAddress string  `bson:"formatted_address" json:"formatted_address"`
}

// SavedAddress is a buyer's stored address book entry. Soft-deleted rows stay
// in the collection for audit but never appear in listings.
type SavedAddress struct {
	ID        string          `bson:"_id" json:"id"`
	BuyerID   string          `bson:"buyer_id" json:"buyer_id"`
	Label     string          `bson:"label" json:"label"`
	Address   ShippingAddress `bson:"address" json:"address"`
	IsDefault bool            `bson:"is_default" json:"is_default"`
	Deleted   bool            `bson:"deleted" json:"-"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}
