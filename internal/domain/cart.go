package domain

import "time"

// Cart is the buyer's current set of line items. Exactly one identity owns a
// cart at a time; ownership changes wholesale on identity switch.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"-"`
	OwnerKey  string     `bson:"owner_key" json:"owner"`
	Items     []CartItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartItem is one product line with the price/stock snapshot taken at
// add-to-cart time. StockLimit == nil means stock is unknown and quantities
// are not clamped.
type CartItem struct {
	ProductID     string    `bson:"product_id" json:"product_id"`
	Title         string    `bson:"title" json:"title"`
	UnitPrice     int64     `bson:"unit_price" json:"unit_price"`
	OriginalPrice int64     `bson:"original_price" json:"original_price"`
	Quantity      int       `bson:"quantity" json:"quantity"`
	StockLimit    *int      `bson:"stock_limit,omitempty" json:"stock_limit,omitempty"`
	WeightKg      float64   `bson:"weight_kg" json:"weight_kg"`
	SellerID      string    `bson:"seller_id" json:"seller_id"`
	ImageRef      string    `bson:"image_ref" json:"image_ref"`
	ColorVariant  string    `bson:"color_variant" json:"color_variant"`
	AddedAt       time.Time `bson:"added_at" json:"added_at"`
}

// Subtotal is unit price times quantity for this line.
func (i CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// TotalWeightKg sums line weights over the given items.
func TotalWeightKg(items []CartItem) float64 {
	var w float64
	for _, it := range items {
		w += it.WeightKg * float64(it.Quantity)
	}
	return w
}
