package domain

import "time"

// PaymentMethod is one of the fixed set offered at the payment step.
type PaymentMethod string

const (
	PaymentCard           PaymentMethod = "card"
	PaymentEwalletGopaz   PaymentMethod = "ewallet_gopaz"
	PaymentEwalletOvio    PaymentMethod = "ewallet_ovio"
	PaymentCashOnDelivery PaymentMethod = "cash_on_delivery"
)

// KnownPaymentMethod reports membership in the fixed method set.
func KnownPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCard, PaymentEwalletGopaz, PaymentEwalletOvio, PaymentCashOnDelivery:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderPending OrderStatus = "PENDING"
)

// Order is the persisted header for a placed checkout.
type Order struct {
	ID          string
	BuyerID     string
	TotalAmount int64
	ItemCount   int
	Status      OrderStatus
	CreatedAt   time.Time
}

// OrderLine snapshots one purchased cart line. The snapshot is immutable
// after creation even if the product changes later.
type OrderLine struct {
	ID            string
	OrderID       string
	ProductID     string
	SellerID      string
	Title         string
	UnitPrice     int64
	Quantity      int
	ShippingName  string
	ShippingAddr  string
	PaymentMethod PaymentMethod
}

// OrderResult is the terminal outcome of checkout. PaymentPending marks the
// fallback path where the order stands but no hosted payment session could be
// created.
type OrderResult struct {
	OrderID        string `json:"order_id"`
	HostedURL      string `json:"hosted_url,omitempty"`
	PaymentPending bool   `json:"payment_pending"`
}
