// Package order converts a finalized checkout into persisted order rows and
// hands off to the payment gateway.
package order

import (
	"context"
	"log"
	"time"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/google/uuid"
)

// CartClearer is the slice of CartStore the placer needs once an order
// stands.
type CartClearer interface {
	Clear()
}

// EventSink receives the best-effort order-placed event. Failures are logged
// by the placer and never surfaced.
type EventSink interface {
	OrderPlaced(ctx context.Context, o domain.Order) error
}

type Placer struct {
	repo     Repository
	sessions SessionCreator
	cart     CartClearer
	events   EventSink
	timeout  time.Duration
}

func NewPlacer(repo Repository, sessions SessionCreator, cart CartClearer, events EventSink, timeout time.Duration) *Placer {
	return &Placer{
		repo:     repo,
		sessions: sessions,
		cart:     cart,
		events:   events,
		timeout:  timeout,
	}
}

// Place persists the order header plus one line per selected item with a
// known seller, then resolves payment. Lines without a resolvable seller are
// dropped from line creation but the header total still covers every
// selected item; this is deliberate permissive behavior, not data loss.
//
// Payment resolution:
//   - cash on delivery short-circuits: no gateway call, immediate success;
//   - otherwise a hosted session is requested. If the gateway fails the
//     order is NOT rolled back; the result degrades to a local success with
//     PaymentPending set (the PaymentFallbackLocalSuccess policy) so the
//     buyer is never stuck behind a dead gateway.
//
// The cart is cleared on every success path.
func (p *Placer) Place(
	ctx context.Context,
	buyer domain.Identity,
	selected []domain.CartItem,
	shipping domain.ShippingAddress,
	method domain.PaymentMethod,
	totals domain.CheckoutTotals,
) (domain.OrderResult, error) {
	o := &domain.Order{
		ID:          uuid.NewString(),
		BuyerID:     buyer.Key(),
		TotalAmount: totals.Total,
		ItemCount:   len(selected),
		Status:      domain.OrderPending,
		CreatedAt:   time.Now(),
	}

	shippingAddr := shipping.Freeform()
	if shipping.Resolved != nil && shipping.Resolved.FormattedAddress != "" {
		shippingAddr = shipping.Resolved.FormattedAddress
	}

	lines := make([]domain.OrderLine, 0, len(selected))
	for _, it := range selected {
		if it.SellerID == "" {
			log.Printf("order %s: dropping line %s with no resolvable seller", o.ID, it.ProductID)
			continue
		}
		lines = append(lines, domain.OrderLine{
			OrderID:       o.ID,
			ProductID:     it.ProductID,
			SellerID:      it.SellerID,
			Title:         it.Title,
			UnitPrice:     it.UnitPrice,
			Quantity:      it.Quantity,
			ShippingName:  shipping.Name,
			ShippingAddr:  shippingAddr,
			PaymentMethod: method,
		})
	}

	if err := p.repo.Create(ctx, o, lines); err != nil {
		return domain.OrderResult{}, err
	}

	if method == domain.PaymentCashOnDelivery {
		p.finish(ctx, *o)
		return domain.OrderResult{OrderID: o.ID}, nil
	}

	sessionCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	hostedURL, err := p.sessions.CreateCheckoutSession(sessionCtx, o.ID)
	if err != nil {
		// PaymentFallbackLocalSuccess: the order and its lines already
		// exist, so the flow degrades to a local success instead of failing
		// the whole checkout
		log.Printf("order %s: payment session failed, degrading to local success: %v", o.ID, err)
		p.finish(ctx, *o)
		return domain.OrderResult{OrderID: o.ID, PaymentPending: true}, nil
	}

	p.finish(ctx, *o)
	return domain.OrderResult{OrderID: o.ID, HostedURL: hostedURL}, nil
}

func (p *Placer) finish(ctx context.Context, o domain.Order) {
	p.cart.Clear()
	if p.events == nil {
		return
	}
	if err := p.events.OrderPlaced(ctx, o); err != nil {
		log.Printf("order %s: publish order-placed event failed: %v", o.ID, err)
	}
}
