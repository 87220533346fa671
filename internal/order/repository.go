package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danjocayabyab/Furnihive-sub000/internal/domain"
	"github.com/google/uuid"
)

// Repository persists placed orders. Consumers define this interface, not
// the postgres implementation.
type Repository interface {
	Create(ctx context.Context, o *domain.Order, lines []domain.OrderLine) error
	GetByID(ctx context.Context, orderID string) (*domain.Order, []domain.OrderLine, error)
	ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error)
}

var ErrOrderNotFound = errors.New("order not found")

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *domain.Order, lines []domain.OrderLine) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, buyer_id, total_amount, item_count, status, created_at)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.BuyerID, o.TotalAmount, o.ItemCount, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, l := range lines {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_lines (id, order_id, product_id, seller_id, title, unit_price, quantity, shipping_name, shipping_addr, payment_method)
             VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			uuid.NewString(), o.ID, l.ProductID, l.SellerID, l.Title, l.UnitPrice, l.Quantity, l.ShippingName, l.ShippingAddr, l.PaymentMethod,
		)
		if err != nil {
			return fmt.Errorf("insert order_line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *repo) GetByID(ctx context.Context, orderID string) (*domain.Order, []domain.OrderLine, error) {
	var o domain.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, buyer_id, total_amount, item_count, status, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.BuyerID, &o.TotalAmount, &o.ItemCount, &o.Status, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrOrderNotFound
		}
		return nil, nil, fmt.Errorf("select order: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, seller_id, title, unit_price, quantity, shipping_name, shipping_addr, payment_method
         FROM order_lines WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("select order_lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.SellerID, &l.Title, &l.UnitPrice, &l.Quantity, &l.ShippingName, &l.ShippingAddr, &l.PaymentMethod); err != nil {
			return nil, nil, fmt.Errorf("scan order_line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("rows: %w", err)
	}

	return &o, lines, nil
}

func (r *repo) ListByBuyer(ctx context.Context, buyerID string) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, buyer_id, total_amount, item_count, status, created_at
         FROM orders WHERE buyer_id = $1 ORDER BY created_at DESC`,
		buyerID,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.BuyerID, &o.TotalAmount, &o.ItemCount, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return orders, nil
}
