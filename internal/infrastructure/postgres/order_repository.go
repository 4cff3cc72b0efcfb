package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con
// pool o tx). Líneas y pagos son append-only; las agregaciones de conciliación
// se calculan en SQL sobre el mismo snapshot transaccional.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste la cabecera de la orden.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	query := `
		INSERT INTO orders (id, order_number, cash_session_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.OrderNumber, o.CashSessionID, o.UserID, o.Status, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// AddProduct inserta una línea de producto con su precio snapshot.
func (r *OrderRepo) AddProduct(ctx context.Context, line *entity.OrderProduct) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_products (id, order_id, store_product_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		line.ID, line.OrderID, line.StoreProductID, line.ProductID, line.Quantity, line.UnitPrice,
	)
	if err != nil {
		return fmt.Errorf("add order product: %w", err)
	}
	return nil
}

// AddService inserta una línea de servicio.
func (r *OrderRepo) AddService(ctx context.Context, line *entity.Service) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	query := `
		INSERT INTO order_services (id, order_id, name, price, status)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, line.ID, line.OrderID, line.Name, line.Price, line.Status)
	if err != nil {
		return fmt.Errorf("add order service: %w", err)
	}
	return nil
}

// AddPayment inserta un pago de la orden.
func (r *OrderRepo) AddPayment(ctx context.Context, p *entity.PaymentMethod) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	query := `
		INSERT INTO payment_methods (id, order_id, type, amount)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(ctx, query, p.ID, p.OrderID, p.Type, p.Amount)
	if err != nil {
		return fmt.Errorf("add payment: %w", err)
	}
	return nil
}

// GetByID obtiene una orden por ID. Retorna (nil, nil) si no existe.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	query := `
		SELECT id, order_number, cash_session_id, user_id, status, created_at
		FROM orders WHERE id = $1`
	var o entity.Order
	err := r.q.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.OrderNumber, &o.CashSessionID, &o.UserID, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// ListProducts lista las líneas de producto con el nombre de catálogo.
func (r *OrderRepo) ListProducts(ctx context.Context, orderID string) ([]*entity.OrderProduct, error) {
	query := `
		SELECT op.id, op.order_id, op.store_product_id, op.product_id, p.name, op.quantity, op.unit_price
		FROM order_products op
		JOIN products p ON p.id = op.product_id
		WHERE op.order_id = $1
		ORDER BY op.id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order products: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrderProduct
	for rows.Next() {
		var line entity.OrderProduct
		if err := rows.Scan(
			&line.ID, &line.OrderID, &line.StoreProductID, &line.ProductID,
			&line.ProductName, &line.Quantity, &line.UnitPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order product: %w", err)
		}
		out = append(out, &line)
	}
	return out, rows.Err()
}

// ListServices lista las líneas de servicio de la orden.
func (r *OrderRepo) ListServices(ctx context.Context, orderID string) ([]*entity.Service, error) {
	query := `
		SELECT id, order_id, name, price, status
		FROM order_services WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order services: %w", err)
	}
	defer rows.Close()

	var out []*entity.Service
	for rows.Next() {
		var s entity.Service
		if err := rows.Scan(&s.ID, &s.OrderID, &s.Name, &s.Price, &s.Status); err != nil {
			return nil, fmt.Errorf("scan order service: %w", err)
		}
		out = append(out, &s)
	}
	return out, rows.Err()
}

// ListPayments lista los pagos de la orden.
func (r *OrderRepo) ListPayments(ctx context.Context, orderID string) ([]*entity.PaymentMethod, error) {
	query := `
		SELECT id, order_id, type, amount
		FROM payment_methods WHERE order_id = $1
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.PaymentMethod
	for rows.Next() {
		var p entity.PaymentMethod
		if err := rows.Scan(&p.ID, &p.OrderID, &p.Type, &p.Amount); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ListBySession lista las órdenes de una sesión en orden de creación.
func (r *OrderRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Order, error) {
	query := `
		SELECT id, order_number, cash_session_id, user_id, status, created_at
		FROM orders WHERE cash_session_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders by session: %w", err)
	}
	defer rows.Close()

	var out []*entity.Order
	for rows.Next() {
		var o entity.Order
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.CashSessionID, &o.UserID, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, &o)
	}
	return out, rows.Err()
}

// SumPaymentsBySession suma los pagos de las órdenes no anuladas de la sesión.
func (r *OrderRepo) SumPaymentsBySession(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(pm.amount), 0)
		FROM payment_methods pm
		JOIN orders o ON o.id = pm.order_id
		WHERE o.cash_session_id = $1 AND o.status <> 'CANCELLED'`
	var total decimal.Decimal
	if err := r.q.QueryRow(ctx, query, sessionID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum payments by session: %w", err)
	}
	return total, nil
}

// MarkCancelled anula la orden como update condicional. Retorna false si ya
// estaba anulada (la anulación repetida es no-op).
func (r *OrderRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	query := `UPDATE orders SET status = 'CANCELLED' WHERE id = $1 AND status <> 'CANCELLED'`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("mark order cancelled: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
