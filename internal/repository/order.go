package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/pointsclub/internal/models"
	"github.com/rookgm/pointsclub/internal/repository/postgres"
)

const (
	orderColumns = `id, session_id, customer_name, customer_phone, delivery_option, delivery_address, delivery_cep,
						delivery_neighborhood, notes, subtotal, delivery_fee, total, status, loyalty_recorded, created_at`

	insertOrderQuery = `
						INSERT INTO orders (id, session_id, customer_name, customer_phone, delivery_option, delivery_address,
						                    delivery_cep, delivery_neighborhood, notes, subtotal, delivery_fee, total, status)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
						RETURNING created_at
`
	insertOrderItemQuery = `
						INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, total_price)
						VALUES ($1, $2, $3, $4, $5, $6)
						RETURNING id
`
	selectOrderByIDQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE id = $1
`
	selectOrdersQuery = `
						SELECT ` + orderColumns + ` FROM orders
						ORDER BY created_at DESC
`
	selectOrdersByStatusQuery = `
						SELECT ` + orderColumns + ` FROM orders
						WHERE status = $1
						ORDER BY created_at DESC
`
	selectOrderItemsQuery = `
						SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price FROM order_items
						WHERE order_id = ANY($1)
						ORDER BY id
`
	updateOrderStatusQuery = `
						UPDATE orders
						SET status = $3
						WHERE id = $1 AND status = $2
`
	claimLoyaltyQuery = `
						UPDATE orders
						SET loyalty_recorded = TRUE
						WHERE id = $1 AND status = $2 AND loyalty_recorded = FALSE
`
	releaseLoyaltyQuery = `
						UPDATE orders
						SET loyalty_recorded = FALSE
						WHERE id = $1 AND loyalty_recorded = TRUE
`
	deleteOrderQuery = `
						DELETE FROM orders
						WHERE id = $1
`
)

// OrderRepository implements OrderRepository interface
type OrderRepository struct {
	db *postgres.DB
}

// NewOrderRepository creates new OrderRepository instance
func NewOrderRepository(db *postgres.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder inserts new order with its items
func (or *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	tx, err := or.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, insertOrderQuery, order.ID, order.SessionID, order.CustomerName, order.CustomerPhone,
		order.DeliveryOption, order.DeliveryAddress, order.DeliveryCEP, order.DeliveryNeighborhood, order.Notes,
		order.Subtotal, order.DeliveryFee, order.Total, order.Status).Scan(&order.CreatedAt)
	if err != nil {
		if errCode := or.db.ErrorCode(err); errCode == pgErrUniqueViolationCode {
			return nil, models.ErrConflictData
		}
		return nil, err
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err = tx.QueryRow(ctx, insertOrderItemQuery, item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.TotalPrice).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrderByID returns order with items
func (or *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := scanOrder(or.db.QueryRow(ctx, selectOrderByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	orders := []models.Order{*order}
	if err := or.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

// ListOrders returns orders with status, or every order if status is empty, newest first
func (or *OrderRepository) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == "" {
		rows, err = or.db.Query(ctx, selectOrdersQuery)
	} else {
		rows, err = or.db.Query(ctx, selectOrdersByStatusQuery, status)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := or.attachItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// UpdateOrderStatus moves order from status to status, returns ErrDataNotFound if no order was in from
func (or *OrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to string) error {
	cmd, err := or.db.Exec(ctx, updateOrderStatusQuery, id, from, to)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// ClaimLoyalty marks loyalty points of an approved order as recorded.
// Returns ErrDataNotFound unless the order is approved and not marked yet.
func (or *OrderRepository) ClaimLoyalty(ctx context.Context, id uuid.UUID) error {
	cmd, err := or.db.Exec(ctx, claimLoyaltyQuery, id, models.OrderStatusApproved)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// ReleaseLoyalty clears the loyalty mark of order
func (or *OrderRepository) ReleaseLoyalty(ctx context.Context, id uuid.UUID) error {
	cmd, err := or.db.Exec(ctx, releaseLoyaltyQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

// DeleteOrder deletes order and its items
func (or *OrderRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	cmd, err := or.db.Exec(ctx, deleteOrderQuery, id)
	if err != nil {
		return err
	}

	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	return nil
}

func (or *OrderRepository) attachItems(ctx context.Context, orders []models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(orders))
	index := make(map[uuid.UUID]int, len(orders))
	for i, o := range orders {
		ids = append(ids, o.ID)
		index[o.ID] = i
	}

	rows, err := or.db.Query(ctx, selectOrderItemsQuery, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item := models.OrderItem{}
		err = rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.UnitPrice, &item.TotalPrice)
		if err != nil {
			return err
		}
		if i, ok := index[item.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}

	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := models.Order{}
	err := row.Scan(&o.ID, &o.SessionID, &o.CustomerName, &o.CustomerPhone, &o.DeliveryOption, &o.DeliveryAddress,
		&o.DeliveryCEP, &o.DeliveryNeighborhood, &o.Notes, &o.Subtotal, &o.DeliveryFee, &o.Total, &o.Status,
		&o.LoyaltyRecorded, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
