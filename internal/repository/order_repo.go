package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

const orderColumns = `id, customer_name, status, created_at`

type postgresOrderRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderRepository(db *sql.DB, logger *logrus.Logger) domain.OrderRepository {
	return &postgresOrderRepository{
		db:  db,
		log: logger,
	}
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	order := &domain.Order{}
	if err := row.Scan(&order.ID, &order.CustomerName, &order.Status, &order.CreatedAt); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *postgresOrderRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	query := `
        INSERT INTO orders (customer_name, status)
        VALUES ($1, $2)
        RETURNING id, status, created_at`
	err := r.db.QueryRowContext(ctx, query, order.CustomerName, order.Status).
		Scan(&order.ID, &order.Status, &order.CreatedAt)
	if err != nil {
		r.log.Errorf("Repository: Failed to insert order for customer '%s': %v", order.CustomerName, err)
		return nil, fmt.Errorf("could not create order: %w", err)
	}
	order.Items = []domain.OrderItem{}
	r.log.Infof("Repository: Order created with ID: %d for customer: %s", order.ID, order.CustomerName)
	return order, nil
}

func (r *postgresOrderRepository) GetOrderByID(ctx context.Context, id int) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found", id)
			return nil, domain.NotFoundf("order with id %d", id)
		}
		r.log.Errorf("Repository: Failed to get order by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order: %w", err)
	}

	itemsByOrder, err := r.itemsForOrders(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	order.Items = itemsByOrder[id]
	if order.Items == nil {
		order.Items = []domain.OrderItem{}
	}
	return order, nil
}

// itemsForOrders loads the items of several orders with one query.
func (r *postgresOrderRepository) itemsForOrders(ctx context.Context, orderIDs []int) (map[int][]domain.OrderItem, error) {
	query := `
        SELECT ` + orderItemColumns + `
        FROM order_items
        WHERE order_id = ANY($1::int[])
        ORDER BY order_id, id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		r.log.Errorf("Repository: Failed to query items for orders %v: %v", orderIDs, err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	itemsMap := make(map[int][]domain.OrderItem)
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order item row: %v", err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		itemsMap[item.OrderID] = append(itemsMap[item.OrderID], *item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return itemsMap, nil
}

func (r *postgresOrderRepository) UpdateOrder(ctx context.Context, id int, patch domain.OrderPatch) (*domain.Order, error) {
	status, ok := patch.Status.Get()
	if !ok {
		r.log.Infof("Repository: No fields provided for order update ID %d. Returning current order.", id)
		return r.GetOrderByID(ctx, id)
	}

	query := `UPDATE orders SET status = $1 WHERE id = $2 RETURNING id`
	var updatedID int
	err := r.db.QueryRowContext(ctx, query, status, id).Scan(&updatedID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order with ID %d not found for status update", id)
			return nil, domain.NotFoundf("order with id %d", id)
		}
		r.log.Errorf("Repository: Failed to update status for order ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update order status: %w", err)
	}

	r.log.Infof("Repository: Order %d status set to '%s'", id, status)
	return r.GetOrderByID(ctx, updatedID)
}

func (r *postgresOrderRepository) DeleteOrder(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.log.Errorf("Repository: Failed to delete order ID %d: %v", id, err)
		return fmt.Errorf("could not delete order: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting order ID %d: %v", id, err)
		return fmt.Errorf("could not confirm order deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent order ID %d", id)
		return domain.NotFoundf("order with id %d", id)
	}
	r.log.Infof("Repository: Order deleted with ID: %d (items cascaded)", id)
	return nil
}

func (r *postgresOrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id ASC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	defer rows.Close()

	orders := []domain.Order{}
	orderIDs := []int{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order row: %v", err)
			return nil, fmt.Errorf("error scanning order data: %w", err)
		}
		orders = append(orders, *order)
		orderIDs = append(orderIDs, order.ID)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during orders iteration: %v", err)
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	itemsMap, err := r.itemsForOrders(ctx, orderIDs)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if items, ok := itemsMap[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []domain.OrderItem{}
		}
	}

	r.log.Debugf("Repository: Retrieved %d orders", len(orders))
	return orders, nil
}
