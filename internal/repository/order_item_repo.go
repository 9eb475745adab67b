package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const orderItemColumns = `id, order_id, product_id, quantity, price_at_purchase`

type postgresOrderItemRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresOrderItemRepository(db *sql.DB, logger *logrus.Logger) domain.OrderItemRepository {
	return &postgresOrderItemRepository{
		db:  db,
		log: logger,
	}
}

func scanOrderItem(row rowScanner) (*domain.OrderItem, error) {
	item := &domain.OrderItem{}
	if err := row.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.PriceAtPurchase); err != nil {
		return nil, err
	}
	return item, nil
}

// PlaceOrderItem guards the decrement with "stock >= quantity" in the same
// statement that reads the price, so concurrent placements cannot oversell.
func (r *postgresOrderItemRepository) PlaceOrderItem(ctx context.Context, item *domain.OrderItem) (*domain.OrderItem, error) {
	err := withTx(ctx, r.db, r.log, func(tx *sql.Tx) error {
		decrement := `
            UPDATE products
            SET stock = stock - $1
            WHERE id = $2 AND stock >= $1
            RETURNING price`
		err := tx.QueryRowContext(ctx, decrement, item.Quantity, item.ProductID).Scan(&item.PriceAtPurchase)
		if errors.Is(err, sql.ErrNoRows) {
			var stock int
			lookupErr := tx.QueryRowContext(ctx, `SELECT stock FROM products WHERE id = $1`, item.ProductID).Scan(&stock)
			if errors.Is(lookupErr, sql.ErrNoRows) {
				return domain.NotFoundf("product with id %d", item.ProductID)
			}
			if lookupErr != nil {
				return fmt.Errorf("could not read product stock: %w", lookupErr)
			}
			r.log.Warnf("Repository: Insufficient stock for product %d (requested %d, available %d)", item.ProductID, item.Quantity, stock)
			return fmt.Errorf("product %d has %d in stock, requested %d: %w", item.ProductID, stock, item.Quantity, domain.ErrInsufficientStock)
		}
		if err != nil {
			return fmt.Errorf("could not decrement stock: %w", err)
		}

		insert := `
            INSERT INTO order_items (order_id, product_id, quantity, price_at_purchase)
            VALUES ($1, $2, $3, $4)
            RETURNING id`
		err = tx.QueryRowContext(ctx, insert, item.OrderID, item.ProductID, item.Quantity, item.PriceAtPurchase).Scan(&item.ID)
		if err != nil {
			if code, _ := pqErrorCode(err); code == foreignKeyViolation {
				return domain.NotFoundf("order with id %d", item.OrderID)
			}
			return fmt.Errorf("could not create order item: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Warnf("Repository: Order item placement failed (order %d, product %d, quantity %d): %v", item.OrderID, item.ProductID, item.Quantity, err)
		return nil, err
	}

	r.log.Infof("Repository: Order item %d placed for order %d, product %d, quantity %d", item.ID, item.OrderID, item.ProductID, item.Quantity)
	return item, nil
}

func (r *postgresOrderItemRepository) GetOrderItemByID(ctx context.Context, id int) (*domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items WHERE id = $1`
	item, err := scanOrderItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Order item with ID %d not found", id)
			return nil, domain.NotFoundf("order item with id %d", id)
		}
		r.log.Errorf("Repository: Failed to get order item by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not retrieve order item: %w", err)
	}
	return item, nil
}

func (r *postgresOrderItemRepository) ListOrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+orderItemColumns+` FROM order_items ORDER BY id ASC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list order items: %v", err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	defer rows.Close()

	items := []domain.OrderItem{}
	for rows.Next() {
		item, err := scanOrderItem(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan order item row: %v", err)
			return nil, fmt.Errorf("error scanning order item: %w", err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during order items iteration: %v", err)
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	return items, nil
}
