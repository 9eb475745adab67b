package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"catalog_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price_at_purchase"})
}

func TestOrderRepository_CreateDefaultsItems(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderRepository(db, quietLogger())

	mock.ExpectQuery("INSERT INTO orders").
		WithArgs("Alice", "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status", "created_at"}).AddRow(1, "pending", createdAt))

	order, err := repo.CreateOrder(context.Background(), &domain.Order{CustomerName: "Alice", Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)
	assert.NotNil(t, order.Items)
}

func TestOrderRepository_GetLoadsItems(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderRepository(db, quietLogger())

	mock.ExpectQuery("SELECT id, customer_name, status, created_at FROM orders WHERE id").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "status", "created_at"}).
			AddRow(1, "Alice", "pending", createdAt))
	mock.ExpectQuery(regexp.QuoteMeta(`WHERE order_id = ANY($1::int[])`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(orderItemRows().AddRow(11, 1, 7, 3, "1000.00"))

	order, err := repo.GetOrderByID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
}

func TestOrderRepository_ListAttachesItemsPerOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderRepository(db, quietLogger())

	mock.ExpectQuery("FROM orders ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_name", "status", "created_at"}).
			AddRow(1, "Alice", "pending", createdAt).
			AddRow(2, "Bob", "shipped", createdAt))
	mock.ExpectQuery("FROM order_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(orderItemRows().AddRow(11, 1, 7, 3, "1000.00").AddRow(12, 1, 8, 1, "250.00"))

	orders, err := repo.ListOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 2)
	assert.NotNil(t, orders[1].Items)
	assert.Empty(t, orders[1].Items)
}

func TestOrderRepository_UpdateStatusMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderRepository(db, quietLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2 RETURNING id`)).
		WithArgs("shipped", 8).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateOrder(context.Background(), 8, domain.OrderPatch{Status: domain.Some(domain.OrderStatus("shipped"))})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOrderRepository_Delete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderRepository(db, quietLogger())

	mock.ExpectExec("DELETE FROM orders").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.DeleteOrder(context.Background(), 1))
}
