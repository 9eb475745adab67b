package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"catalog_service/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var decrementSQL = regexp.QuoteMeta(`UPDATE products SET stock = stock - $1 WHERE id = $2 AND stock >= $1 RETURNING price`)

func TestOrderItemRepository_PlaceCommitsDecrementAndInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderItemRepository(db, quietLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(decrementSQL).
		WithArgs(3, 7).
		WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("1000.00"))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(1, 7, 3, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectCommit()

	item, err := repo.PlaceOrderItem(context.Background(), &domain.OrderItem{OrderID: 1, ProductID: 7, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 11, item.ID)
	assert.True(t, item.PriceAtPurchase.Equal(decimal.NewFromInt(1000)))
}

func TestOrderItemRepository_PlaceInsufficientStockRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderItemRepository(db, quietLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(decrementSQL).WithArgs(10, 7).WillReturnRows(sqlmock.NewRows([]string{"price"}))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT stock FROM products WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"stock"}).AddRow(7))
	mock.ExpectRollback()

	_, err := repo.PlaceOrderItem(context.Background(), &domain.OrderItem{OrderID: 1, ProductID: 7, Quantity: 10})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestOrderItemRepository_PlaceVanishedProduct(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderItemRepository(db, quietLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(decrementSQL).WithArgs(1, 9999).WillReturnRows(sqlmock.NewRows([]string{"price"}))
	mock.ExpectQuery("SELECT stock FROM products").WithArgs(9999).WillReturnRows(sqlmock.NewRows([]string{"stock"}))
	mock.ExpectRollback()

	_, err := repo.PlaceOrderItem(context.Background(), &domain.OrderItem{OrderID: 1, ProductID: 9999, Quantity: 1})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestOrderItemRepository_PlaceVanishedOrderRollsBackDecrement(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderItemRepository(db, quietLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(decrementSQL).WithArgs(2, 7).WillReturnRows(sqlmock.NewRows([]string{"price"}).AddRow("5.00"))
	mock.ExpectQuery("INSERT INTO order_items").WillReturnError(&pq.Error{Code: "23503"})
	mock.ExpectRollback()

	_, err := repo.PlaceOrderItem(context.Background(), &domain.OrderItem{OrderID: 404, ProductID: 7, Quantity: 2})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.EqualError(t, err, "order with id 404 not found")
}

func TestOrderItemRepository_GetNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresOrderItemRepository(db, quietLogger())

	mock.ExpectQuery("FROM order_items WHERE id").
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price_at_purchase"}))

	_, err := repo.GetOrderItemByID(context.Background(), 5)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
