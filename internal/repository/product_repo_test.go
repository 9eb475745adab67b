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

func TestProductRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery("INSERT INTO products").
		WithArgs("Tee", nil, sqlmock.AnyArg(), 10, nil, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, createdAt))

	product, err := repo.CreateProduct(context.Background(), &domain.Product{
		Name:       "Tee",
		Price:      decimal.NewFromInt(1000),
		Stock:      10,
		CategoryID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, product.ID)
}

func TestProductRepository_CreateUnknownCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery("INSERT INTO products").WillReturnError(&pq.Error{Code: "23503"})

	_, err := repo.CreateProduct(context.Background(), &domain.Product{Name: "Tee", CategoryID: 99})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.EqualError(t, err, "category with id 99 not found")
}

func TestProductRepository_CreateCheckViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery("INSERT INTO products").
		WillReturnError(&pq.Error{Code: "23514", Message: "products_stock_check"})

	_, err := repo.CreateProduct(context.Background(), &domain.Product{Name: "Tee", Stock: -1, CategoryID: 1})
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestProductRepository_GetScansNullableColumns(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(7).
		WillReturnRows(productRows().AddRow(7, "Tee", nil, "1000.00", 10, "https://img/tee.png", 1, createdAt))

	product, err := repo.GetProductByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Nil(t, product.Description)
	require.NotNil(t, product.ImageURL)
	assert.Equal(t, "https://img/tee.png", *product.ImageURL)
	assert.True(t, product.Price.Equal(decimal.NewFromInt(1000)))
}

func TestProductRepository_UpdateStockOnly(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products SET stock = $1 WHERE id = $2 RETURNING `+productColumns)).
		WithArgs(4, 7).
		WillReturnRows(productRows().AddRow(7, "Tee", "Cotton", "1000.00", 4, nil, 1, createdAt))

	product, err := repo.UpdateProduct(context.Background(), 7, domain.ProductPatch{Stock: domain.Some(4)})
	require.NoError(t, err)
	assert.Equal(t, 4, product.Stock)
	assert.Equal(t, "Tee", product.Name)
}

func TestProductRepository_UpdateSeveralFieldsInColumnOrder(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE products SET name = $1, price = $2, image_url = $3 WHERE id = $4`)).
		WithArgs("Long Tee", sqlmock.AnyArg(), nil, 7).
		WillReturnRows(productRows().AddRow(7, "Long Tee", nil, "1200.00", 10, nil, 1, createdAt))

	_, err := repo.UpdateProduct(context.Background(), 7, domain.ProductPatch{
		Name:     domain.Some("Long Tee"),
		Price:    domain.Some(decimal.NewFromInt(1200)),
		ImageURL: domain.Some(""),
	})
	require.NoError(t, err)
}

func TestProductRepository_OutOfRangeIsInvalidArgument(t *testing.T) {
	outOfRange := &pq.Error{Code: "22003", Message: `value "3000000000" is out of range for type integer`}

	t.Run("update", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresProductRepository(db, quietLogger())

		mock.ExpectQuery("UPDATE products SET stock").
			WithArgs(3000000000, 1).
			WillReturnError(outOfRange)

		_, err := repo.UpdateProduct(context.Background(), 1, domain.ProductPatch{Stock: domain.Some(3000000000)})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "got %v", err)
	})

	t.Run("create", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewPostgresProductRepository(db, quietLogger())

		mock.ExpectQuery("INSERT INTO products").
			WillReturnError(&pq.Error{Code: "22003", Message: "numeric field overflow"})

		_, err := repo.CreateProduct(context.Background(), &domain.Product{
			Name:       "Tee",
			Price:      decimal.New(1, 11),
			CategoryID: 1,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrInvalidArgument), "got %v", err)
	})
}

func TestProductRepository_EmptyPatchReadsCurrent(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery("SELECT (.+) FROM products WHERE id").
		WithArgs(7).
		WillReturnRows(productRows().AddRow(7, "Tee", nil, "1000.00", 10, nil, 1, createdAt))

	product, err := repo.UpdateProduct(context.Background(), 7, domain.ProductPatch{})
	require.NoError(t, err)
	assert.Equal(t, 10, product.Stock)
}

func TestProductRepository_DeleteReferenced(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectExec("DELETE FROM products").WithArgs(7).WillReturnError(&pq.Error{Code: "23503"})

	err := repo.DeleteProduct(context.Background(), 7)
	assert.True(t, errors.Is(err, domain.ErrInUse))
}

func TestProductRepository_ListByCategory(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresProductRepository(db, quietLogger())

	mock.ExpectQuery("FROM products WHERE category_id = (.+) ORDER BY id").
		WithArgs(404).
		WillReturnRows(productRows())

	products, err := repo.ListProductsByCategory(context.Background(), 404)
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}
