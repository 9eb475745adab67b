package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

const productColumns = `id, name, description, price, stock, image_url, category_id, created_at`

type postgresProductRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductRepository(db *sql.DB, logger *logrus.Logger) domain.ProductRepository {
	return &postgresProductRepository{
		db:  db,
		log: logger,
	}
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	product := &domain.Product{}
	var description, imageURL sql.NullString
	err := row.Scan(
		&product.ID,
		&product.Name,
		&description,
		&product.Price,
		&product.Stock,
		&imageURL,
		&product.CategoryID,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	product.Description = stringPtr(description)
	product.ImageURL = stringPtr(imageURL)
	return product, nil
}

func (r *postgresProductRepository) constraintError(err error, name string, categoryID int) error {
	code, pqErr := pqErrorCode(err)
	switch code {
	case uniqueViolation:
		r.log.Warnf("Repository: Duplicate product name: %s", name)
		return fmt.Errorf("product with name '%s' %w", name, domain.ErrAlreadyExists)
	case foreignKeyViolation:
		r.log.Warnf("Repository: Product references non-existent category ID: %d", categoryID)
		return domain.NotFoundf("category with id %d", categoryID)
	case checkViolation:
		r.log.Warnf("Repository: Check constraint violation for product '%s': %s", name, pqErr.Message)
		return domain.InvalidArgumentf("product data constraint violation: %s", pqErr.Message)
	case numericOutOfRange:
		r.log.Warnf("Repository: Out of range value for product '%s': %s", name, pqErr.Message)
		return domain.InvalidArgumentf("product value out of range: %s", pqErr.Message)
	}
	return nil
}

func (r *postgresProductRepository) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, description, price, stock, image_url, category_id)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		product.Name,
		nullString(product.Description),
		product.Price,
		product.Stock,
		nullString(product.ImageURL),
		product.CategoryID,
	).Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if mapped := r.constraintError(err, product.Name, product.CategoryID); mapped != nil {
			return nil, mapped
		}
		r.log.Errorf("Repository: Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Repository: Product created with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductRepository) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found", id)
			return nil, domain.NotFoundf("product with id %d", id)
		}
		r.log.Errorf("Repository: Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	return product, nil
}

func (r *postgresProductRepository) UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.IsEmpty() {
		r.log.Infof("Repository: No fields provided for product update ID %d. Returning current product.", id)
		return r.GetProductByID(ctx, id)
	}

	setClauses := []string{}
	args := []interface{}{}
	set := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if name, ok := patch.Name.Get(); ok {
		set("name", name)
	}
	if description, ok := patch.Description.Get(); ok {
		set("description", clearable(description))
	}
	if price, ok := patch.Price.Get(); ok {
		set("price", price)
	}
	if stock, ok := patch.Stock.Get(); ok {
		set("stock", stock)
	}
	if imageURL, ok := patch.ImageURL.Get(); ok {
		set("image_url", clearable(imageURL))
	}
	args = append(args, id)
	query := "UPDATE products SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + productColumns

	r.log.Debugf("Repository: Executing partial update for product ID %d: %s", id, query)
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Product with ID %d not found for update", id)
			return nil, domain.NotFoundf("product with id %d", id)
		}
		name, _ := patch.Name.Get()
		if mapped := r.constraintError(err, name, 0); mapped != nil {
			return nil, mapped
		}
		r.log.Errorf("Repository: Failed to execute partial update for product ID %d: %v", id, err)
		return nil, fmt.Errorf("could not partially update product: %w", err)
	}

	r.log.Infof("Repository: Partial update successful for product ID %d", id)
	return product, nil
}

func (r *postgresProductRepository) DeleteProduct(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqErrorCode(err); code == foreignKeyViolation {
			r.log.Warnf("Repository: Refusing to delete product ID %d referenced by order items", id)
			return fmt.Errorf("product with id %d has order items and is %w", id, domain.ErrInUse)
		}
		r.log.Errorf("Repository: Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent product ID %d", id)
		return domain.NotFoundf("product with id %d", id)
	}
	r.log.Infof("Repository: Product deleted with ID: %d", id)
	return nil
}

func (r *postgresProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id ASC`
	return r.queryProducts(ctx, query)
}

func (r *postgresProductRepository) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE category_id = $1 ORDER BY id ASC`
	return r.queryProducts(ctx, query, categoryID)
}

func (r *postgresProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.log.Errorf("Repository: Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		products = append(products, *product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	r.log.Debugf("Repository: Retrieved %d products", len(products))
	return products, nil
}
