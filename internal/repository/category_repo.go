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

const categoryColumns = `id, name, description, created_at`

type postgresCategoryRepository struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresCategoryRepository(db *sql.DB, logger *logrus.Logger) domain.CategoryRepository {
	return &postgresCategoryRepository{
		db:  db,
		log: logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCategory(row rowScanner) (*domain.Category, error) {
	category := &domain.Category{}
	var description sql.NullString
	if err := row.Scan(&category.ID, &category.Name, &description, &category.CreatedAt); err != nil {
		return nil, err
	}
	category.Description = stringPtr(description)
	return category, nil
}

func (r *postgresCategoryRepository) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, category.Name, nullString(category.Description)).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		if code, _ := pqErrorCode(err); code == uniqueViolation {
			r.log.Warnf("Repository: Attempted to create category with duplicate name: %s", category.Name)
			return nil, fmt.Errorf("category with name '%s' %w", category.Name, domain.ErrAlreadyExists)
		}
		r.log.Errorf("Repository: Failed to create category '%s': %v", category.Name, err)
		return nil, fmt.Errorf("could not create category: %w", err)
	}
	r.log.Infof("Repository: Category created with ID: %d, Name: %s", category.ID, category.Name)
	return category, nil
}

func (r *postgresCategoryRepository) GetCategoryByID(ctx context.Context, id int) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found", id)
			return nil, domain.NotFoundf("category with id %d", id)
		}
		r.log.Errorf("Repository: Failed to get category by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get category by id: %w", err)
	}
	return category, nil
}

func (r *postgresCategoryRepository) UpdateCategory(ctx context.Context, id int, patch domain.CategoryPatch) (*domain.Category, error) {
	if patch.IsEmpty() {
		r.log.Infof("Repository: No fields provided for category update ID %d. Returning current category.", id)
		return r.GetCategoryByID(ctx, id)
	}

	setClauses := []string{}
	args := []interface{}{}
	if name, ok := patch.Name.Get(); ok {
		args = append(args, name)
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", len(args)))
	}
	if description, ok := patch.Description.Get(); ok {
		args = append(args, clearable(description))
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", len(args)))
	}
	args = append(args, id)
	query := "UPDATE categories SET " + strings.Join(setClauses, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + categoryColumns

	r.log.Debugf("Repository: Executing partial update for category ID %d: %s", id, query)
	category, err := scanCategory(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if code, _ := pqErrorCode(err); code == uniqueViolation {
			name, _ := patch.Name.Get()
			r.log.Warnf("Repository: Attempted to update category ID %d with duplicate name: %s", id, name)
			return nil, fmt.Errorf("category with name '%s' %w", name, domain.ErrAlreadyExists)
		}
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Repository: Category with ID %d not found for update", id)
			return nil, domain.NotFoundf("category with id %d", id)
		}
		r.log.Errorf("Repository: Failed to update category ID %d: %v", id, err)
		return nil, fmt.Errorf("could not update category: %w", err)
	}
	r.log.Infof("Repository: Category updated with ID: %d", id)
	return category, nil
}

func (r *postgresCategoryRepository) DeleteCategory(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if code, _ := pqErrorCode(err); code == foreignKeyViolation {
			r.log.Warnf("Repository: Refusing to delete category ID %d that still has products", id)
			return fmt.Errorf("category with id %d has products and is %w", id, domain.ErrInUse)
		}
		r.log.Errorf("Repository: Failed to delete category ID %d: %v", id, err)
		return fmt.Errorf("could not delete category: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Repository: Failed to get rows affected after deleting category ID %d: %v", id, err)
		return fmt.Errorf("could not confirm category deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Repository: Attempted to delete non-existent category ID %d", id)
		return domain.NotFoundf("category with id %d", id)
	}

	r.log.Infof("Repository: Category deleted with ID: %d", id)
	return nil
}

func (r *postgresCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY id ASC`)
	if err != nil {
		r.log.Errorf("Repository: Failed to list categories: %v", err)
		return nil, fmt.Errorf("could not list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			r.log.Errorf("Repository: Failed to scan category row: %v", err)
			return nil, fmt.Errorf("error scanning category data: %w", err)
		}
		categories = append(categories, *category)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Repository: Error during categories list iteration: %v", err)
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	r.log.Debugf("Repository: Retrieved %d categories", len(categories))
	return categories, nil
}
