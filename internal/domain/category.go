package domain

import (
	"context"
	"time"
)

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// CategoryPatch is a sparse update; an empty Description clears it.
type CategoryPatch struct {
	Name        Optional[string]
	Description Optional[string]
}

func (p CategoryPatch) IsEmpty() bool {
	return !p.Name.IsSet() && !p.Description.IsSet()
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *Category) (*Category, error)
	GetCategoryByID(ctx context.Context, id int) (*Category, error)
	UpdateCategory(ctx context.Context, id int, patch CategoryPatch) (*Category, error)
	DeleteCategory(ctx context.Context, id int) error
	ListCategories(ctx context.Context) ([]Category, error)
}
