package domain

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold is the stock level below which a product is reported as running out.
const LowStockThreshold = 5

// Column limits of products.stock (INTEGER) and products.price (NUMERIC(12,2)).
const (
	MaxStock   = math.MaxInt32
	PriceScale = 2
)

var MaxPrice = decimal.RequireFromString("9999999999.99")

type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	ImageURL    *string         `json:"image_url"`
	CategoryID  int             `json:"category_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ProductPatch is a sparse update. Category reassignment is not part of it.
type ProductPatch struct {
	Name        Optional[string]
	Description Optional[string]
	Price       Optional[decimal.Decimal]
	Stock       Optional[int]
	ImageURL    Optional[string]
}

func (p ProductPatch) IsEmpty() bool {
	return !p.Name.IsSet() && !p.Description.IsSet() && !p.Price.IsSet() &&
		!p.Stock.IsSet() && !p.ImageURL.IsSet()
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProductByID(ctx context.Context, id int) (*Product, error)
	UpdateProduct(ctx context.Context, id int, patch ProductPatch) (*Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context) ([]Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]Product, error)
}
