package usecase

import (
	"context"
	"fmt"
	"strings"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type ProductUseCase interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context) ([]domain.Product, error)
	ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error)
}

type productUseCase struct {
	productRepo  domain.ProductRepository
	categoryRepo domain.CategoryRepository
	log          *logrus.Logger
}

func NewProductUseCase(pRepo domain.ProductRepository, cRepo domain.CategoryRepository, logger *logrus.Logger) ProductUseCase {
	return &productUseCase{
		productRepo:  pRepo,
		categoryRepo: cRepo,
		log:          logger,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		uc.log.Warn("Use Case: Attempted to create product with empty name")
		return nil, domain.InvalidArgumentf("product name cannot be empty")
	}
	product.Price = product.Price.Round(domain.PriceScale)
	if err := checkPrice(product.Price); err != nil {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with bad price %s: %v", product.Name, product.Price, err)
		return nil, err
	}
	if err := checkStock(product.Stock); err != nil {
		uc.log.Warnf("Use Case: Attempted to create product '%s' with bad stock %d: %v", product.Name, product.Stock, err)
		return nil, err
	}
	if _, err := uc.categoryRepo.GetCategoryByID(ctx, product.CategoryID); err != nil {
		uc.log.Warnf("Use Case: Category ID %d not usable for product creation: %v", product.CategoryID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Attempting to create product '%s'", product.Name)
	createdProduct, err := uc.productRepo.CreateProduct(ctx, product)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product '%s' created successfully with ID %d", createdProduct.Name, createdProduct.ID)
	return createdProduct, nil
}

func (uc *productUseCase) GetProductByID(ctx context.Context, id int) (*domain.Product, error) {
	product, err := uc.productRepo.GetProductByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get product ID %d: %v", id, err)
		return nil, err
	}
	return product, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id int, patch domain.ProductPatch) (*domain.Product, error) {
	if name, ok := patch.Name.Get(); ok {
		name = strings.TrimSpace(name)
		if name == "" {
			uc.log.Warnf("Use Case: Empty 'name' provided for update ID %d", id)
			return nil, domain.InvalidArgumentf("product name cannot be empty if provided for update")
		}
		patch.Name = domain.Some(name)
	}
	if price, ok := patch.Price.Get(); ok {
		price = price.Round(domain.PriceScale)
		if err := checkPrice(price); err != nil {
			uc.log.Warnf("Use Case: Bad 'price' provided for update ID %d: %v", id, err)
			return nil, err
		}
		patch.Price = domain.Some(price)
	}
	if stock, ok := patch.Stock.Get(); ok {
		if err := checkStock(stock); err != nil {
			uc.log.Warnf("Use Case: Bad 'stock' provided for update ID %d: %v", id, err)
			return nil, err
		}
	}

	uc.log.Infof("Use Case: Attempting partial update for product ID %d", id)
	updatedProduct, err := uc.productRepo.UpdateProduct(ctx, id, patch)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed partial update for product ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Product updated successfully for ID %d", updatedProduct.ID)
	return updatedProduct, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int) error {
	uc.log.Infof("Use Case: Attempting to delete product ID %d", id)
	if err := uc.productRepo.DeleteProduct(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete product ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Product deleted successfully for ID %d", id)
	return nil
}

func (uc *productUseCase) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products: %v", err)
		return nil, fmt.Errorf("could not retrieve products: %w", err)
	}
	uc.log.Debugf("Use Case: Retrieved %d products", len(products))
	return products, nil
}

// ListProductsByCategory does not check that the category exists; an unknown
// category yields an empty list.
func (uc *productUseCase) ListProductsByCategory(ctx context.Context, categoryID int) ([]domain.Product, error) {
	products, err := uc.productRepo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list products for category %d: %v", categoryID, err)
		return nil, fmt.Errorf("could not retrieve products for category %d: %w", categoryID, err)
	}
	uc.log.Debugf("Use Case: Retrieved %d products for category %d", len(products), categoryID)
	return products, nil
}

// checkPrice expects a price already rounded to PriceScale.
func checkPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return domain.InvalidArgumentf("product price cannot be negative")
	}
	if price.GreaterThan(domain.MaxPrice) {
		return domain.InvalidArgumentf("product price cannot exceed %s", domain.MaxPrice.StringFixed(domain.PriceScale))
	}
	return nil
}

func checkStock(stock int) error {
	if stock < 0 {
		return domain.InvalidArgumentf("product stock cannot be negative")
	}
	if stock > domain.MaxStock {
		return domain.InvalidArgumentf("product stock cannot exceed %d", domain.MaxStock)
	}
	return nil
}
