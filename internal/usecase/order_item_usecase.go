package usecase

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderItemUseCase interface {
	CreateOrderItem(ctx context.Context, orderID, productID, quantity int) (*domain.OrderItem, error)
	GetOrderItemByID(ctx context.Context, id int) (*domain.OrderItem, error)
	ListOrderItems(ctx context.Context) ([]domain.OrderItem, error)
}

type orderItemUseCase struct {
	itemRepo    domain.OrderItemRepository
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewOrderItemUseCase(iRepo domain.OrderItemRepository, oRepo domain.OrderRepository, pRepo domain.ProductRepository, logger *logrus.Logger) OrderItemUseCase {
	return &orderItemUseCase{
		itemRepo:    iRepo,
		orderRepo:   oRepo,
		productRepo: pRepo,
		log:         logger,
	}
}

// CreateOrderItem checks, in order: the order exists, the product exists, the
// quantity is positive, and stock covers it. Nothing is written until all pass.
// The stock check is repeated atomically by the repository, which is what
// actually guards against concurrent placements.
func (uc *orderItemUseCase) CreateOrderItem(ctx context.Context, orderID, productID, quantity int) (*domain.OrderItem, error) {
	if _, err := uc.orderRepo.GetOrderByID(ctx, orderID); err != nil {
		uc.log.Warnf("Use Case: Order %d not usable for new item: %v", orderID, err)
		return nil, err
	}

	product, err := uc.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		uc.log.Warnf("Use Case: Product %d not usable for new item: %v", productID, err)
		return nil, err
	}

	if quantity <= 0 {
		uc.log.Warnf("Use Case: Non-positive quantity %d requested for product %d", quantity, productID)
		return nil, domain.InvalidArgumentf("quantity must be greater than zero")
	}

	if product.Stock < quantity {
		uc.log.Warnf("Use Case: Insufficient stock for product %d (requested %d, available %d)", productID, quantity, product.Stock)
		return nil, fmt.Errorf("product %d has %d in stock, requested %d: %w", productID, product.Stock, quantity, domain.ErrInsufficientStock)
	}

	item, err := uc.itemRepo.PlaceOrderItem(ctx, &domain.OrderItem{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		uc.log.Warnf("Use Case: Placing item for order %d failed: %v", orderID, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order item %d added to order %d (product %d x%d at %s)",
		item.ID, orderID, productID, quantity, item.PriceAtPurchase.StringFixed(2))
	return item, nil
}

func (uc *orderItemUseCase) GetOrderItemByID(ctx context.Context, id int) (*domain.OrderItem, error) {
	item, err := uc.itemRepo.GetOrderItemByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get order item ID %d: %v", id, err)
		return nil, err
	}
	return item, nil
}

func (uc *orderItemUseCase) ListOrderItems(ctx context.Context) ([]domain.OrderItem, error) {
	items, err := uc.itemRepo.ListOrderItems(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list order items: %v", err)
		return nil, fmt.Errorf("could not retrieve order items: %w", err)
	}
	return items, nil
}
