package usecase

import (
	"context"
	"fmt"
	"strings"

	"catalog_service/internal/domain"

	"github.com/sirupsen/logrus"
)

type OrderUseCase interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id int) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id int, patch domain.OrderPatch) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id int) error
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

type orderUseCase struct {
	orderRepo domain.OrderRepository
	log       *logrus.Logger
}

func NewOrderUseCase(repo domain.OrderRepository, logger *logrus.Logger) OrderUseCase {
	return &orderUseCase{
		orderRepo: repo,
		log:       logger,
	}
}

func (uc *orderUseCase) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.CustomerName = strings.TrimSpace(order.CustomerName)
	if order.CustomerName == "" {
		uc.log.Warn("Use Case: Attempted to create order without customer name")
		return nil, domain.InvalidArgumentf("customer name cannot be empty")
	}
	if order.Status == "" {
		order.Status = domain.StatusPending
	}

	createdOrder, err := uc.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to create order for '%s': %v", order.CustomerName, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order created successfully with ID %d for '%s'", createdOrder.ID, createdOrder.CustomerName)
	return createdOrder, nil
}

func (uc *orderUseCase) GetOrderByID(ctx context.Context, id int) (*domain.Order, error) {
	order, err := uc.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		uc.log.Warnf("Use Case: Repository failed to get order ID %d: %v", id, err)
		return nil, err
	}
	return order, nil
}

// UpdateOrder treats status as free text; only an empty value is rejected.
func (uc *orderUseCase) UpdateOrder(ctx context.Context, id int, patch domain.OrderPatch) (*domain.Order, error) {
	if status, ok := patch.Status.Get(); ok {
		status = domain.OrderStatus(strings.TrimSpace(string(status)))
		if status == "" {
			uc.log.Warnf("Use Case: Empty status provided for order ID %d", id)
			return nil, domain.InvalidArgumentf("order status cannot be empty if provided for update")
		}
		patch.Status = domain.Some(status)
	}

	updatedOrder, err := uc.orderRepo.UpdateOrder(ctx, id, patch)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to update order ID %d: %v", id, err)
		return nil, err
	}

	uc.log.Infof("Use Case: Order %d updated, status '%s'", updatedOrder.ID, updatedOrder.Status)
	return updatedOrder, nil
}

func (uc *orderUseCase) DeleteOrder(ctx context.Context, id int) error {
	if err := uc.orderRepo.DeleteOrder(ctx, id); err != nil {
		uc.log.Warnf("Use Case: Repository failed to delete order ID %d: %v", id, err)
		return err
	}
	uc.log.Infof("Use Case: Order deleted successfully for ID %d", id)
	return nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := uc.orderRepo.ListOrders(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Repository failed to list orders: %v", err)
		return nil, fmt.Errorf("could not retrieve orders: %w", err)
	}
	return orders, nil
}
