package grpc

import (
	"context"
	"errors"
	"math"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type CatalogHandler struct {
	analyticsUseCase usecase.AnalyticsUseCase
	orderItemUseCase usecase.OrderItemUseCase
	log              *logrus.Logger
}

func NewCatalogHandler(auc usecase.AnalyticsUseCase, iuc usecase.OrderItemUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		analyticsUseCase: auc,
		orderItemUseCase: iuc,
		log:              logger,
	}
}

func (h *CatalogHandler) GetSummary(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	h.log.Info("gRPC Handler: Received GetSummary request")
	summary, err := h.analyticsUseCase.Summary(ctx)
	if err != nil {
		h.log.Errorf("gRPC Handler: GetSummary use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	lowStock := make([]interface{}, 0, len(summary.LowStock))
	for _, p := range summary.LowStock {
		lowStock = append(lowStock, map[string]interface{}{
			"id":    p.ID,
			"name":  p.Name,
			"stock": p.Stock,
		})
	}
	resp, err := structpb.NewStruct(map[string]interface{}{
		"product_count":   summary.ProductCount,
		"inventory_value": summary.InventoryValue.StringFixed(2),
		"low_stock":       lowStock,
	})
	if err != nil {
		h.log.Errorf("gRPC Handler: Failed to encode summary: %v", err)
		return nil, status.Error(codes.Internal, "failed to encode summary")
	}
	return resp, nil
}

func (h *CatalogHandler) PlaceOrderItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var args [3]int
	for i, key := range []string{"order_id", "product_id", "quantity"} {
		n, err := intField(req, key)
		if err != nil {
			h.log.Warnf("gRPC Handler: Invalid PlaceOrderItem request: %v", err)
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		args[i] = n
	}
	orderID, productID, quantity := args[0], args[1], args[2]
	h.log.Infof("gRPC Handler: Received PlaceOrderItem request: Order=%d Product=%d Qty=%d", orderID, productID, quantity)

	item, err := h.orderItemUseCase.CreateOrderItem(ctx, orderID, productID, quantity)
	if err != nil {
		h.log.Warnf("gRPC Handler: PlaceOrderItem use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	resp, err := structpb.NewStruct(map[string]interface{}{
		"order_item_id":     item.ID,
		"price_at_purchase": item.PriceAtPurchase.StringFixed(2),
	})
	if err != nil {
		return nil, status.Error(codes.Internal, "failed to encode order item")
	}
	return resp, nil
}

// intField reads a whole number from a Struct field. JSON-style numbers arrive as float64.
func intField(s *structpb.Struct, key string) (int, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, domain.InvalidArgumentf("%s is required", key)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
		return 0, domain.InvalidArgumentf("%s must be an integer", key)
	}
	return int(n.NumberValue), nil
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
}
