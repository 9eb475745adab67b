package usecase

import (
	"context"
	"fmt"

	"catalog_service/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type AnalyticsUseCase interface {
	Summary(ctx context.Context) (*domain.StoreSummary, error)
}

type analyticsUseCase struct {
	productRepo domain.ProductRepository
	log         *logrus.Logger
}

func NewAnalyticsUseCase(pRepo domain.ProductRepository, logger *logrus.Logger) AnalyticsUseCase {
	return &analyticsUseCase{
		productRepo: pRepo,
		log:         logger,
	}
}

// Summary is recomputed from the full product table on every call.
func (uc *analyticsUseCase) Summary(ctx context.Context) (*domain.StoreSummary, error) {
	products, err := uc.productRepo.ListProducts(ctx)
	if err != nil {
		uc.log.Errorf("Use Case: Could not load products for analytics: %v", err)
		return nil, fmt.Errorf("could not compute store summary: %w", err)
	}
	return Summarize(products), nil
}

func Summarize(products []domain.Product) *domain.StoreSummary {
	summary := &domain.StoreSummary{
		ProductCount:   len(products),
		InventoryValue: decimal.Zero,
		LowStock:       []domain.Product{},
	}
	for _, p := range products {
		summary.InventoryValue = summary.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.Stock))))
		if p.Stock < domain.LowStockThreshold {
			summary.LowStock = append(summary.LowStock, p)
		}
	}
	return summary
}
