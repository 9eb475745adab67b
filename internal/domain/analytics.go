package domain

import "github.com/shopspring/decimal"

type StoreSummary struct {
	ProductCount   int             `json:"product_count"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	LowStock       []Product       `json:"low_stock"`
}
