package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest dados para criar um produto. A quantidade inicial é
// sempre zero, independentemente do que o cliente envie; o stock só entra
// por movimentação.
type CreateProductRequest struct {
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	CostPrice  decimal.Decimal `json:"costPrice"`
	SupplierID string          `json:"supplierId"`
}

// UpdateProductRequest dados para atualizar um produto (substituição de campos).
type UpdateProductRequest struct {
	Name       string          `json:"name"`
	SKU        string          `json:"sku"`
	CostPrice  decimal.Decimal `json:"costPrice"`
	SupplierID string          `json:"supplierId"`
}

// ProductResponse representação de um produto.
type ProductResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Quantity     int64           `json:"quantity"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SupplierID   string          `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	CreatedAt    time.Time       `json:"createdAt"`
}
