package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa um produto do inventário de uma empresa.
// Quantity nunca é negativa e só muda dentro da unidade transacional de
// movimentação de stock. SupplierName é desnormalizado de propósito: o
// histórico continua legível se o fornecedor mudar ou for apagado.
type Product struct {
	ID           string
	CompanyID    string
	Name         string
	SKU          string
	Quantity     int64
	CostPrice    decimal.Decimal
	SupplierID   string
	SupplierName string
	CreatedAt    time.Time
}
