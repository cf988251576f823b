package dto

import (
	"time"

	"github.com/intellistock/api/internal/domain/entity"
)

// StockMovementRequest dados para aplicar uma movimentação de stock.
type StockMovementRequest struct {
	ProductID     string `json:"productId"`
	Type          string `json:"type"` // entrada | saida
	QuantityMoved int64  `json:"quantityMoved"`
}

// StockMovementResponse representação de uma movimentação.
type StockMovementResponse struct {
	ID            string       `json:"id"`
	ProductID     string       `json:"productId"`
	Type          string       `json:"type"`
	QuantityMoved int64        `json:"quantityMoved"`
	Date          time.Time    `json:"date"`
	ProductName   string       `json:"productName"`
	User          entity.Actor `json:"user"`
}
