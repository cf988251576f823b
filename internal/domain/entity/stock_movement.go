package entity

import "time"

// Tipos de movimento de stock.
const (
	MovementEntrada = "entrada"
	MovementSaida   = "saida"
)

// StockMovement representa uma movimentação de stock. Imutável depois de
// criada. ProductName e Actor são snapshots: a movimentação sobrevive à
// remoção do produto ou do utilizador.
type StockMovement struct {
	ID            string
	CompanyID     string
	ProductID     string
	Type          string // entrada, saida
	QuantityMoved int64  // sempre positivo
	Date          time.Time
	ProductName   string
	Actor         Actor
}
