package repository

import "github.com/intellistock/api/internal/domain/entity"

// StockMovementRepository porto de persistência para movimentações de stock.
// Movimentações são imutáveis: só há criação e listagem.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	ListByCompany(companyID string) ([]*entity.StockMovement, error)
}
