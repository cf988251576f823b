package postgres

import (
	"context"
	"fmt"

	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementação do porto StockMovementRepository sobre
// PostgreSQL. Movimentações são imutáveis: só insert e listagem.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository constrói o adaptador de movimentações.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste uma movimentação com os snapshots de produto e ator.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, company_id, product_id, type, quantity_moved, date, product_name, actor_uid, actor_name, actor_email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.CompanyID, m.ProductID, m.Type, m.QuantityMoved, m.Date,
		m.ProductName, m.Actor.UID, m.Actor.DisplayName, m.Actor.Email)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// ListByCompany lista as movimentações da empresa, da mais recente para a
// mais antiga.
func (r *StockMovementRepo) ListByCompany(companyID string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, company_id, product_id, type, quantity_moved, date, product_name, actor_uid, actor_name, actor_email
		FROM stock_movements
		WHERE company_id = $1
		ORDER BY date DESC`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.Type, &m.QuantityMoved, &m.Date,
			&m.ProductName, &m.Actor.UID, &m.Actor.DisplayName, &m.Actor.Email); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
