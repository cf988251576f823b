package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementação do porto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository constrói o adaptador de empresas. Aceita pool ou tx.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

// Create persiste uma empresa nova.
func (r *CompanyRepo) Create(company *entity.Company) error {
	query := `
		INSERT INTO companies (id, name, cnpj, owner_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(context.Background(), query,
		company.ID, company.Name, company.CNPJ, company.OwnerID, company.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtém uma empresa por ID.
func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	return r.scanOne(`SELECT id, name, cnpj, owner_id, created_at FROM companies WHERE id = $1`, id)
}

// GetForUpdate obtém a empresa bloqueando a linha (SELECT FOR UPDATE) até
// ao fim da transação; é este bloqueio que serializa transferências de
// propriedade com remoções e alterações de função na mesma empresa.
func (r *CompanyRepo) GetForUpdate(id string) (*entity.Company, error) {
	return r.scanOne(`SELECT id, name, cnpj, owner_id, created_at FROM companies WHERE id = $1 FOR UPDATE`, id)
}

func (r *CompanyRepo) scanOne(query, id string) (*entity.Company, error) {
	var c entity.Company
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&c.ID, &c.Name, &c.CNPJ, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}

// Update atualiza nome e CNPJ (last-write-wins).
func (r *CompanyRepo) Update(company *entity.Company) error {
	query := `UPDATE companies SET name = $2, cnpj = $3 WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query, company.ID, company.Name, company.CNPJ)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	return nil
}

// SetOwner muda o dono da empresa.
func (r *CompanyRepo) SetOwner(id, ownerID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE companies SET owner_id = $2 WHERE id = $1`, id, ownerID)
	if err != nil {
		return fmt.Errorf("set owner: %w", err)
	}
	return nil
}

// Delete apaga a empresa.
func (r *CompanyRepo) Delete(id string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM companies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete company: %w", err)
	}
	return nil
}
