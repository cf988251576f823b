package repository

import "github.com/intellistock/api/internal/domain/entity"

// CompanyRepository porto de persistência para empresas.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	// GetForUpdate obtém a empresa bloqueando a linha até ao fim da
	// transação. Transferência, remoção de membro, alteração de função e
	// remoção da empresa começam por este bloqueio para que nunca se
	// intercalem sobre a mesma empresa.
	GetForUpdate(id string) (*entity.Company, error)
	Update(company *entity.Company) error
	SetOwner(id, ownerID string) error
	Delete(id string) error
}
