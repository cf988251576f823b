package repository

import "github.com/intellistock/api/internal/domain/entity"

// ProductRepository porto de persistência para produtos.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	// GetForUpdate lê o produto bloqueando a linha até ao fim da transação.
	// Fora de uma transação comporta-se como GetByID.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateQuantity(id string, quantity int64) error
	Delete(id string) error
	ListByCompany(companyID string) ([]*entity.Product, error)
}
