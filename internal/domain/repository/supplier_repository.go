package repository

import "github.com/intellistock/api/internal/domain/entity"

// SupplierRepository porto de persistência para fornecedores.
type SupplierRepository interface {
	Create(supplier *entity.Supplier) error
	GetByID(id string) (*entity.Supplier, error)
	Update(supplier *entity.Supplier) error
	Delete(id string) error
	ListByCompany(companyID string) ([]*entity.Supplier, error)
}
