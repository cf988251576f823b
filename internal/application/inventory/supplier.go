package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/watch"
)

// AddSupplier cria um fornecedor na empresa.
func (uc *UseCase) AddSupplier(companyID string, in dto.SupplierRequest, actor entity.Actor) (*entity.Supplier, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermEditProducts); err != nil {
		return nil, err
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier := &entity.Supplier{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      in.Name,
		Contact:   in.Contact,
		Phone:     in.Phone,
		CreatedAt: time.Now(),
	}
	if err := uc.suppliers.Create(supplier); err != nil {
		return nil, err
	}
	uc.audit.Record(companyID, actor, entity.ActionCriarFornecedor,
		fmt.Sprintf("Fornecedor %q foi criado.", supplier.Name))
	uc.notify(companyID, watch.TopicSuppliers)
	return supplier, nil
}

// UpdateSupplier atualiza um fornecedor. Os produtos que o referenciam
// mantêm o nome desnormalizado antigo até serem editados.
func (uc *UseCase) UpdateSupplier(companyID, supplierID string, in dto.SupplierRequest, actor entity.Actor) (*entity.Supplier, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermEditProducts); err != nil {
		return nil, err
	}
	supplier, err := uc.suppliers.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	supplier.Name = in.Name
	supplier.Contact = in.Contact
	supplier.Phone = in.Phone
	if err := uc.suppliers.Update(supplier); err != nil {
		return nil, err
	}
	uc.audit.Record(companyID, actor, entity.ActionEditarFornecedor,
		fmt.Sprintf("Fornecedor %q (ID: %s) foi atualizado.", supplier.Name, supplier.ID))
	uc.notify(companyID, watch.TopicSuppliers)
	return supplier, nil
}

// DeleteSupplier apaga um fornecedor.
func (uc *UseCase) DeleteSupplier(companyID, supplierID string, actor entity.Actor) error {
	if err := uc.requirePermission(actor, companyID, policy.PermEditProducts); err != nil {
		return err
	}
	supplier, err := uc.suppliers.GetByID(supplierID)
	if err != nil {
		return err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if err := uc.suppliers.Delete(supplierID); err != nil {
		return err
	}
	uc.audit.Record(companyID, actor, entity.ActionApagarFornecedor,
		fmt.Sprintf("Fornecedor %q (ID: %s) foi apagado.", supplier.Name, supplier.ID))
	uc.notify(companyID, watch.TopicSuppliers)
	return nil
}

// ListSuppliers lista os fornecedores da empresa.
func (uc *UseCase) ListSuppliers(companyID string, actor entity.Actor) ([]*entity.Supplier, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermViewProducts); err != nil {
		return nil, err
	}
	return uc.suppliers.ListByCompany(companyID)
}
