// Package inventory implementa o motor de inventário: CRUD de produtos e
// fornecedores e a aplicação transacional de movimentações de stock.
package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/intellistock/api/internal/application/audit"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
)

// UseCase casos de uso de inventário de uma empresa.
type UseCase struct {
	tx        repository.TxRunner
	users     repository.UserRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	movements repository.StockMovementRepository
	audit     *audit.Recorder
	events    *watch.Broker
}

// NewUseCase constrói o motor de inventário. events pode ser nil.
func NewUseCase(
	tx repository.TxRunner,
	users repository.UserRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	movements repository.StockMovementRepository,
	recorder *audit.Recorder,
	events *watch.Broker,
) *UseCase {
	return &UseCase{
		tx:        tx,
		users:     users,
		products:  products,
		suppliers: suppliers,
		movements: movements,
		audit:     recorder,
		events:    events,
	}
}

// roleOf devolve a função do ator na empresa, verificada na base de dados.
// A política é aplicada aqui, no motor, e não apenas no middleware HTTP.
func (uc *UseCase) roleOf(actor entity.Actor, companyID string) (string, error) {
	user, err := uc.users.GetByUID(actor.UID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", domain.ErrUserNotFound
	}
	role := user.RoleIn(companyID)
	if role == "" {
		return "", domain.ErrForbidden
	}
	return role, nil
}

func (uc *UseCase) requirePermission(actor entity.Actor, companyID, permission string) error {
	role, err := uc.roleOf(actor, companyID)
	if err != nil {
		return err
	}
	if !policy.Allows(role, permission) {
		return domain.ErrForbidden
	}
	return nil
}

func (uc *UseCase) notify(companyID string, topics ...string) {
	if uc.events == nil {
		return
	}
	for _, t := range topics {
		uc.events.Notify(companyID, t)
	}
}

// AddProduct cria um produto. A quantidade inicial é forçada a zero: stock
// só entra por movimentação. O fornecedor tem de existir na empresa e o
// nome é desnormalizado no produto.
func (uc *UseCase) AddProduct(companyID string, in dto.CreateProductRequest, actor entity.Actor) (*entity.Product, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermMoveStock); err != nil {
		return nil, err
	}
	if in.Name == "" || in.SKU == "" || in.SupplierID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.suppliers.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil || supplier.CompanyID != companyID {
		return nil, domain.ErrInvalidInput
	}

	product := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         in.Name,
		SKU:          in.SKU,
		Quantity:     0,
		CostPrice:    in.CostPrice,
		SupplierID:   supplier.ID,
		SupplierName: supplier.Name,
		CreatedAt:    time.Now(),
	}
	if err := uc.products.Create(product); err != nil {
		return nil, err
	}
	uc.audit.Record(companyID, actor, entity.ActionCriarProduto,
		fmt.Sprintf("Produto %q (SKU: %s) foi criado.", product.Name, product.SKU))
	uc.notify(companyID, watch.TopicProducts)
	return product, nil
}

// UpdateProduct substitui os campos editáveis do produto. A quantidade não
// passa por aqui: só muda dentro de ApplyStockMovement.
func (uc *UseCase) UpdateProduct(companyID, productID string, in dto.UpdateProductRequest, actor entity.Actor) (*entity.Product, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermEditProducts); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" || in.SKU == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.CostPrice.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if in.SupplierID != "" && in.SupplierID != product.SupplierID {
		supplier, err := uc.suppliers.GetByID(in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil || supplier.CompanyID != companyID {
			return nil, domain.ErrInvalidInput
		}
		product.SupplierID = supplier.ID
		product.SupplierName = supplier.Name
	}
	product.Name = in.Name
	product.SKU = in.SKU
	product.CostPrice = in.CostPrice
	if err := uc.products.Update(product); err != nil {
		return nil, err
	}
	uc.audit.Record(companyID, actor, entity.ActionEditarProduto,
		fmt.Sprintf("Produto %q (ID: %s) foi atualizado.", product.Name, product.ID))
	uc.notify(companyID, watch.TopicProducts)
	return product, nil
}

// DeleteProduct apaga o produto. As movimentações históricas não são
// apagadas: guardam o nome do produto desnormalizado.
func (uc *UseCase) DeleteProduct(companyID, productID string, actor entity.Actor) error {
	if err := uc.requirePermission(actor, companyID, policy.PermEditProducts); err != nil {
		return err
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || product.CompanyID != companyID {
		return domain.ErrNotFound
	}
	if err := uc.products.Delete(productID); err != nil {
		return err
	}
	uc.audit.Record(companyID, actor, entity.ActionApagarProduto,
		fmt.Sprintf("Produto %q (ID: %s) foi apagado.", product.Name, product.ID))
	uc.notify(companyID, watch.TopicProducts)
	return nil
}

// GetProduct devolve um produto da empresa.
func (uc *UseCase) GetProduct(companyID, productID string, actor entity.Actor) (*entity.Product, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermViewProducts); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

// ListProducts lista os produtos da empresa.
func (uc *UseCase) ListProducts(companyID string, actor entity.Actor) ([]*entity.Product, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermViewProducts); err != nil {
		return nil, err
	}
	return uc.products.ListByCompany(companyID)
}

// ListMovements lista as movimentações de stock da empresa.
func (uc *UseCase) ListMovements(companyID string, actor entity.Actor) ([]*entity.StockMovement, error) {
	if err := uc.requirePermission(actor, companyID, policy.PermViewProducts); err != nil {
		return nil, err
	}
	return uc.movements.ListByCompany(companyID)
}
