package memory

import (
	"sort"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementação em memória do porto ProductRepository.
type ProductRepo struct {
	s    *Store
	inTx bool
}

func (r *ProductRepo) Create(product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	cp := *product
	r.s.d.products[product.ID] = &cp
	return nil
}

func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	p, ok := r.s.d.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// GetForUpdate é igual a GetByID: uma transação em memória segura o mutex
// global, por isso a linha já está efetivamente bloqueada.
func (r *ProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *ProductRepo) Update(product *entity.Product) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	p, ok := r.s.d.products[product.ID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Name = product.Name
	p.SKU = product.SKU
	p.CostPrice = product.CostPrice
	p.SupplierID = product.SupplierID
	p.SupplierName = product.SupplierName
	return nil
}

func (r *ProductRepo) UpdateQuantity(id string, quantity int64) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	p, ok := r.s.d.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.Quantity = quantity
	return nil
}

func (r *ProductRepo) Delete(id string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	delete(r.s.d.products, id)
	return nil
}

func (r *ProductRepo) ListByCompany(companyID string) ([]*entity.Product, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Product
	for _, p := range r.s.d.products {
		if p.CompanyID == companyID {
			cp := *p
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
