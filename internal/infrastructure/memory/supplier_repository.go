package memory

import (
	"sort"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.SupplierRepository = (*SupplierRepo)(nil)

// SupplierRepo implementação em memória do porto SupplierRepository.
type SupplierRepo struct {
	s    *Store
	inTx bool
}

func (r *SupplierRepo) Create(supplier *entity.Supplier) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	cp := *supplier
	r.s.d.suppliers[supplier.ID] = &cp
	return nil
}

func (r *SupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	defer r.s.lock(r.inTx)()
	s, ok := r.s.d.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *SupplierRepo) Update(supplier *entity.Supplier) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	s, ok := r.s.d.suppliers[supplier.ID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Name = supplier.Name
	s.Contact = supplier.Contact
	s.Phone = supplier.Phone
	return nil
}

func (r *SupplierRepo) Delete(id string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	delete(r.s.d.suppliers, id)
	return nil
}

func (r *SupplierRepo) ListByCompany(companyID string) ([]*entity.Supplier, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.Supplier
	for _, s := range r.s.d.suppliers {
		if s.CompanyID == companyID {
			cp := *s
			list = append(list, &cp)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}
