package memory

import (
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementação em memória do porto CompanyRepository.
type CompanyRepo struct {
	s    *Store
	inTx bool
}

func (r *CompanyRepo) Create(company *entity.Company) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	cp := *company
	r.s.d.companies[company.ID] = &cp
	return nil
}

func (r *CompanyRepo) GetByID(id string) (*entity.Company, error) {
	defer r.s.lock(r.inTx)()
	c, ok := r.s.d.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// GetForUpdate é igual a GetByID: o mutex global do Store já serializa as
// transações inteiras, não há linha a bloquear.
func (r *CompanyRepo) GetForUpdate(id string) (*entity.Company, error) {
	return r.GetByID(id)
}

func (r *CompanyRepo) Update(company *entity.Company) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	c, ok := r.s.d.companies[company.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c.Name = company.Name
	c.CNPJ = company.CNPJ
	return nil
}

func (r *CompanyRepo) SetOwner(id, ownerID string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	c, ok := r.s.d.companies[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.OwnerID = ownerID
	return nil
}

func (r *CompanyRepo) Delete(id string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	delete(r.s.d.companies, id)
	return nil
}
