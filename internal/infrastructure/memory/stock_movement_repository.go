package memory

import (
	"sort"

	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementação em memória do porto StockMovementRepository.
type StockMovementRepo struct {
	s    *Store
	inTx bool
}

func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	cp := *m
	r.s.d.movements = append(r.s.d.movements, &cp)
	return nil
}

func (r *StockMovementRepo) ListByCompany(companyID string) ([]*entity.StockMovement, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.StockMovement
	for _, m := range r.s.d.movements {
		if m.CompanyID == companyID {
			cp := *m
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.After(list[j].Date) })
	return list, nil
}
