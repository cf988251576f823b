package memory

import (
	"sort"

	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementação em memória do porto ActivityLogRepository.
type ActivityLogRepo struct {
	s    *Store
	inTx bool
}

func (r *ActivityLogRepo) Create(l *entity.ActivityLog) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	cp := *l
	r.s.d.logs = append(r.s.d.logs, &cp)
	return nil
}

func (r *ActivityLogRepo) ListByCompany(companyID string) ([]*entity.ActivityLog, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.ActivityLog
	for _, l := range r.s.d.logs {
		if l.CompanyID == companyID {
			cp := *l
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Timestamp.After(list[j].Timestamp) })
	return list, nil
}
