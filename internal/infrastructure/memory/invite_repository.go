package memory

import (
	"sort"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo implementação em memória do porto InviteRepository.
type InviteRepo struct {
	s    *Store
	inTx bool
}

func (r *InviteRepo) Create(invite *entity.Invite) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	for _, i := range r.s.d.invites {
		if i.Email == invite.Email && i.CompanyID == invite.CompanyID {
			return domain.ErrDuplicateInvite
		}
	}
	cp := *invite
	r.s.d.invites[invite.ID] = &cp
	return nil
}

func (r *InviteRepo) GetByID(id string) (*entity.Invite, error) {
	defer r.s.lock(r.inTx)()
	i, ok := r.s.d.invites[id]
	if !ok {
		return nil, nil
	}
	cp := *i
	return &cp, nil
}

// Delete devolve ErrInviteNotFound quando o convite já foi consumido, tal
// como o adaptador PostgreSQL devolve quando o DELETE não afeta linhas.
func (r *InviteRepo) Delete(id string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	if _, ok := r.s.d.invites[id]; !ok {
		return domain.ErrInviteNotFound
	}
	delete(r.s.d.invites, id)
	return nil
}

func (r *InviteRepo) ListByCompany(companyID string) ([]*entity.Invite, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(i *entity.Invite) bool { return i.CompanyID == companyID }), nil
}

func (r *InviteRepo) ListByEmail(email string) ([]*entity.Invite, error) {
	defer r.s.lock(r.inTx)()
	return r.filter(func(i *entity.Invite) bool { return i.Email == email }), nil
}

func (r *InviteRepo) FirstByEmail(email string) (*entity.Invite, error) {
	defer r.s.lock(r.inTx)()
	list := r.filter(func(i *entity.Invite) bool { return i.Email == email })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// filter assume o mutex seguro; devolve cópias ordenadas por criação.
func (r *InviteRepo) filter(keep func(*entity.Invite) bool) []*entity.Invite {
	var list []*entity.Invite
	for _, i := range r.s.d.invites {
		if keep(i) {
			cp := *i
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}
