package memory

import (
	"sort"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementação em memória do porto UserRepository.
type UserRepo struct {
	s    *Store
	inTx bool
}

func (r *UserRepo) Create(user *entity.User) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	for _, u := range r.s.d.users {
		if u.Email == user.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.d.users[user.UID] = cloneUser(user)
	return nil
}

func (r *UserRepo) GetByUID(uid string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	u, ok := r.s.d.users[uid]
	if !ok {
		return nil, nil
	}
	return cloneUser(u), nil
}

func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	defer r.s.lock(r.inTx)()
	for _, u := range r.s.d.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByCompany(companyID string) ([]*entity.User, error) {
	defer r.s.lock(r.inTx)()
	var list []*entity.User
	for _, u := range r.s.d.users {
		if u.IsMemberOf(companyID) {
			list = append(list, cloneUser(u))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Email < list[j].Email })
	return list, nil
}

func (r *UserRepo) UpdateDisplayName(uid, displayName string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	u, ok := r.s.d.users[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.DisplayName = displayName
	return nil
}

func (r *UserRepo) SetMembership(uid, companyID, role string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	u, ok := r.s.d.users[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	if u.Companies == nil {
		u.Companies = make(map[string]string)
	}
	if _, member := u.Companies[companyID]; !member {
		u.CompanyIDs = append(u.CompanyIDs, companyID)
	}
	u.Companies[companyID] = role
	return nil
}

func (r *UserRepo) RemoveMembership(uid, companyID string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	u, ok := r.s.d.users[uid]
	if !ok {
		return nil
	}
	delete(u.Companies, companyID)
	for i, id := range u.CompanyIDs {
		if id == companyID {
			u.CompanyIDs = append(u.CompanyIDs[:i], u.CompanyIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (r *UserRepo) SetActiveCompany(uid, companyID string) error {
	defer r.s.lock(r.inTx)()
	if err := r.s.writeGate(); err != nil {
		return err
	}
	u, ok := r.s.d.users[uid]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ActiveCompanyID = companyID
	return nil
}
