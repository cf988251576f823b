// Package membership implementa o motor de adesões: empresas, convites,
// funções, remoção de membros, transferência de propriedade e remoção de
// empresas. É o componente com mais estado; todas as transições correm
// dentro da unidade transacional do TxRunner.
package membership

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/intellistock/api/internal/application/audit"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
)

// UseCase casos de uso de adesão e administração de empresas.
type UseCase struct {
	tx        repository.TxRunner
	users     repository.UserRepository
	companies repository.CompanyRepository
	invites   repository.InviteRepository
	audit     *audit.Recorder
	events    *watch.Broker
}

// NewUseCase constrói o motor de adesões. events pode ser nil.
func NewUseCase(
	tx repository.TxRunner,
	users repository.UserRepository,
	companies repository.CompanyRepository,
	invites repository.InviteRepository,
	recorder *audit.Recorder,
	events *watch.Broker,
) *UseCase {
	return &UseCase{
		tx:        tx,
		users:     users,
		companies: companies,
		invites:   invites,
		audit:     recorder,
		events:    events,
	}
}

func (uc *UseCase) roleOf(actorUID, companyID string) (string, error) {
	user, err := uc.users.GetByUID(actorUID)
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

func (uc *UseCase) requirePermission(actorUID, companyID, permission string) (string, error) {
	role, err := uc.roleOf(actorUID, companyID)
	if err != nil {
		return "", err
	}
	if !policy.Allows(role, permission) {
		return "", domain.ErrForbidden
	}
	return role, nil
}

// notify publica uma revisão nova por tópico. O âmbito é o ID da empresa,
// ou o email do destinatário no caso dos convites pendentes dele.
func (uc *UseCase) notify(scope string, topics ...string) {
	if uc.events == nil {
		return
	}
	for _, t := range topics {
		uc.events.Notify(scope, t)
	}
}

// nextActiveCompany devolve a empresa ativa após remover removed: a própria
// se não era a removida, senão a primeira restante por ordem de adesão, ou
// vazio quando não resta nenhuma.
func nextActiveCompany(user *entity.User, removed string) string {
	if user.ActiveCompanyID != removed {
		return user.ActiveCompanyID
	}
	for _, id := range user.CompanyIDs {
		if id != removed {
			return id
		}
	}
	return ""
}

// CreateCompany cria uma empresa com o ator como Dono e torna-a a empresa
// ativa dele, tudo numa transação.
func (uc *UseCase) CreateCompany(ctx context.Context, in dto.CreateCompanyRequest, actor entity.Actor) (*entity.Company, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      in.Name,
		CNPJ:      in.CNPJ,
		OwnerID:   actor.UID,
		CreatedAt: time.Now(),
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		user, err := r.Users.GetByUID(actor.UID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if err := r.Companies.Create(company); err != nil {
			return err
		}
		if err := r.Users.SetMembership(actor.UID, company.ID, entity.RoleDono); err != nil {
			return err
		}
		return r.Users.SetActiveCompany(actor.UID, company.ID)
	})
	if err != nil {
		return nil, err
	}
	return company, nil
}

// GetCompany devolve os detalhes da empresa a um membro.
func (uc *UseCase) GetCompany(companyID, actorUID string) (*entity.Company, error) {
	if _, err := uc.roleOf(actorUID, companyID); err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// UpdateCompanyDetails atualiza nome e CNPJ. Só o Dono pode. Escritas
// concorrentes resolvem-se por last-write-wins, como na origem; não há
// deteção de conflito.
func (uc *UseCase) UpdateCompanyDetails(companyID string, in dto.UpdateCompanyRequest, actor entity.Actor) (*entity.Company, error) {
	if _, err := uc.requirePermission(actor.UID, companyID, policy.PermManageCompany); err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	company.Name = in.Name
	company.CNPJ = in.CNPJ
	if err := uc.companies.Update(company); err != nil {
		return nil, err
	}
	return company, nil
}

// TransferOwnership transfere a propriedade da empresa numa única unidade
// atómica: muda o ownerId, despromove o dono antigo a Administrador e
// promove o novo a Dono. Nenhum estado intermédio com zero ou dois Donos é
// observável. A transação começa por bloquear a linha da empresa, por isso
// remoções e alterações de função concorrentes esperam e veem as funções
// finais.
func (uc *UseCase) TransferOwnership(ctx context.Context, companyID, oldOwnerID, newOwnerID string, actor entity.Actor) error {
	if companyID == "" || oldOwnerID == "" || newOwnerID == "" || oldOwnerID == newOwnerID {
		return domain.ErrInvalidInput
	}
	if _, err := uc.requirePermission(actor.UID, companyID, policy.PermManageCompany); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		company, err := r.Companies.GetForUpdate(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		if company.OwnerID != oldOwnerID {
			return domain.ErrInvalidInput
		}
		newOwner, err := r.Users.GetByUID(newOwnerID)
		if err != nil {
			return err
		}
		if newOwner == nil || !newOwner.IsMemberOf(companyID) {
			return domain.ErrNotFound
		}
		if err := r.Companies.SetOwner(companyID, newOwnerID); err != nil {
			return err
		}
		if err := r.Users.SetMembership(oldOwnerID, companyID, entity.RoleAdministrador); err != nil {
			return err
		}
		return r.Users.SetMembership(newOwnerID, companyID, entity.RoleDono)
	})
	if err != nil {
		return err
	}
	uc.notify(companyID, watch.TopicUsers)
	return nil
}

// DeleteCompany apaga a empresa e remove a referência de todos os membros
// (adesão e, se for o caso, empresa ativa) numa única transação: ou tudo ou
// nada, incluindo o registo da empresa.
func (uc *UseCase) DeleteCompany(ctx context.Context, companyID string, actor entity.Actor) error {
	if _, err := uc.requirePermission(actor.UID, companyID, policy.PermManageCompany); err != nil {
		return err
	}
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		company, err := r.Companies.GetForUpdate(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		members, err := r.Users.ListByCompany(companyID)
		if err != nil {
			return err
		}
		for _, member := range members {
			if err := r.Users.RemoveMembership(member.UID, companyID); err != nil {
				return err
			}
			if err := r.Users.SetActiveCompany(member.UID, nextActiveCompany(member, companyID)); err != nil {
				return err
			}
		}
		return r.Companies.Delete(companyID)
	})
	if err != nil {
		return err
	}
	uc.notify(companyID, watch.TopicUsers)
	return nil
}
