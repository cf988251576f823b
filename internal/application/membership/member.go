package membership

import (
	"context"
	"fmt"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
)

// ListUsers lista os membros da empresa.
func (uc *UseCase) ListUsers(companyID, actorUID string) ([]*entity.User, error) {
	if _, err := uc.requirePermission(actorUID, companyID, policy.PermManageUsers); err != nil {
		return nil, err
	}
	return uc.users.ListByCompany(companyID)
}

// ChangeUserRole altera a função de um membro pelo caminho normal de
// edição. As regras da política aplicam-se: nunca a própria função, nunca a
// do Dono, nunca atribuir Dono (só por transferência). A função do alvo é
// relida com a empresa bloqueada, para que uma transferência de propriedade
// concorrente nunca se intercale com a alteração.
func (uc *UseCase) ChangeUserRole(ctx context.Context, companyID, targetUID, newRole string, actor entity.Actor) error {
	actorRole, err := uc.roleOf(actor.UID, companyID)
	if err != nil {
		return err
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		company, err := r.Companies.GetForUpdate(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		target, err := r.Users.GetByUID(targetUID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.ErrUserNotFound
		}
		targetRole := target.RoleIn(companyID)
		if targetRole == "" {
			return domain.ErrNotFound
		}
		if err := policy.CanChangeRole(actorRole, actor.UID, targetUID, targetRole, newRole); err != nil {
			return err
		}
		return r.Users.SetMembership(targetUID, companyID, newRole)
	})
	if err != nil {
		return err
	}
	uc.audit.Record(companyID, actor, entity.ActionEditarFuncao,
		fmt.Sprintf("A função do utilizador com UID %s foi alterada para %s.", targetUID, newRole))
	uc.notify(companyID, watch.TopicUsers)
	return nil
}

// RemoveUserFromCompany remove um membro da empresa, ou o próprio membro
// sai dela: a distinção está apenas em actor.UID == targetUID. O Dono nunca
// é removível. A remoção da adesão e a reatribuição da empresa ativa (a
// primeira restante, ou nenhuma) são uma única unidade atómica.
func (uc *UseCase) RemoveUserFromCompany(ctx context.Context, companyID, targetUID string, actor entity.Actor) error {
	leaving := actor.UID == targetUID
	if !leaving {
		if _, err := uc.requirePermission(actor.UID, companyID, policy.PermManageUsers); err != nil {
			return err
		}
	}

	var target *entity.User
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		// O bloqueio da empresa serializa a remoção com transferências de
		// propriedade: a função do alvo lida a seguir nunca está obsoleta.
		company, err := r.Companies.GetForUpdate(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		user, err := r.Users.GetByUID(targetUID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		role := user.RoleIn(companyID)
		if role == "" {
			return domain.ErrNotFound
		}
		if role == entity.RoleDono {
			return domain.ErrCannotRemoveOwner
		}
		target = user
		if err := r.Users.RemoveMembership(targetUID, companyID); err != nil {
			return err
		}
		return r.Users.SetActiveCompany(targetUID, nextActiveCompany(user, companyID))
	})
	if err != nil {
		return err
	}

	if leaving {
		uc.audit.Record(companyID, actor, entity.ActionSairDaEmpresa,
			fmt.Sprintf("Utilizador %s saiu da empresa.", actor.DisplayName))
	} else {
		uc.audit.Record(companyID, actor, entity.ActionRemoverUtilizador,
			fmt.Sprintf("Utilizador %s (%s) foi removido por %s.", target.DisplayName, target.Email, actor.DisplayName))
	}
	uc.notify(companyID, watch.TopicUsers)
	return nil
}

// SwitchActiveCompany muda a empresa ativa do utilizador. No-op quando ele
// não é membro da empresa pedida.
func (uc *UseCase) SwitchActiveCompany(ctx context.Context, userID, companyID string) (*entity.User, error) {
	user, err := uc.users.GetByUID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if !user.IsMemberOf(companyID) {
		return user, nil
	}
	if err := uc.users.SetActiveCompany(userID, companyID); err != nil {
		return nil, err
	}
	user.ActiveCompanyID = companyID
	return user, nil
}

// ListActivityLogs devolve o log de atividades da empresa, mais recentes
// primeiro. Exige função Gerente ou superior.
func (uc *UseCase) ListActivityLogs(companyID, actorUID string) ([]*entity.ActivityLog, error) {
	if _, err := uc.requirePermission(actorUID, companyID, policy.PermViewLogs); err != nil {
		return nil, err
	}
	return uc.audit.List(companyID)
}
