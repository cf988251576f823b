package membership

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/policy"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
)

// CreateInvite emite um convite de adesão. Falha com ErrDuplicateInvite se
// já existir convite pendente para o par (email, empresa) e com
// ErrAlreadyMember se o email já pertencer a um membro. Dono nunca é uma
// função convidável.
func (uc *UseCase) CreateInvite(companyID string, in dto.CreateInviteRequest, actor entity.Actor) (*entity.Invite, error) {
	actorRole, err := uc.requirePermission(actor.UID, companyID, policy.PermManageUsers)
	if err != nil {
		return nil, err
	}
	if in.Email == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidRole(in.Role) {
		return nil, domain.ErrInvalidInput
	}
	if !policy.AssignableRole(actorRole, in.Role) {
		return nil, domain.ErrForbidden
	}

	existing, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil && existing.IsMemberOf(companyID) {
		return nil, domain.ErrAlreadyMember
	}

	company, err := uc.companies.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}

	invite := &entity.Invite{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		CompanyName: company.Name,
		Email:       in.Email,
		DisplayName: in.DisplayName,
		Role:        in.Role,
		CreatedAt:   time.Now(),
	}
	if err := uc.invites.Create(invite); err != nil {
		return nil, err
	}
	uc.audit.Record(companyID, actor, entity.ActionCriarConvite,
		fmt.Sprintf("Convite enviado para %s com a função de %s.", invite.Email, invite.Role))
	uc.notify(companyID, watch.TopicInvites)
	// O destinatário ainda não é membro; a subscrição dele é por email.
	uc.notify(invite.Email, watch.TopicInvites)
	return invite, nil
}

// AcceptInvite consome o convite e adere à empresa numa única transação:
// adiciona a adesão com a função convidada, torna a empresa a ativa e apaga
// o convite. Exactly-once: de dois accepts concorrentes só um encontra o
// convite para apagar; o outro falha com ErrInviteNotFound sem aderir.
func (uc *UseCase) AcceptInvite(ctx context.Context, userID, inviteID string, actor entity.Actor) error {
	var companyID, inviteEmail string
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		invite, err := r.Invites.GetByID(inviteID)
		if err != nil {
			return err
		}
		if invite == nil {
			return domain.ErrInviteNotFound
		}
		user, err := r.Users.GetByUID(userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		if invite.Email != user.Email {
			return domain.ErrForbidden
		}
		companyID = invite.CompanyID
		inviteEmail = invite.Email

		if err := r.Users.SetMembership(userID, invite.CompanyID, invite.Role); err != nil {
			return err
		}
		if err := r.Users.SetActiveCompany(userID, invite.CompanyID); err != nil {
			return err
		}
		return r.Invites.Delete(inviteID)
	})
	if err != nil {
		return err
	}
	uc.audit.Record(companyID, actor, entity.ActionAceitarConvite,
		"Utilizador aceitou o convite para se juntar à empresa.")
	uc.notify(companyID, watch.TopicUsers, watch.TopicInvites)
	uc.notify(inviteEmail, watch.TopicInvites)
	return nil
}

// RejectInvite apaga o convite sem aderir. Só o destinatário pode rejeitar.
func (uc *UseCase) RejectInvite(inviteID string, actor entity.Actor) error {
	invite, err := uc.invites.GetByID(inviteID)
	if err != nil {
		return err
	}
	if invite == nil {
		return domain.ErrInviteNotFound
	}
	if invite.Email != actor.Email {
		return domain.ErrForbidden
	}
	if err := uc.invites.Delete(inviteID); err != nil {
		return err
	}
	uc.notify(invite.CompanyID, watch.TopicInvites)
	uc.notify(invite.Email, watch.TopicInvites)
	return nil
}

// CancelInvite cancela um convite pendente da empresa.
func (uc *UseCase) CancelInvite(companyID, inviteID string, actor entity.Actor) error {
	if _, err := uc.requirePermission(actor.UID, companyID, policy.PermManageUsers); err != nil {
		return err
	}
	invite, err := uc.invites.GetByID(inviteID)
	if err != nil {
		return err
	}
	if invite == nil || invite.CompanyID != companyID {
		return domain.ErrInviteNotFound
	}
	if err := uc.invites.Delete(inviteID); err != nil {
		return err
	}
	uc.audit.Record(companyID, actor, entity.ActionCancelarConvite,
		fmt.Sprintf("Convite para %s foi cancelado.", invite.Email))
	uc.notify(companyID, watch.TopicInvites)
	uc.notify(invite.Email, watch.TopicInvites)
	return nil
}

// ListPendingInvites lista os convites pendentes da empresa.
func (uc *UseCase) ListPendingInvites(companyID, actorUID string) ([]*entity.Invite, error) {
	if _, err := uc.requirePermission(actorUID, companyID, policy.PermManageUsers); err != nil {
		return nil, err
	}
	return uc.invites.ListByCompany(companyID)
}

// ListInvitesForActor lista os convites dirigidos ao email do ator.
func (uc *UseCase) ListInvitesForActor(actor entity.Actor) ([]*entity.Invite, error) {
	return uc.invites.ListByEmail(actor.Email)
}
