package repository

import "github.com/intellistock/api/internal/domain/entity"

// InviteRepository porto de persistência para convites pendentes.
type InviteRepository interface {
	// Create devolve domain.ErrDuplicateInvite se já existir convite
	// pendente para o par (email, empresa).
	Create(invite *entity.Invite) error
	GetByID(id string) (*entity.Invite, error)
	// Delete devolve domain.ErrInviteNotFound se o convite já não existir;
	// é isto que torna o accept exactly-once em aceitações concorrentes.
	Delete(id string) error
	ListByCompany(companyID string) ([]*entity.Invite, error)
	ListByEmail(email string) ([]*entity.Invite, error)
	// FirstByEmail devolve o convite pendente mais antigo para o email, ou nil.
	FirstByEmail(email string) (*entity.Invite, error)
}
