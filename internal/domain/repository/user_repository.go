package repository

import "github.com/intellistock/api/internal/domain/entity"

// UserRepository porto de persistência para utilizadores e respetivas
// adesões a empresas. Leituras devolvem (nil, nil) quando não existe.
type UserRepository interface {
	Create(user *entity.User) error
	GetByUID(uid string) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	ListByCompany(companyID string) ([]*entity.User, error)

	// UpdateDisplayName altera o nome de apresentação do utilizador.
	// Snapshots já gravados em movimentos e logs não mudam.
	UpdateDisplayName(uid, displayName string) error

	// SetMembership cria ou substitui a adesão (uid, companyID) com a função dada.
	SetMembership(uid, companyID, role string) error
	// RemoveMembership apaga a adesão; não falha se já não existir.
	RemoveMembership(uid, companyID string) error
	// SetActiveCompany define a empresa ativa; vazio limpa.
	SetActiveCompany(uid, companyID string) error
}
