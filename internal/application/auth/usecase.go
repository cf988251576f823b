// Package auth implementa registo, login e o bootstrap de primeiro acesso.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/pkg/jwt"
)

// JWTConfig configuração para emissão de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase casos de uso de autenticação.
type UseCase struct {
	tx      repository.TxRunner
	users   repository.UserRepository
	invites repository.InviteRepository
	jwtCfg  JWTConfig
}

// NewUseCase constrói o caso de uso de auth.
func NewUseCase(tx repository.TxRunner, users repository.UserRepository, invites repository.InviteRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{tx: tx, users: users, invites: invites, jwtCfg: jwtCfg}
}

// Register cria um utilizador novo com o bootstrap de primeiro acesso: se
// existir um convite pendente para o email, o perfil nasce já aderido à
// empresa com a função convidada e o convite é consumido na mesma
// transação; senão nasce sem empresas.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" || in.DisplayName == "" {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		UID:          uuid.New().String(),
		Email:        in.Email,
		DisplayName:  in.DisplayName,
		PasswordHash: string(hash),
		Companies:    map[string]string{},
		CompanyIDs:   []string{},
		CreatedAt:    time.Now(),
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		invite, err := r.Invites.FirstByEmail(in.Email)
		if err != nil {
			return err
		}
		if invite != nil {
			user.Companies[invite.CompanyID] = invite.Role
			user.CompanyIDs = append(user.CompanyIDs, invite.CompanyID)
			user.ActiveCompanyID = invite.CompanyID
		}
		if err := r.Users.Create(user); err != nil {
			return err
		}
		if invite != nil {
			return r.Invites.Delete(invite.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := uc.TokenFor(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Login verifica email/password e emite um JWT com a empresa ativa e a
// função nela.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := uc.TokenFor(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}

// GetProfile devolve o perfil do utilizador autenticado.
func (uc *UseCase) GetProfile(uid string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// UpdateProfile altera o nome de apresentação do próprio utilizador. Os
// snapshots já gravados em movimentos e no log de atividades mantêm o nome
// da altura da ação.
func (uc *UseCase) UpdateProfile(uid string, in dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	if in.DisplayName == "" {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.users.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.users.UpdateDisplayName(uid, in.DisplayName); err != nil {
		return nil, err
	}
	user.DisplayName = in.DisplayName
	return toUserResponse(user), nil
}

// Refresh devolve o perfil atual e um token novo. Usado depois de mutações
// que mudam a empresa ativa, como aceitar um convite ou trocar de empresa.
func (uc *UseCase) Refresh(uid string) (*dto.AuthResponse, error) {
	user, err := uc.users.GetByUID(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	token, err := uc.TokenFor(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: *toUserResponse(user)}, nil
}

// TokenFor emite um JWT para o utilizador com a empresa ativa atual.
func (uc *UseCase) TokenFor(user *entity.User) (string, error) {
	role := user.RoleIn(user.ActiveCompanyID)
	return jwt.Generate(uc.jwtCfg.Secret, user.UID, user.ActiveCompanyID, role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		UID:             u.UID,
		Email:           u.Email,
		DisplayName:     u.DisplayName,
		Companies:       u.Companies,
		CompanyIDs:      u.CompanyIDs,
		ActiveCompanyID: u.ActiveCompanyID,
		CreatedAt:       u.CreatedAt,
	}
}
