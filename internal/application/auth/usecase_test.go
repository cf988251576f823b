package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellistock/api/internal/application/auth"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/infrastructure/memory"
	"github.com/intellistock/api/pkg/jwt"
)

const testSecret = "segredo-de-teste"

type fixture struct {
	uc    *auth.UseCase
	repos repository.Repos
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	uc := auth.NewUseCase(store, repos.Users, repos.Invites, auth.JWTConfig{
		Secret:     testSecret,
		ExpMinutes: 60,
		Issuer:     "intellistock-test",
	})
	return &fixture{uc: uc, repos: repos}
}

func registerReq(email string) dto.RegisterRequest {
	return dto.RegisterRequest{Email: email, Password: "senha-muito-secreta", DisplayName: "Maria Teste"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Registo
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CamposObrigatorios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []dto.RegisterRequest{
		{Password: "x", DisplayName: "x"},
		{Email: "a@example.com", DisplayName: "x"},
		{Email: "a@example.com", Password: "x"},
	}
	for _, in := range cases {
		_, err := f.uc.Register(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "%+v", in)
	}
}

func TestRegister_SemConviteNasceSemEmpresas(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Register(context.Background(), registerReq("maria@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Empty(t, resp.User.ActiveCompanyID)
	assert.Empty(t, resp.User.CompanyIDs)

	// O token não traz empresa nem função.
	uid, companyID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.UID, uid)
	assert.Empty(t, companyID)
	assert.Empty(t, role)
}

func TestRegister_EmailDuplicado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Register(ctx, registerReq("maria@example.com"))
	require.NoError(t, err)

	_, err = f.uc.Register(ctx, registerReq("maria@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Bootstrap de primeiro acesso: com um convite pendente para o email, o
// perfil nasce já membro da empresa com a função convidada, a empresa fica
// ativa e o convite é consumido.
func TestRegister_BootstrapComConvitePendente(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.repos.Invites.Create(&entity.Invite{
		ID:          uuid.New().String(),
		Email:       "maria@example.com",
		CompanyID:   "empresa-1",
		CompanyName: "Armazéns Silva",
		Role:        entity.RoleGerente,
		CreatedAt:   time.Now(),
	}))

	resp, err := f.uc.Register(context.Background(), registerReq("maria@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "empresa-1", resp.User.ActiveCompanyID)
	assert.Equal(t, entity.RoleGerente, resp.User.Companies["empresa-1"])

	_, companyID, role, err := jwt.Parse(testSecret, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "empresa-1", companyID)
	assert.Equal(t, entity.RoleGerente, role)

	pending, err := f.repos.Invites.ListByEmail("maria@example.com")
	require.NoError(t, err)
	assert.Empty(t, pending, "o convite foi consumido no registo")
}

// Com vários convites pendentes, o bootstrap consome o mais antigo; os
// outros ficam por aceitar mais tarde.
func TestRegister_BootstrapConsomeOConviteMaisAntigo(t *testing.T) {
	f := newFixture(t)
	now := time.Now()
	require.NoError(t, f.repos.Invites.Create(&entity.Invite{
		ID: "conv-antigo", Email: "maria@example.com", CompanyID: "empresa-1",
		Role: entity.RoleOperador, CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, f.repos.Invites.Create(&entity.Invite{
		ID: "conv-novo", Email: "maria@example.com", CompanyID: "empresa-2",
		Role: entity.RoleGerente, CreatedAt: now,
	}))

	resp, err := f.uc.Register(context.Background(), registerReq("maria@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "empresa-1", resp.User.ActiveCompanyID)

	pending, err := f.repos.Invites.ListByEmail("maria@example.com")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "conv-novo", pending[0].ID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Login e perfil
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Register(ctx, registerReq("maria@example.com"))
	require.NoError(t, err)

	resp, err := f.uc.Login(dto.LoginRequest{Email: "maria@example.com", Password: "senha-muito-secreta"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "maria@example.com", resp.User.Email)

	_, err = f.uc.Login(dto.LoginRequest{Email: "maria@example.com", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(dto.LoginRequest{Email: "ninguem@example.com", Password: "tanto-faz"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Register(context.Background(), registerReq("maria@example.com"))
	require.NoError(t, err)

	profile, err := f.uc.GetProfile(resp.User.UID)
	require.NoError(t, err)
	assert.Equal(t, "Maria Teste", profile.DisplayName)

	_, err = f.uc.GetProfile("uid-inexistente")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfile_AlteraONomeDeApresentacao(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Register(context.Background(), registerReq("maria@example.com"))
	require.NoError(t, err)
	uid := resp.User.UID

	updated, err := f.uc.UpdateProfile(uid, dto.UpdateProfileRequest{DisplayName: "Maria Atualizada"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Atualizada", updated.DisplayName)

	profile, err := f.uc.GetProfile(uid)
	require.NoError(t, err)
	assert.Equal(t, "Maria Atualizada", profile.DisplayName)

	_, err = f.uc.UpdateProfile(uid, dto.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "nome vazio é rejeitado")

	_, err = f.uc.UpdateProfile("uid-inexistente", dto.UpdateProfileRequest{DisplayName: "Alguém"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// Refresh reflete no token uma empresa ativa que mudou depois do login.
func TestRefresh_TokenAcompanhaEmpresaAtiva(t *testing.T) {
	f := newFixture(t)
	resp, err := f.uc.Register(context.Background(), registerReq("maria@example.com"))
	require.NoError(t, err)
	uid := resp.User.UID

	require.NoError(t, f.repos.Users.SetMembership(uid, "empresa-9", entity.RoleDono))
	require.NoError(t, f.repos.Users.SetActiveCompany(uid, "empresa-9"))

	fresh, err := f.uc.Refresh(uid)
	require.NoError(t, err)
	_, companyID, role, err := jwt.Parse(testSecret, fresh.Token)
	require.NoError(t, err)
	assert.Equal(t, "empresa-9", companyID)
	assert.Equal(t, entity.RoleDono, role)

	_, err = f.uc.Refresh("uid-inexistente")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
