package membership_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellistock/api/internal/application/audit"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/membership"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/infrastructure/memory"
	"github.com/intellistock/api/internal/watch"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const companyID = "empresa-1"

var (
	dono  = entity.Actor{UID: "dono-1", DisplayName: "Dona Amélia", Email: "amelia@example.com"}
	admin = entity.Actor{UID: "admin-1", DisplayName: "Alberto Admin", Email: "alberto@example.com"}
	oper  = entity.Actor{UID: "oper-1", DisplayName: "Zé Operador", Email: "ze@example.com"}
)

type fixture struct {
	uc     *membership.UseCase
	store  *memory.Store
	repos  repository.Repos
	events *watch.Broker
}

// newFixture monta o motor sobre o armazenamento em memória com uma
// empresa e três membros: Dono, Administrador e Operador.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	events := watch.NewBroker()
	recorder := audit.NewRecorder(repos.Logs, events, nil)

	seed := []struct {
		actor entity.Actor
		role  string
	}{
		{dono, entity.RoleDono},
		{admin, entity.RoleAdministrador},
		{oper, entity.RoleOperador},
	}
	for _, s := range seed {
		require.NoError(t, repos.Users.Create(&entity.User{
			UID: s.actor.UID, Email: s.actor.Email, DisplayName: s.actor.DisplayName,
			Companies:       map[string]string{companyID: s.role},
			CompanyIDs:      []string{companyID},
			ActiveCompanyID: companyID,
			CreatedAt:       time.Now(),
		}))
	}
	require.NoError(t, repos.Companies.Create(&entity.Company{
		ID: companyID, Name: "Armazéns Silva", OwnerID: dono.UID, CreatedAt: time.Now(),
	}))

	uc := membership.NewUseCase(store, repos.Users, repos.Companies, repos.Invites, recorder, events)
	return &fixture{uc: uc, store: store, repos: repos, events: events}
}

// recv espera pela próxima revisão da subscrição.
func recv(t *testing.T, sub *watch.Subscription) uint64 {
	t.Helper()
	select {
	case rev, ok := <-sub.C:
		require.True(t, ok, "canal fechado antes de entregar uma revisão")
		return rev
	case <-time.After(time.Second):
		t.Fatal("nenhuma revisão entregue a tempo")
		return 0
	}
}

// newOutsider regista um utilizador sem empresas.
func (f *fixture) newOutsider(t *testing.T, uid, email string) entity.Actor {
	t.Helper()
	require.NoError(t, f.repos.Users.Create(&entity.User{
		UID: uid, Email: email, DisplayName: "Convidado " + uid,
		Companies: map[string]string{},
		CreatedAt: time.Now(),
	}))
	return entity.Actor{UID: uid, DisplayName: "Convidado " + uid, Email: email}
}

func (f *fixture) roleOf(t *testing.T, uid string) string {
	t.Helper()
	u, err := f.repos.Users.GetByUID(uid)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u.RoleIn(companyID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateCompany_AtorFicaDonoEAtiva(t *testing.T) {
	f := newFixture(t)

	company, err := f.uc.CreateCompany(context.Background(), dto.CreateCompanyRequest{Name: "Filial Porto"}, oper)
	require.NoError(t, err)

	u, err := f.repos.Users.GetByUID(oper.UID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleDono, u.RoleIn(company.ID))
	assert.Equal(t, company.ID, u.ActiveCompanyID, "a empresa nova passa a ser a ativa")
	assert.Equal(t, oper.UID, company.OwnerID)
	assert.Equal(t, []string{companyID, company.ID}, u.CompanyIDs, "ordem de adesão preservada")
}

func TestUpdateCompanyDetails_SoDono(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.UpdateCompanyDetails(companyID, dto.UpdateCompanyRequest{Name: "Novo Nome"}, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden, "nem o Administrador edita as definições")

	got, err := f.uc.UpdateCompanyDetails(companyID, dto.UpdateCompanyRequest{Name: "Armazéns Silva & Filhos", CNPJ: "12.345.678/0001-90"}, dono)
	require.NoError(t, err)
	assert.Equal(t, "Armazéns Silva & Filhos", got.Name)
	assert.Equal(t, "12.345.678/0001-90", got.CNPJ)
}

// ──────────────────────────────────────────────────────────────────────────────
// Convites
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateInvite_DuplicadoPorParEmailEmpresa(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "novo@example.com", Role: entity.RoleOperador}, dono)
	require.NoError(t, err)

	_, err = f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "novo@example.com", Role: entity.RoleGerente}, dono)
	assert.ErrorIs(t, err, domain.ErrDuplicateInvite,
		"um segundo convite pendente para o mesmo par (email, empresa) é rejeitado")

	// O mesmo email pode ter convite pendente noutra empresa.
	other, err := f.uc.CreateCompany(context.Background(), dto.CreateCompanyRequest{Name: "Outra"}, admin)
	require.NoError(t, err)
	_, err = f.uc.CreateInvite(other.ID, dto.CreateInviteRequest{Email: "novo@example.com", Role: entity.RoleOperador}, admin)
	assert.NoError(t, err)
}

func TestCreateInvite_RegrasDeFuncao(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "a@example.com", Role: entity.RoleDono}, dono)
	assert.ErrorIs(t, err, domain.ErrForbidden, "Dono nunca é convidável")

	_, err = f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "b@example.com", Role: entity.RoleAdministrador}, admin)
	assert.ErrorIs(t, err, domain.ErrForbidden, "só o Dono convida Administradores")

	_, err = f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "b@example.com", Role: entity.RoleAdministrador}, dono)
	assert.NoError(t, err)

	_, err = f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "c@example.com", Role: "Chefe"}, dono)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "d@example.com", Role: entity.RoleOperador}, oper)
	assert.ErrorIs(t, err, domain.ErrForbidden, "Operador não gere utilizadores")
}

func TestCreateInvite_MembroAtualRejeitado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: oper.Email, Role: entity.RoleGerente}, dono)
	assert.ErrorIs(t, err, domain.ErrAlreadyMember)
}

func TestAcceptInvite_AdereEConsome(t *testing.T) {
	f := newFixture(t)
	convidado := f.newOutsider(t, "novo-1", "novo@example.com")

	invite, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: convidado.Email, Role: entity.RoleGerente}, dono)
	require.NoError(t, err)

	require.NoError(t, f.uc.AcceptInvite(context.Background(), convidado.UID, invite.ID, convidado))

	u, err := f.repos.Users.GetByUID(convidado.UID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleGerente, u.RoleIn(companyID))
	assert.Equal(t, companyID, u.ActiveCompanyID)

	gone, err := f.repos.Invites.GetByID(invite.ID)
	require.NoError(t, err)
	assert.Nil(t, gone, "o convite é consumido")
}

func TestAcceptInvite_EmailErradoRejeitado(t *testing.T) {
	f := newFixture(t)
	convidado := f.newOutsider(t, "novo-1", "novo@example.com")
	intruso := f.newOutsider(t, "intruso-1", "intruso@example.com")

	invite, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: convidado.Email, Role: entity.RoleOperador}, dono)
	require.NoError(t, err)

	err = f.uc.AcceptInvite(context.Background(), intruso.UID, invite.ID, intruso)
	assert.ErrorIs(t, err, domain.ErrForbidden, "só o destinatário aceita o convite")
}

// Dois accepts concorrentes do mesmo convite: exatamente um adere, o outro
// falha com ErrInviteNotFound sem adesão dupla.
func TestAcceptInvite_ConcorrenteExactlyOnce(t *testing.T) {
	f := newFixture(t)
	convidado := f.newOutsider(t, "novo-1", "novo@example.com")
	invite, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: convidado.Email, Role: entity.RoleOperador}, dono)
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.uc.AcceptInvite(context.Background(), convidado.UID, invite.ID, convidado)
		}(i)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			assert.ErrorIs(t, err, domain.ErrInviteNotFound)
		}
	}
	assert.Equal(t, 1, accepted, "exatamente um accept consome o convite")

	u, err := f.repos.Users.GetByUID(convidado.UID)
	require.NoError(t, err)
	assert.Equal(t, []string{companyID}, u.CompanyIDs, "sem adesão duplicada")
}

func TestRejectInvite_SoDestinatario(t *testing.T) {
	f := newFixture(t)
	convidado := f.newOutsider(t, "novo-1", "novo@example.com")
	invite, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: convidado.Email, Role: entity.RoleOperador}, dono)
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.RejectInvite(invite.ID, oper), domain.ErrForbidden)
	require.NoError(t, f.uc.RejectInvite(invite.ID, convidado))

	u, err := f.repos.Users.GetByUID(convidado.UID)
	require.NoError(t, err)
	assert.False(t, u.IsMemberOf(companyID), "rejeitar não adere")
}

// O destinatário ainda sem adesão subscreve os próprios convites por
// email: criar e cancelar um convite publicam revisões nesse âmbito.
func TestInvites_StreamPorEmailDoDestinatario(t *testing.T) {
	f := newFixture(t)

	sub := f.events.Subscribe("novo@example.com", watch.TopicInvites)
	defer sub.Unsubscribe()
	require.Equal(t, uint64(0), recv(t, sub), "primeira revisão entregue de imediato")

	invite, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "novo@example.com", Role: entity.RoleOperador}, dono)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), recv(t, sub), "criar o convite publica no âmbito do email")

	require.NoError(t, f.uc.CancelInvite(companyID, invite.ID, dono))
	assert.Equal(t, uint64(2), recv(t, sub), "cancelar também")
}

func TestCancelInvite(t *testing.T) {
	f := newFixture(t)
	invite, err := f.uc.CreateInvite(companyID, dto.CreateInviteRequest{Email: "novo@example.com", Role: entity.RoleOperador}, dono)
	require.NoError(t, err)

	assert.ErrorIs(t, f.uc.CancelInvite(companyID, invite.ID, oper), domain.ErrForbidden)
	require.NoError(t, f.uc.CancelInvite(companyID, invite.ID, admin))

	pending, err := f.uc.ListPendingInvites(companyID, dono.UID)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

// ──────────────────────────────────────────────────────────────────────────────
// Funções e remoção de membros
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeUserRole_Regras(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.uc.ChangeUserRole(ctx, companyID, oper.UID, entity.RoleGerente, admin))
	assert.Equal(t, entity.RoleGerente, f.roleOf(t, oper.UID))

	assert.ErrorIs(t, f.uc.ChangeUserRole(ctx, companyID, admin.UID, entity.RoleOperador, admin),
		domain.ErrForbidden, "nunca a própria função")
	assert.ErrorIs(t, f.uc.ChangeUserRole(ctx, companyID, dono.UID, entity.RoleOperador, admin),
		domain.ErrForbidden, "nunca a função do Dono")
	assert.ErrorIs(t, f.uc.ChangeUserRole(ctx, companyID, oper.UID, entity.RoleDono, dono),
		domain.ErrForbidden, "Dono só por transferência")
	assert.ErrorIs(t, f.uc.ChangeUserRole(ctx, companyID, oper.UID, entity.RoleAdministrador, admin),
		domain.ErrForbidden, "Administrador só atribuível pelo Dono")
	require.NoError(t, f.uc.ChangeUserRole(ctx, companyID, oper.UID, entity.RoleAdministrador, dono))
}

func TestRemoveUser_DonoNuncaRemovivel(t *testing.T) {
	f := newFixture(t)
	err := f.uc.RemoveUserFromCompany(context.Background(), companyID, dono.UID, admin)
	assert.ErrorIs(t, err, domain.ErrCannotRemoveOwner)

	// Nem o próprio Dono sai; primeiro transfere a propriedade.
	err = f.uc.RemoveUserFromCompany(context.Background(), companyID, dono.UID, dono)
	assert.ErrorIs(t, err, domain.ErrCannotRemoveOwner)
}

func TestRemoveUser_OperadorNaoRemoveOutros(t *testing.T) {
	f := newFixture(t)
	err := f.uc.RemoveUserFromCompany(context.Background(), companyID, admin.UID, oper)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLeaveCompany_ReatribuiEmpresaAtiva(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// O operador adere a uma segunda empresa e mantém a primeira ativa.
	second, err := f.uc.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Segunda"}, oper)
	require.NoError(t, err)
	_, err = f.uc.SwitchActiveCompany(ctx, oper.UID, companyID)
	require.NoError(t, err)

	// Sair da empresa ativa: a ativa passa à primeira restante.
	require.NoError(t, f.uc.RemoveUserFromCompany(ctx, companyID, oper.UID, oper))
	u, err := f.repos.Users.GetByUID(oper.UID)
	require.NoError(t, err)
	assert.False(t, u.IsMemberOf(companyID))
	assert.Equal(t, second.ID, u.ActiveCompanyID)
}

func TestLeaveCompany_UltimaEmpresaFicaSemAtiva(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.RemoveUserFromCompany(context.Background(), companyID, oper.UID, oper))

	u, err := f.repos.Users.GetByUID(oper.UID)
	require.NoError(t, err)
	assert.Empty(t, u.ActiveCompanyID, "sem empresas restantes, nenhuma fica ativa")
	assert.Empty(t, u.CompanyIDs)
}

func TestRemoveUser_NaoAfetaEmpresaAtivaDeOutra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// O operador tem duas empresas, com a segunda ativa.
	second, err := f.uc.CreateCompany(ctx, dto.CreateCompanyRequest{Name: "Segunda"}, oper)
	require.NoError(t, err)

	require.NoError(t, f.uc.RemoveUserFromCompany(ctx, companyID, oper.UID, admin))
	u, err := f.repos.Users.GetByUID(oper.UID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, u.ActiveCompanyID, "a ativa não era a removida, mantém-se")
}

func TestSwitchActiveCompany_NaoMembroNoOp(t *testing.T) {
	f := newFixture(t)
	u, err := f.uc.SwitchActiveCompany(context.Background(), oper.UID, "empresa-alheia")
	require.NoError(t, err, "trocar para empresa alheia é um no-op silencioso")
	assert.Equal(t, companyID, u.ActiveCompanyID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transferência de propriedade
// ──────────────────────────────────────────────────────────────────────────────

func TestTransferOwnership_TrocaAtomica(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.TransferOwnership(context.Background(), companyID, dono.UID, admin.UID, dono))

	company, err := f.repos.Companies.GetByID(companyID)
	require.NoError(t, err)
	assert.Equal(t, admin.UID, company.OwnerID)
	assert.Equal(t, entity.RoleDono, f.roleOf(t, admin.UID))
	assert.Equal(t, entity.RoleAdministrador, f.roleOf(t, dono.UID),
		"o dono antigo fica Administrador; nunca zero nem dois Donos")
}

// Transferir a propriedade para um membro que outro administrador está a
// remover em simultâneo nunca deixa a empresa sem Dono: ou a transferência
// ganha e a remoção falha com ErrCannotRemoveOwner, ou a remoção ganha e a
// transferência falha com ErrNotFound. O ownerId aponta sempre para um
// membro com função Dono.
func TestTransferOwnership_ConcorrenteComRemocaoDoNovoDono(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var transferErr, removeErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		transferErr = f.uc.TransferOwnership(ctx, companyID, dono.UID, admin.UID, dono)
	}()
	go func() {
		defer wg.Done()
		removeErr = f.uc.RemoveUserFromCompany(ctx, companyID, admin.UID, dono)
	}()
	wg.Wait()

	if transferErr == nil {
		assert.ErrorIs(t, removeErr, domain.ErrCannotRemoveOwner,
			"com a transferência feita, o alvo da remoção já é Dono")
	} else {
		assert.ErrorIs(t, transferErr, domain.ErrNotFound,
			"com a remoção feita, o novo dono já não é membro")
		assert.NoError(t, removeErr)
	}

	company, err := f.repos.Companies.GetByID(companyID)
	require.NoError(t, err)
	owner, err := f.repos.Users.GetByUID(company.OwnerID)
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, entity.RoleDono, owner.RoleIn(companyID), "o ownerId aponta sempre para um Dono")

	members, err := f.repos.Users.ListByCompany(companyID)
	require.NoError(t, err)
	donos := 0
	for _, m := range members {
		if m.RoleIn(companyID) == entity.RoleDono {
			donos++
		}
	}
	assert.Equal(t, 1, donos, "exatamente um Dono depois do interleaving")
}

func TestTransferOwnership_Regras(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.TransferOwnership(ctx, companyID, dono.UID, admin.UID, admin),
		domain.ErrForbidden, "só o Dono transfere")
	assert.ErrorIs(t, f.uc.TransferOwnership(ctx, companyID, dono.UID, dono.UID, dono),
		domain.ErrInvalidInput, "transferir para si próprio não faz sentido")
	assert.ErrorIs(t, f.uc.TransferOwnership(ctx, companyID, dono.UID, "forasteiro-1", dono),
		domain.ErrNotFound, "o novo dono tem de ser membro")
}

// ──────────────────────────────────────────────────────────────────────────────
// Remoção da empresa
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteCompany_SoDono(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.uc.DeleteCompany(context.Background(), companyID, oper), domain.ErrForbidden)
	assert.ErrorIs(t, f.uc.DeleteCompany(context.Background(), companyID, admin), domain.ErrForbidden)
}

func TestDeleteCompany_RemoveTodasAsAdesoes(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.uc.DeleteCompany(context.Background(), companyID, dono))

	company, err := f.repos.Companies.GetByID(companyID)
	require.NoError(t, err)
	assert.Nil(t, company)

	for _, uid := range []string{dono.UID, admin.UID, oper.UID} {
		u, err := f.repos.Users.GetByUID(uid)
		require.NoError(t, err)
		assert.False(t, u.IsMemberOf(companyID), "uid=%s", uid)
		assert.Empty(t, u.ActiveCompanyID, "uid=%s", uid)
	}
}

// Uma falha de escrita a meio da remoção da empresa não deixa nenhum efeito
// parcial: nem a empresa nem nenhum dos três membros fica alterado.
func TestDeleteCompany_FalhaAMeioNaoDeixaEfeitosParciais(t *testing.T) {
	f := newFixture(t)

	// As duas primeiras escritas da transação passam, a terceira falha.
	f.store.FailAfterWrites(2)
	err := f.uc.DeleteCompany(context.Background(), companyID, dono)
	require.ErrorIs(t, err, domain.ErrBackendUnavailable)
	f.store.HealWrites()

	company, err := f.repos.Companies.GetByID(companyID)
	require.NoError(t, err)
	require.NotNil(t, company, "a empresa continua intacta")

	for _, uid := range []string{dono.UID, admin.UID, oper.UID} {
		u, err := f.repos.Users.GetByUID(uid)
		require.NoError(t, err)
		assert.True(t, u.IsMemberOf(companyID), "uid=%s mantém a adesão", uid)
		assert.Equal(t, companyID, u.ActiveCompanyID, "uid=%s mantém a empresa ativa", uid)
	}
}
