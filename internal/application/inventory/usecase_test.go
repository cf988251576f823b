package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intellistock/api/internal/application/audit"
	"github.com/intellistock/api/internal/application/dto"
	"github.com/intellistock/api/internal/application/inventory"
	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/infrastructure/memory"
	"github.com/intellistock/api/internal/watch"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	companyID = "empresa-1"
	donoUID   = "dono-1"
	opUID     = "operador-1"
)

var (
	dono     = entity.Actor{UID: donoUID, DisplayName: "Dona Amélia", Email: "amelia@example.com"}
	operador = entity.Actor{UID: opUID, DisplayName: "Zé Operador", Email: "ze@example.com"}
)

type fixture struct {
	uc     *inventory.UseCase
	store  *memory.Store
	events *watch.Broker
}

// newFixture monta o motor sobre o armazenamento em memória, com uma
// empresa, um Dono e um Operador já aderidos.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	repos := store.Repos()
	events := watch.NewBroker()
	recorder := audit.NewRecorder(repos.Logs, events, nil)

	require.NoError(t, repos.Users.Create(&entity.User{
		UID: donoUID, Email: dono.Email, DisplayName: dono.DisplayName,
		Companies:       map[string]string{companyID: entity.RoleDono},
		CompanyIDs:      []string{companyID},
		ActiveCompanyID: companyID,
		CreatedAt:       time.Now(),
	}))
	require.NoError(t, repos.Users.Create(&entity.User{
		UID: opUID, Email: operador.Email, DisplayName: operador.DisplayName,
		Companies:       map[string]string{companyID: entity.RoleOperador},
		CompanyIDs:      []string{companyID},
		ActiveCompanyID: companyID,
		CreatedAt:       time.Now(),
	}))
	require.NoError(t, repos.Companies.Create(&entity.Company{
		ID: companyID, Name: "Armazéns Silva", OwnerID: donoUID, CreatedAt: time.Now(),
	}))

	uc := inventory.NewUseCase(store, repos.Users, repos.Products, repos.Suppliers,
		repos.Movements, recorder, events)
	return &fixture{uc: uc, store: store, events: events}
}

// seedProduct cria fornecedor + produto e devolve o produto.
func (f *fixture) seedProduct(t *testing.T) *entity.Product {
	t.Helper()
	sup, err := f.uc.AddSupplier(companyID, dto.SupplierRequest{Name: "Fornecedora Norte"}, dono)
	require.NoError(t, err)

	p, err := f.uc.AddProduct(companyID, dto.CreateProductRequest{
		Name:       "Parafuso M6",
		SKU:        "PF-M6",
		CostPrice:  decimal.NewFromInt(10),
		SupplierID: sup.ID,
	}, dono)
	require.NoError(t, err)
	return p
}

// ──────────────────────────────────────────────────────────────────────────────
// Produtos
// ──────────────────────────────────────────────────────────────────────────────

func TestAddProduct_QuantidadeInicialSempreZero(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)

	assert.Equal(t, int64(0), p.Quantity, "stock só entra por movimentação")
	assert.Equal(t, "Fornecedora Norte", p.SupplierName, "o nome do fornecedor é desnormalizado")
	assert.True(t, decimal.NewFromInt(10).Equal(p.CostPrice))
}

func TestAddProduct_FornecedorDeOutraEmpresaRejeitado(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t)

	_, err := f.uc.AddProduct(companyID, dto.CreateProductRequest{
		Name: "Porca M6", SKU: "PC-M6",
		CostPrice:  decimal.NewFromInt(2),
		SupplierID: "fornecedor-fantasma",
	}, dono)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUpdateProduct_NaoTocaNaQuantidade(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	require.NoError(t, f.uc.ApplyStockMovement(context.Background(), companyID, p.ID, entity.MovementEntrada, 7, dono))

	updated, err := f.uc.UpdateProduct(companyID, p.ID, dto.UpdateProductRequest{
		Name: "Parafuso M6 zincado", SKU: p.SKU,
		CostPrice: decimal.NewFromInt(12), SupplierID: p.SupplierID,
	}, dono)
	require.NoError(t, err)

	assert.Equal(t, int64(7), updated.Quantity, "a edição de produto nunca altera o stock")
	assert.Equal(t, "Parafuso M6 zincado", updated.Name)
}

func TestDeleteProduct_HistoricoDeMovimentosSobrevive(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	require.NoError(t, f.uc.ApplyStockMovement(context.Background(), companyID, p.ID, entity.MovementEntrada, 3, dono))

	require.NoError(t, f.uc.DeleteProduct(companyID, p.ID, dono))

	movs, err := f.uc.ListMovements(companyID, dono)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Parafuso M6", movs[0].ProductName,
		"o snapshot do nome mantém o histórico legível depois do produto desaparecer")
}

func TestOperador_NaoEditaProdutos(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)

	_, err := f.uc.UpdateProduct(companyID, p.ID, dto.UpdateProductRequest{
		Name: "X", SKU: "X", CostPrice: decimal.NewFromInt(1), SupplierID: p.SupplierID,
	}, operador)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.uc.DeleteProduct(companyID, p.ID, operador)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.uc.AddSupplier(companyID, dto.SupplierRequest{Name: "Y"}, operador)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestNaoMembro_NaoVeNada(t *testing.T) {
	f := newFixture(t)
	f.seedProduct(t)
	estranho := entity.Actor{UID: "intruso-1"}

	_, err := f.uc.ListProducts(companyID, estranho)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimentações de stock
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyStockMovement_EntradaESaida(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	ctx := context.Background()

	require.NoError(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementEntrada, 5, operador))

	got, err := f.uc.GetProduct(companyID, p.ID, dono)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)

	require.NoError(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementSaida, 2, operador))
	got, err = f.uc.GetProduct(companyID, p.ID, dono)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.Quantity)
}

func TestApplyStockMovement_SaidaMaiorQueStockRejeitadaSemEfeitos(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	ctx := context.Background()
	require.NoError(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementEntrada, 5, dono))

	err := f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementSaida, 7, dono)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := f.uc.GetProduct(companyID, p.ID, dono)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity, "a rejeição não deixa nenhuma alteração")

	movs, err := f.uc.ListMovements(companyID, dono)
	require.NoError(t, err)
	assert.Len(t, movs, 1, "a movimentação rejeitada não fica registada")
}

func TestApplyStockMovement_ValidacaoDeTipoEQuantidade(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, "ajuste", 1, dono), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementEntrada, 0, dono), domain.ErrInvalidInput)
	assert.ErrorIs(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementSaida, -3, dono), domain.ErrInvalidInput)
}

func TestApplyStockMovement_ProdutoDeOutraEmpresa(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)

	// O mesmo utilizador não pode movimentar via outra empresa.
	err := f.uc.ApplyStockMovement(context.Background(), "empresa-2", p.ID, entity.MovementEntrada, 1, dono)
	assert.Error(t, err)
}

func TestApplyStockMovement_GravaSnapshotDoAtor(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	require.NoError(t, f.uc.ApplyStockMovement(context.Background(), companyID, p.ID, entity.MovementEntrada, 4, operador))

	movs, err := f.uc.ListMovements(companyID, dono)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, operador, movs[0].Actor)
	assert.Equal(t, entity.MovementEntrada, movs[0].Type)
	assert.Equal(t, int64(4), movs[0].QuantityMoved)
}

// Movimentações concorrentes sobre o mesmo produto serializam: a quantidade
// final é exatamente a soma das aplicadas e cada saída que passasse o stock
// a negativo é rejeitada na íntegra.
func TestApplyStockMovement_ConcorrenciaLinearizavel(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	ctx := context.Background()
	require.NoError(t, f.uc.ApplyStockMovement(ctx, companyID, p.ID, entity.MovementEntrada, 100, dono))

	const workers = 10
	const perWorker = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	rejected := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				movType := entity.MovementEntrada
				if w%2 == 0 {
					movType = entity.MovementSaida
				}
				err := f.uc.ApplyStockMovement(ctx, companyID, p.ID, movType, 3, operador)
				if err != nil {
					mu.Lock()
					rejected++
					mu.Unlock()
					require.ErrorIs(t, err, domain.ErrInsufficientStock)
				}
			}
		}(w)
	}
	wg.Wait()

	got, err := f.uc.GetProduct(companyID, p.ID, dono)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Quantity, int64(0), "a quantidade nunca fica negativa")

	// Reconstrução: 100 inicial + 3 por entrada - 3 por saída aplicada.
	movs, err := f.uc.ListMovements(companyID, dono)
	require.NoError(t, err)
	var expected int64 = 0
	for _, m := range movs {
		if m.Type == entity.MovementEntrada {
			expected += m.QuantityMoved
		} else {
			expected -= m.QuantityMoved
		}
	}
	assert.Equal(t, expected, got.Quantity,
		"a quantidade final corresponde exatamente às movimentações registadas")
	assert.Equal(t, workers*perWorker+1-rejected, len(movs),
		"cada aplicação aceite regista exatamente uma movimentação")
}

// ──────────────────────────────────────────────────────────────────────────────
// Fornecedores
// ──────────────────────────────────────────────────────────────────────────────

func TestSuppliers_CRUD(t *testing.T) {
	f := newFixture(t)

	sup, err := f.uc.AddSupplier(companyID, dto.SupplierRequest{Name: "Fornecedora Sul", Contact: "Rita", Phone: "912345678"}, dono)
	require.NoError(t, err)

	updated, err := f.uc.UpdateSupplier(companyID, sup.ID, dto.SupplierRequest{Name: "Fornecedora Sul, Lda", Contact: "Rita", Phone: "912345678"}, dono)
	require.NoError(t, err)
	assert.Equal(t, "Fornecedora Sul, Lda", updated.Name)

	list, err := f.uc.ListSuppliers(companyID, operador)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, f.uc.DeleteSupplier(companyID, sup.ID, dono))
	list, err = f.uc.ListSuppliers(companyID, operador)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeleteSupplier_ProdutoMantemNomeDesnormalizado(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)

	require.NoError(t, f.uc.DeleteSupplier(companyID, p.SupplierID, dono))

	got, err := f.uc.GetProduct(companyID, p.ID, dono)
	require.NoError(t, err)
	assert.Equal(t, "Fornecedora Norte", got.SupplierName,
		"o produto mantém o nome do fornecedor apagado")
}
