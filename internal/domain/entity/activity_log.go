package entity

import "time"

// Ações registadas no log de atividades (valores persistidos).
const (
	ActionCriarProduto      = "CRIAR_PRODUTO"
	ActionEditarProduto     = "EDITAR_PRODUTO"
	ActionApagarProduto     = "APAGAR_PRODUTO"
	ActionMovimentarStock   = "MOVIMENTAR_STOCK"
	ActionCriarFornecedor   = "CRIAR_FORNECEDOR"
	ActionEditarFornecedor  = "EDITAR_FORNECEDOR"
	ActionApagarFornecedor  = "APAGAR_FORNECEDOR"
	ActionCriarConvite      = "CRIAR_CONVITE"
	ActionCancelarConvite   = "CANCELAR_CONVITE"
	ActionAceitarConvite    = "ACEITAR_CONVITE"
	ActionRemoverUtilizador = "REMOVER_UTILIZADOR"
	ActionSairDaEmpresa     = "SAIR_DA_EMPRESA"
	ActionEditarFuncao      = "EDITAR_FUNÇÃO"
)

// ActivityLog representa um registo do log de atividades de uma empresa.
// Append-only: nunca é alterado nem apagado.
type ActivityLog struct {
	ID        string
	CompanyID string
	Actor     Actor
	Action    string
	Details   string
	Timestamp time.Time
}
