package repository

import "context"

// Repos reúne os repositórios atados a uma mesma transação.
type Repos struct {
	Users     UserRepository
	Companies CompanyRepository
	Products  ProductRepository
	Suppliers SupplierRepository
	Movements StockMovementRepository
	Invites   InviteRepository
	Logs      ActivityLogRepository
}

// TxRunner executa fn dentro de uma transação: todas as leituras veem um
// snapshot consistente e as escritas são aplicadas todas ou nenhuma.
// Contenção transitória (serialização, deadlock) é reexecutada de forma
// transparente; qualquer outro erro aborta a unidade sem efeitos parciais.
type TxRunner interface {
	Run(ctx context.Context, fn func(r Repos) error) error
}
