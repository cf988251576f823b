package entity

import "time"

// Company representa uma empresa (tenant). Todos os produtos, fornecedores,
// movimentos e logs pertencem a exatamente uma empresa. OwnerID aponta para
// o único utilizador com função Dono.
type Company struct {
	ID        string
	Name      string
	CNPJ      string // identificação fiscal, opcional
	OwnerID   string
	CreatedAt time.Time
}
