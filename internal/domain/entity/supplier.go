package entity

import "time"

// Supplier representa um fornecedor de uma empresa.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	Contact   string
	Phone     string
	CreatedAt time.Time
}
