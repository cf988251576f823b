package dto

// CreateCompanyRequest dados para criar uma empresa.
type CreateCompanyRequest struct {
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

// UpdateCompanyRequest dados para atualizar as definições da empresa.
type UpdateCompanyRequest struct {
	Name string `json:"name"`
	CNPJ string `json:"cnpj"`
}

// TransferOwnershipRequest transferência de propriedade da empresa.
type TransferOwnershipRequest struct {
	NewOwnerID string `json:"newOwnerId"`
}

// CompanyResponse representação de uma empresa.
type CompanyResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	CNPJ    string `json:"cnpj,omitempty"`
	OwnerID string `json:"ownerId"`
}
