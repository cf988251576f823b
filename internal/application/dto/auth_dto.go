package dto

import "time"

// RegisterRequest registo de um novo utilizador.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest credenciais de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest edição do próprio perfil.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
}

// UserResponse representação pública de um utilizador.
type UserResponse struct {
	UID             string            `json:"uid"`
	Email           string            `json:"email"`
	DisplayName     string            `json:"displayName"`
	Companies       map[string]string `json:"companies"`
	CompanyIDs      []string          `json:"companyIds"`
	ActiveCompanyID string            `json:"activeCompanyId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// AuthResponse token + utilizador autenticado.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}
