package dto

import "time"

// CreateInviteRequest convite de adesão a uma empresa.
type CreateInviteRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// InviteResponse representação de um convite pendente.
type InviteResponse struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"companyId"`
	CompanyName string    `json:"companyName"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ChangeRoleRequest alteração da função de um membro.
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// MemberResponse representação de um membro da empresa.
type MemberResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
}

// ActivityLogResponse registo do log de atividades.
type ActivityLogResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
	UserName  string    `json:"userName"`
	UserEmail string    `json:"userEmail"`
}
