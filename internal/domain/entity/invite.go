package entity

import "time"

// Invite representa um convite pendente de adesão a uma empresa. É apagado
// ao ser aceite, rejeitado ou cancelado; existe no máximo um convite
// pendente por par (email, empresa).
type Invite struct {
	ID          string
	CompanyID   string
	CompanyName string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   time.Time
}
