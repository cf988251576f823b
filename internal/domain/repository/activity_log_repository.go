package repository

import "github.com/intellistock/api/internal/domain/entity"

// ActivityLogRepository porto de persistência para o log de atividades.
// Append-only: não existe atualização nem remoção.
type ActivityLogRepository interface {
	Create(log *entity.ActivityLog) error
	ListByCompany(companyID string) ([]*entity.ActivityLog, error)
}
