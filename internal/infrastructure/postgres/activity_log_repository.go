package postgres

import (
	"context"
	"fmt"

	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo implementação do porto ActivityLogRepository sobre
// PostgreSQL. O log é append-only.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository constrói o adaptador do log de atividades.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create regista uma entrada no log.
func (r *ActivityLogRepo) Create(l *entity.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (id, company_id, actor_uid, actor_name, actor_email, action, details, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.CompanyID, l.Actor.UID, l.Actor.DisplayName, l.Actor.Email,
		l.Action, l.Details, l.Timestamp)
	if err != nil {
		return fmt.Errorf("insert activity log: %w", err)
	}
	return nil
}

// ListByCompany lista as entradas da empresa, da mais recente para a mais
// antiga.
func (r *ActivityLogRepo) ListByCompany(companyID string) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, company_id, actor_uid, actor_name, actor_email, action, details, timestamp
		FROM activity_logs
		WHERE company_id = $1
		ORDER BY timestamp DESC`
	rows, err := r.q.Query(context.Background(), query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Actor.UID, &l.Actor.DisplayName, &l.Actor.Email,
			&l.Action, &l.Details, &l.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
