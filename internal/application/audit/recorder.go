// Package audit regista o log de atividades de cada empresa.
package audit

import (
	"time"

	"github.com/google/uuid"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
	"github.com/intellistock/api/internal/watch"
	"github.com/intellistock/api/pkg/logger"
)

// Recorder acrescenta registos imutáveis ao log de atividades. O registo é
// best-effort e fica fora da unidade atómica da mutação que o originou: se
// falhar, a mutação não é revertida e a falha fica apenas no log técnico.
// O estado de negócio reflete sempre a realidade, mesmo com lacunas na
// trilha de auditoria.
type Recorder struct {
	logs   repository.ActivityLogRepository
	events *watch.Broker
	log    *logger.Logger
}

// NewRecorder constrói o recorder. events pode ser nil (sem push).
func NewRecorder(logs repository.ActivityLogRepository, events *watch.Broker, log *logger.Logger) *Recorder {
	return &Recorder{logs: logs, events: events, log: log}
}

// Record acrescenta um registo com timestamp atribuído pelo servidor.
// Nunca devolve erro: falhas são engolidas com um aviso.
func (r *Recorder) Record(companyID string, actor entity.Actor, action, details string) {
	if companyID == "" || action == "" {
		return
	}
	entry := &entity.ActivityLog{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Actor:     actor,
		Action:    action,
		Details:   details,
		Timestamp: time.Now(),
	}
	if err := r.logs.Create(entry); err != nil {
		if r.log != nil {
			r.log.Warn().Err(err).
				Str("company_id", companyID).
				Str("action", action).
				Msg("falhou o registo no log de atividades")
		}
		return
	}
	if r.events != nil {
		r.events.Notify(companyID, watch.TopicLogs)
	}
}

// List devolve os registos da empresa, mais recentes primeiro.
func (r *Recorder) List(companyID string) ([]*entity.ActivityLog, error) {
	return r.logs.ListByCompany(companyID)
}
