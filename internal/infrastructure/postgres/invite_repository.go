package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/intellistock/api/internal/domain"
	"github.com/intellistock/api/internal/domain/entity"
	"github.com/intellistock/api/internal/domain/repository"
)

var _ repository.InviteRepository = (*InviteRepo)(nil)

// InviteRepo implementação do porto InviteRepository sobre PostgreSQL.
type InviteRepo struct {
	q Querier
}

// NewInviteRepository constrói o adaptador de convites.
func NewInviteRepository(q Querier) *InviteRepo {
	return &InviteRepo{q: q}
}

const inviteColumns = `id, company_id, company_name, email, display_name, role, created_at`

// Create persiste um convite. A restrição UNIQUE (email, company_id) garante
// no máximo um convite pendente por par email/empresa.
func (r *InviteRepo) Create(invite *entity.Invite) error {
	query := `
		INSERT INTO invites (id, company_id, company_name, email, display_name, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		invite.ID, invite.CompanyID, invite.CompanyName, invite.Email,
		invite.DisplayName, invite.Role, invite.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateInvite
		}
		return fmt.Errorf("insert invite: %w", err)
	}
	return nil
}

// GetByID obtém um convite por ID.
func (r *InviteRepo) GetByID(id string) (*entity.Invite, error) {
	return r.findOne(`SELECT `+inviteColumns+` FROM invites WHERE id = $1`, id)
}

// Delete apaga um convite. Devolve ErrInviteNotFound quando o convite já não
// existe, o que resolve aceitações concorrentes: só um dos delete vê a linha.
func (r *InviteRepo) Delete(id string) error {
	tag, err := r.q.Exec(context.Background(), `DELETE FROM invites WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInviteNotFound
	}
	return nil
}

// ListByCompany lista os convites pendentes da empresa.
func (r *InviteRepo) ListByCompany(companyID string) ([]*entity.Invite, error) {
	return r.findMany(`SELECT `+inviteColumns+` FROM invites WHERE company_id = $1 ORDER BY created_at`, companyID)
}

// ListByEmail lista os convites pendentes dirigidos a um email.
func (r *InviteRepo) ListByEmail(email string) ([]*entity.Invite, error) {
	return r.findMany(`SELECT `+inviteColumns+` FROM invites WHERE email = $1 ORDER BY created_at`, email)
}

// FirstByEmail devolve o convite pendente mais antigo para o email, ou nil.
func (r *InviteRepo) FirstByEmail(email string) (*entity.Invite, error) {
	return r.findOne(`SELECT `+inviteColumns+` FROM invites WHERE email = $1 ORDER BY created_at LIMIT 1`, email)
}

func (r *InviteRepo) findOne(query string, arg any) (*entity.Invite, error) {
	var i entity.Invite
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&i.ID, &i.CompanyID, &i.CompanyName, &i.Email, &i.DisplayName, &i.Role, &i.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	return &i, nil
}

func (r *InviteRepo) findMany(query string, arg any) ([]*entity.Invite, error) {
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list invites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invite
	for rows.Next() {
		var i entity.Invite
		if err := rows.Scan(&i.ID, &i.CompanyID, &i.CompanyName, &i.Email, &i.DisplayName, &i.Role, &i.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invite: %w", err)
		}
		list = append(list, &i)
	}
	return list, rows.Err()
}
