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

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementação do porto UserRepository sobre PostgreSQL. As
// adesões vivem na tabela memberships e são materializadas no mapa
// Companies e na lista CompanyIDs (ordenada por joined_at).
type UserRepo struct {
	q Querier
}

// NewUserRepository constrói o adaptador de utilizadores. Aceita pool ou tx.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste o utilizador e as adesões iniciais.
func (r *UserRepo) Create(user *entity.User) error {
	ctx := context.Background()
	query := `
		INSERT INTO users (uid, email, display_name, password_hash, active_company_id, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)`
	_, err := r.q.Exec(ctx, query,
		user.UID, user.Email, user.DisplayName, user.PasswordHash, user.ActiveCompanyID, user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	for _, companyID := range user.CompanyIDs {
		if err := r.SetMembership(user.UID, companyID, user.Companies[companyID]); err != nil {
			return err
		}
	}
	return nil
}

// GetByUID obtém um utilizador por UID, com as adesões materializadas.
func (r *UserRepo) GetByUID(uid string) (*entity.User, error) {
	return r.findOne(`SELECT uid, email, display_name, password_hash, COALESCE(active_company_id, ''), created_at
		FROM users WHERE uid = $1`, uid)
}

// GetByEmail obtém um utilizador por email.
func (r *UserRepo) GetByEmail(email string) (*entity.User, error) {
	return r.findOne(`SELECT uid, email, display_name, password_hash, COALESCE(active_company_id, ''), created_at
		FROM users WHERE email = $1`, email)
}

func (r *UserRepo) findOne(query, arg string) (*entity.User, error) {
	ctx := context.Background()
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.ActiveCompanyID, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := r.loadMemberships(ctx, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) loadMemberships(ctx context.Context, u *entity.User) error {
	rows, err := r.q.Query(ctx,
		`SELECT company_id, role FROM memberships WHERE user_id = $1 ORDER BY joined_at`, u.UID)
	if err != nil {
		return fmt.Errorf("load memberships: %w", err)
	}
	defer rows.Close()
	u.Companies = map[string]string{}
	u.CompanyIDs = nil
	for rows.Next() {
		var companyID, role string
		if err := rows.Scan(&companyID, &role); err != nil {
			return fmt.Errorf("scan membership: %w", err)
		}
		u.Companies[companyID] = role
		u.CompanyIDs = append(u.CompanyIDs, companyID)
	}
	return rows.Err()
}

// ListByCompany lista os membros de uma empresa por ordem de adesão.
func (r *UserRepo) ListByCompany(companyID string) ([]*entity.User, error) {
	ctx := context.Background()
	rows, err := r.q.Query(ctx, `
		SELECT u.uid, u.email, u.display_name, u.password_hash, COALESCE(u.active_company_id, ''), u.created_at
		FROM users u
		JOIN memberships m ON m.user_id = u.uid
		WHERE m.company_id = $1
		ORDER BY m.joined_at`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		var u entity.User
		if err := rows.Scan(&u.UID, &u.Email, &u.DisplayName, &u.PasswordHash, &u.ActiveCompanyID, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, u := range list {
		if err := r.loadMemberships(ctx, u); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// UpdateDisplayName altera o nome de apresentação. Os snapshots
// desnormalizados já gravados em movimentos e logs não são tocados.
func (r *UserRepo) UpdateDisplayName(uid, displayName string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE users SET display_name = $2 WHERE uid = $1`, uid, displayName)
	if err != nil {
		return fmt.Errorf("update display name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// SetMembership cria ou substitui a adesão com a função dada.
func (r *UserRepo) SetMembership(uid, companyID, role string) error {
	query := `
		INSERT INTO memberships (user_id, company_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, company_id)
		DO UPDATE SET role = EXCLUDED.role`
	if _, err := r.q.Exec(context.Background(), query, uid, companyID, role); err != nil {
		return fmt.Errorf("set membership: %w", err)
	}
	return nil
}

// RemoveMembership apaga a adesão (uid, companyID); não falha se não existir.
func (r *UserRepo) RemoveMembership(uid, companyID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM memberships WHERE user_id = $1 AND company_id = $2`, uid, companyID)
	if err != nil {
		return fmt.Errorf("remove membership: %w", err)
	}
	return nil
}

// SetActiveCompany define a empresa ativa; vazio limpa para NULL.
func (r *UserRepo) SetActiveCompany(uid, companyID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE users SET active_company_id = NULLIF($2, '') WHERE uid = $1`, uid, companyID)
	if err != nil {
		return fmt.Errorf("set active company: %w", err)
	}
	return nil
}
