package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var (
	_ repository.CompanyRepository    = (*CompanyRepo)(nil)
	_ repository.MembershipRepository = (*MembershipRepo)(nil)
)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, name, slug, status, created_at, updated_at`

func scanCompany(row rowScanner) (*entity.Company, error) {
	var c entity.Company
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
}

// GetBySlug obtiene una empresa por slug.
func (r *CompanyRepo) GetBySlug(ctx context.Context, slug string) (*entity.Company, error) {
	return r.getOne(ctx, `SELECT `+companyColumns+` FROM companies WHERE slug = $1`, slug)
}

func (r *CompanyRepo) getOne(ctx context.Context, query, arg string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get company", err)
	}
	return c, nil
}

// ListAll devuelve todas las empresas por fecha de creación.
func (r *CompanyRepo) ListAll(ctx context.Context) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at, id`)
	if err != nil {
		return nil, opFailed("list companies", err)
	}
	defer rows.Close()
	var out []*entity.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, opFailed("scan company", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list companies", err)
	}
	return out, nil
}

// MembershipRepo membresías usuario-empresa con los datos de la empresa.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador de membresías.
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipSelect = `
	SELECT m.id, m.user_id, m.company_id, m.role, m.is_active, m.created_at, m.updated_at,
	       c.id, c.name, c.slug, c.status, c.created_at, c.updated_at
	FROM company_memberships m
	JOIN companies c ON c.id = m.company_id`

func scanMembership(row rowScanner) (*entity.MembershipWithCompany, error) {
	var mc entity.MembershipWithCompany
	m, c := &mc.Membership, &mc.Company
	err := row.Scan(
		&m.ID, &m.UserID, &m.CompanyID, &m.Role, &m.IsActive, &m.CreatedAt, &m.UpdatedAt,
		&c.ID, &c.Name, &c.Slug, &c.Status, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &mc, nil
}

// Get devuelve la membresía (activa o no) de userID en companyID.
func (r *MembershipRepo) Get(ctx context.Context, userID, companyID string) (*entity.MembershipWithCompany, error) {
	mc, err := scanMembership(r.q.QueryRow(ctx, membershipSelect+` WHERE m.user_id = $1 AND m.company_id = $2`, userID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, opFailed("get membership", err)
	}
	return mc, nil
}

// ListByUser membresías del usuario por fecha de creación (orden estable).
func (r *MembershipRepo) ListByUser(ctx context.Context, userID string) ([]entity.MembershipWithCompany, error) {
	rows, err := r.q.Query(ctx, membershipSelect+` WHERE m.user_id = $1 ORDER BY m.created_at, m.id`, userID)
	if err != nil {
		return nil, opFailed("list memberships", err)
	}
	defer rows.Close()
	var out []entity.MembershipWithCompany
	for rows.Next() {
		mc, err := scanMembership(rows)
		if err != nil {
			return nil, opFailed("scan membership", err)
		}
		out = append(out, *mc)
	}
	if err := rows.Err(); err != nil {
		return nil, opFailed("list memberships", err)
	}
	return out, nil
}
