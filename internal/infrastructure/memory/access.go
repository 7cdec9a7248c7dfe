package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
)

var (
	_ repository.UserRepository       = UserRepo{}
	_ repository.CompanyRepository    = CompanyRepo{}
	_ repository.MembershipRepository = MembershipRepo{}
	_ repository.PermissionRepository = PermissionRepo{}
)

// UserRepo usuarios en memoria.
type UserRepo struct{ s *Store }

// Users repositorio de usuarios.
func (s *Store) Users() UserRepo { return UserRepo{s} }

func (r UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.t.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r UserRepo) SetLastActiveCompany(_ context.Context, userID, companyID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	c := *u
	id := companyID
	c.LastActiveCompanyID = &id
	r.s.t.users[userID] = &c
	return nil
}

// CompanyRepo empresas en memoria.
type CompanyRepo struct{ s *Store }

// Companies repositorio de empresas.
func (s *Store) Companies() CompanyRepo { return CompanyRepo{s} }

func (r CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r CompanyRepo) GetBySlug(_ context.Context, slug string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.t.companies {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r CompanyRepo) ListAll(_ context.Context) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Company, 0, len(r.s.t.companies))
	for _, c := range r.s.t.companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MembershipRepo membresías en memoria.
type MembershipRepo struct{ s *Store }

// Memberships repositorio de membresías.
func (s *Store) Memberships() MembershipRepo { return MembershipRepo{s} }

func (r MembershipRepo) Get(_ context.Context, userID, companyID string) (*entity.MembershipWithCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, m := range r.s.t.memberships {
		if m.UserID != userID || m.CompanyID != companyID {
			continue
		}
		c, ok := r.s.t.companies[companyID]
		if !ok {
			return nil, nil
		}
		return &entity.MembershipWithCompany{Membership: *m, Company: *c}, nil
	}
	return nil, nil
}

func (r MembershipRepo) ListByUser(_ context.Context, userID string) ([]entity.MembershipWithCompany, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.MembershipWithCompany
	for _, m := range r.s.t.memberships {
		if m.UserID != userID {
			continue
		}
		if c, ok := r.s.t.companies[m.CompanyID]; ok {
			out = append(out, entity.MembershipWithCompany{Membership: *m, Company: *c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Membership, out[j].Membership
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out, nil
}

// PermissionRepo matriz de permisos en memoria.
type PermissionRepo struct{ s *Store }

// Permissions repositorio de la matriz.
func (s *Store) Permissions() PermissionRepo { return PermissionRepo{s} }

func (r PermissionRepo) Get(_ context.Context, role entity.Role, module entity.Module) (*entity.ModulePermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.permissions[permKey{role, module}]
	if !ok {
		return nil, nil
	}
	return &entity.ModulePermission{Role: role, Module: module, Permissions: p}, nil
}

func (r PermissionRepo) ListByRole(_ context.Context, role entity.Role) ([]*entity.ModulePermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ModulePermission
	for _, m := range entity.Modules() {
		if p, ok := r.s.t.permissions[permKey{role, m}]; ok {
			out = append(out, &entity.ModulePermission{Role: role, Module: m, Permissions: p})
		}
	}
	return out, nil
}

func (r PermissionRepo) Upsert(_ context.Context, perm *entity.ModulePermission) error {
	if perm.Role == entity.RoleSuperAdmin {
		return domain.ErrImmutableRole
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.permissions[permKey{perm.Role, perm.Module}] = perm.Permissions
	return nil
}
