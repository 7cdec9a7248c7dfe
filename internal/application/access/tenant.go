package access

import (
	"context"
	"fmt"

	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/logger"
)

// TenantResolver fija la empresa activa de cada petición. Se ejecuta en cada petición;
// no hay estado implícito entre peticiones salvo el puntero "última empresa activa".
type TenantResolver struct {
	users       repository.UserRepository
	companies   repository.CompanyRepository
	memberships repository.MembershipRepository
	log         *logger.Logger
}

// NewTenantResolver construye el resolvedor.
func NewTenantResolver(
	users repository.UserRepository,
	companies repository.CompanyRepository,
	memberships repository.MembershipRepository,
	log *logger.Logger,
) *TenantResolver {
	return &TenantResolver{users: users, companies: companies, memberships: memberships, log: log.Component("tenant")}
}

// CompanyOption empresa disponible para el usuario y su rol en ella (vacío para SUPER_ADMIN).
type CompanyOption struct {
	Company entity.Company
	Role    entity.MembershipRole
}

// Resolve determina la empresa activa.
//   - requested != "": debe existir membresía activa en una empresa disponible, o el usuario
//     debe ser SUPER_ADMIN (que además acepta GlobalCompany). Si no, ErrForbiddenCompany.
//   - requested == "": última empresa activa si sigue siendo válida; si no, la primera membresía
//     por fecha de creación. SUPER_ADMIN sin selección obtiene la vista global.
//
// Sin ninguna empresa posible devuelve un Scope con NoCompanySelected() == true.
func (r *TenantResolver) Resolve(ctx context.Context, user *entity.User, requested string) (Scope, error) {
	if user == nil {
		return Scope{}, domain.ErrUnauthorized
	}
	if requested != "" {
		return r.resolveRequested(ctx, user, requested)
	}
	if user.IsSuperAdmin() {
		return Scope{User: user, Global: true}, nil
	}

	if user.LastActiveCompanyID != nil && *user.LastActiveCompanyID != "" {
		m, err := r.memberships.Get(ctx, user.ID, *user.LastActiveCompanyID)
		if err != nil {
			return Scope{}, fmt.Errorf("membresía: %w", err)
		}
		if usable(m) {
			return Scope{User: user, CompanyID: m.Company.ID}, nil
		}
	}

	list, err := r.memberships.ListByUser(ctx, user.ID)
	if err != nil {
		return Scope{}, fmt.Errorf("membresías: %w", err)
	}
	for i := range list {
		if usable(&list[i]) {
			companyID := list[i].Company.ID
			r.remember(ctx, user, companyID)
			return Scope{User: user, CompanyID: companyID}, nil
		}
	}
	return Scope{User: user}, nil
}

func (r *TenantResolver) resolveRequested(ctx context.Context, user *entity.User, requested string) (Scope, error) {
	if user.IsSuperAdmin() {
		if requested == GlobalCompany {
			return Scope{User: user, Global: true}, nil
		}
		company, err := r.companies.GetByID(ctx, requested)
		if err != nil {
			return Scope{}, fmt.Errorf("empresa: %w", err)
		}
		if company == nil {
			return Scope{}, domain.ErrNotFound
		}
		// sin puntero: sin encabezado el SUPER_ADMIN siempre vuelve a la vista global
		return Scope{User: user, CompanyID: company.ID}, nil
	}
	if requested == GlobalCompany {
		return Scope{}, domain.ErrForbiddenCompany
	}
	m, err := r.memberships.Get(ctx, user.ID, requested)
	if err != nil {
		return Scope{}, fmt.Errorf("membresía: %w", err)
	}
	if !usable(m) {
		return Scope{}, domain.ErrForbiddenCompany
	}
	r.remember(ctx, user, m.Company.ID)
	return Scope{User: user, CompanyID: m.Company.ID}, nil
}

// AvailableCompanies empresas que el usuario puede seleccionar. Se excluyen las
// SUSPENDIDO y CANCELADO.
func (r *TenantResolver) AvailableCompanies(ctx context.Context, user *entity.User) ([]CompanyOption, error) {
	if user.IsSuperAdmin() {
		all, err := r.companies.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]CompanyOption, 0, len(all))
		for _, c := range all {
			if c.Status.Available() {
				out = append(out, CompanyOption{Company: *c})
			}
		}
		return out, nil
	}
	list, err := r.memberships.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	out := make([]CompanyOption, 0, len(list))
	for i := range list {
		if usable(&list[i]) {
			out = append(out, CompanyOption{Company: list[i].Company, Role: list[i].Membership.Role})
		}
	}
	return out, nil
}

// remember actualiza el puntero de última empresa activa. Un fallo aquí no invalida la resolución.
func (r *TenantResolver) remember(ctx context.Context, user *entity.User, companyID string) {
	if user.LastActiveCompanyID != nil && *user.LastActiveCompanyID == companyID {
		return
	}
	if err := r.users.SetLastActiveCompany(ctx, user.ID, companyID); err != nil {
		r.log.Warn().Err(err).Str("user_id", user.ID).Str("company_id", companyID).Msg("no se pudo guardar la empresa activa")
		return
	}
	id := companyID
	user.LastActiveCompanyID = &id
}

func usable(m *entity.MembershipWithCompany) bool {
	return m != nil && m.Membership.IsActive && m.Company.Status.Available()
}
