// Package memory implementación en memoria de los puertos de persistencia y del TxRunner.
// Las transacciones se serializan y restauran una instantánea si fn falla, lo que permite
// probar atomicidad sin PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/Seguros-api/internal/application/ports"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type permKey struct {
	role   entity.Role
	module entity.Module
}

type tables struct {
	users       map[string]*entity.User
	companies   map[string]*entity.Company
	memberships map[string]*entity.CompanyMembership
	permissions map[permKey]entity.Permissions
	policies    map[string]*entity.Policy
	payments    map[string]*entity.Payment
	claims      map[string]*entity.Claim
	commissions map[string]*entity.Commission
	rules       map[string]*entity.CommissionRule
	renewals    map[string]*entity.Renewal
}

func newTables() tables {
	return tables{
		users:       map[string]*entity.User{},
		companies:   map[string]*entity.Company{},
		memberships: map[string]*entity.CompanyMembership{},
		permissions: map[permKey]entity.Permissions{},
		policies:    map[string]*entity.Policy{},
		payments:    map[string]*entity.Payment{},
		claims:      map[string]*entity.Claim{},
		commissions: map[string]*entity.Commission{},
		rules:       map[string]*entity.CommissionRule{},
		renewals:    map[string]*entity.Renewal{},
	}
}

// Los valores almacenados nunca se mutan en sitio (se reemplazan), así que copiar
// los mapas basta como instantánea.
func (t tables) snapshot() tables {
	return tables{
		users:       copyMap(t.users),
		companies:   copyMap(t.companies),
		memberships: copyMap(t.memberships),
		permissions: copyMap(t.permissions),
		policies:    copyMap(t.policies),
		payments:    copyMap(t.payments),
		claims:      copyMap(t.claims),
		commissions: copyMap(t.commissions),
		rules:       copyMap(t.rules),
		renewals:    copyMap(t.renewals),
	}
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Store base de datos en memoria.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	t    tables

	// FailPaymentInsert si no es nil, CreateBatch de pagos devuelve este error (simula fallo de BD).
	FailPaymentInsert error
}

// NewStore crea una base vacía.
func NewStore() *Store {
	return &Store{t: newTables()}
}

// Run ejecuta fn en una "transacción": serializada, con rollback a la instantánea si fn falla.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrOperationFailed, err)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snap := s.t.snapshot()
	s.mu.Unlock()

	if err := fn(s.Repos()); err != nil {
		s.mu.Lock()
		s.t = snap
		s.mu.Unlock()
		return err
	}
	return nil
}

// Repos repositorios sobre el store.
func (s *Store) Repos() ports.Repos {
	return ports.Repos{
		Policies:    s.Policies(),
		Payments:    s.Payments(),
		Claims:      s.Claims(),
		Commissions: s.Commissions(),
		Renewals:    s.Renewals(),
	}
}

// Counts número de filas por tabla (tests de cascada).
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return map[string]int{
		"policies":    len(s.t.policies),
		"payments":    len(s.t.payments),
		"claims":      len(s.t.claims),
		"commissions": len(s.t.commissions),
		"renewals":    len(s.t.renewals),
	}
}

// AddUser siembra un usuario.
func (s *Store) AddUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.t.users[u.ID] = &c
}

// AddCompany siembra una empresa.
func (s *Store) AddCompany(c *entity.Company) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.t.companies[c.ID] = &cp
}

// AddMembership siembra una membresía; respeta la unicidad (user, company).
func (s *Store) AddMembership(m *entity.CompanyMembership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.t.memberships {
		if existing.UserID == m.UserID && existing.CompanyID == m.CompanyID {
			return domain.ErrDuplicate
		}
	}
	cp := *m
	s.t.memberships[m.ID] = &cp
	return nil
}

// UpdateCompanyStatus cambia el estado de una empresa.
func (s *Store) UpdateCompanyStatus(id string, status entity.CompanyStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.t.companies[id]; ok {
		cp := *c
		cp.Status = status
		s.t.companies[id] = &cp
	}
}

// hasChildren simula las FK hacia policies. Llamar con mu tomado.
func (s *Store) hasChildren(policyID string) bool {
	for _, p := range s.t.payments {
		if p.PolicyID == policyID {
			return true
		}
	}
	for _, c := range s.t.claims {
		if c.PolicyID == policyID {
			return true
		}
	}
	for _, c := range s.t.commissions {
		if c.PolicyID == policyID {
			return true
		}
	}
	for _, r := range s.t.renewals {
		if r.PolicyID == policyID {
			return true
		}
	}
	return false
}
