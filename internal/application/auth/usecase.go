package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Seguros-api/internal/application/access"
	"github.com/jhoicas/Seguros-api/internal/application/dto"
	"github.com/jhoicas/Seguros-api/internal/domain"
	"github.com/jhoicas/Seguros-api/internal/domain/entity"
	"github.com/jhoicas/Seguros-api/internal/domain/repository"
	"github.com/jhoicas/Seguros-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login y datos de la sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tenants  *access.TenantResolver
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tenants *access.TenantResolver, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tenants: tenants, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + usuario.
// El token lleva solo (userID, rol global); la empresa se resuelve en cada petición.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, domain.Invalid("email", "email y password son obligatorios")
	}
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  ToUserResponse(user),
	}, nil
}

// Me devuelve el usuario con la empresa resuelta y las empresas que puede seleccionar.
func (uc *AuthUseCase) Me(ctx context.Context, scope access.Scope) (*dto.MeResponse, error) {
	companies, err := uc.Companies(ctx, scope.User)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		User:            ToUserResponse(scope.User),
		ActiveCompanyID: scope.CompanyID,
		Global:          scope.Global,
		Companies:       companies,
	}, nil
}

// Companies empresas disponibles (se excluyen SUSPENDIDO y CANCELADO).
func (uc *AuthUseCase) Companies(ctx context.Context, user *entity.User) ([]dto.CompanyOptionResponse, error) {
	options, err := uc.tenants.AvailableCompanies(ctx, user)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyOptionResponse, 0, len(options))
	for _, o := range options {
		out = append(out, dto.CompanyOptionResponse{
			ID:     o.Company.ID,
			Name:   o.Company.Name,
			Slug:   o.Company.Slug,
			Status: string(o.Company.Status),
			Role:   string(o.Role),
		})
	}
	return out, nil
}

// ToUserResponse convierte la entidad en su salida HTTP.
func ToUserResponse(u *entity.User) dto.UserResponse {
	if u == nil {
		return dto.UserResponse{}
	}
	return dto.UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Name:                u.Name,
		Role:                string(u.Role),
		Status:              u.Status,
		LastActiveCompanyID: u.LastActiveCompanyID,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
	}
}
