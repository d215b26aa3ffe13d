package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/pkg/gstin"
)

// CompanyUseCase perfil de la empresa del usuario autenticado.
type CompanyUseCase struct {
	repo repository.CompanyRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo}
}

// Get devuelve la empresa del actor. Cualquier rol puede leerla.
func (uc *CompanyUseCase) Get(ctx context.Context, actor scope.Actor) (*dto.CompanyResponse, error) {
	company, err := uc.load(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return EntityToCompanyResponse(company), nil
}

// Update modifica perfil y datos bancarios. Solo SUPER_ADMIN.
func (uc *CompanyUseCase) Update(ctx context.Context, actor scope.Actor, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	company, err := uc.load(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&company.Name, in.Name)
	if in.GSTIN != nil {
		company.GSTIN = gstin.Normalize(*in.GSTIN)
	}
	set(&company.Address, in.Address)
	set(&company.Phone, in.Phone)
	set(&company.Email, in.Email)
	set(&company.BankName, in.BankName)
	set(&company.BankAccount, in.BankAccount)
	set(&company.IFSC, in.IFSC)
	if company.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("company_id", company.ID).Msg("perfil de empresa actualizado")
	return EntityToCompanyResponse(company), nil
}

func (uc *CompanyUseCase) load(ctx context.Context, id string) (*entity.Company, error) {
	if id == "" {
		return nil, domain.ErrUnauthorized
	}
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return company, nil
}

// EntityToCompanyResponse mapea la entidad a su DTO.
func EntityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:          c.ID,
		Name:        c.Name,
		GSTIN:       c.GSTIN,
		Address:     c.Address,
		Phone:       c.Phone,
		Email:       c.Email,
		BankName:    c.BankName,
		BankAccount: c.BankAccount,
		IFSC:        c.IFSC,
		CreatedAt:   c.CreatedAt,
	}
}
