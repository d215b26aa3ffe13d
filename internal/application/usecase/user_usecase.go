package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/repository"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/scope"
)

// UserUseCase aplica reglas de negocio para usuarios y la jerarquía manager -> reportes.
type UserUseCase struct {
	repo     repository.UserRepository
	resolver *scope.Resolver
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, resolver *scope.Resolver) *UserUseCase {
	return &UserUseCase{repo: repo, resolver: resolver}
}

// Create da de alta un usuario. Solo SUPER_ADMIN.
func (uc *UserUseCase) Create(ctx context.Context, actor scope.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	managerID := ""
	if in.ManagerID != nil {
		managerID = *in.ManagerID
	}
	if err := uc.validateManager(ctx, actor.CompanyID, "", role, managerID); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         role,
		ManagerID:    optionalID(managerID),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Str("role", string(role)).Msg("usuario creado")
	return entityToUserResponse(user), nil
}

// GetByID obtiene un usuario visible para el actor.
func (uc *UserUseCase) GetByID(ctx context.Context, actor scope.Actor, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// List lista los usuarios visibles (EMPLOYEE: él mismo; MANAGER: él y sus reportes; SUPER_ADMIN: todos).
func (uc *UserUseCase) List(ctx context.Context, actor scope.Actor, q dto.UserListQuery) (*dto.ListResponse[dto.UserResponse], error) {
	s, err := uc.resolver.Resolve(ctx, actor)
	if err != nil {
		return nil, err
	}
	q.DefaultPage()
	filter := repository.UserFilter{
		Scope:      s,
		Role:       entity.Role(q.Role),
		ManagerID:  q.ManagerID,
		ActiveOnly: q.Active,
		Search:     q.Search,
		Page:       repository.Page{Limit: q.Limit, Offset: q.Offset},
	}
	users, err := uc.repo.List(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx, actor.CompanyID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return &dto.ListResponse[dto.UserResponse]{
		Items: out,
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Update actualización parcial. Solo SUPER_ADMIN.
// Las reglas de jerarquía se validan sobre el estado resultante (rol y manager nuevos).
func (uc *UserUseCase) Update(ctx context.Context, actor scope.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	role := user.Role
	if in.Role != nil {
		role = entity.Role(*in.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, *in.Role)
		}
	}
	managerID := user.ManagerIDValue()
	if in.ManagerID != nil {
		managerID = *in.ManagerID
	} else if role != entity.RoleEmployee {
		// Promover a MANAGER/SUPER_ADMIN suelta el manager anterior.
		managerID = ""
	}
	if err := uc.validateManager(ctx, actor.CompanyID, user.ID, role, managerID); err != nil {
		return nil, err
	}
	if user.Role == entity.RoleManager && role != entity.RoleManager {
		if err := uc.ensureNoReports(ctx, user); err != nil {
			return nil, err
		}
	}
	if in.IsActive != nil && !*in.IsActive && user.ID == actor.UserID {
		return nil, fmt.Errorf("%w: no puede desactivarse a sí mismo", domain.ErrInvalidInput)
	}

	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	user.Role = role
	user.ManagerID = optionalID(managerID)
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// AssignManager asigna (o con managerID vacío, desasigna) el manager de un usuario. Solo SUPER_ADMIN.
func (uc *UserUseCase) AssignManager(ctx context.Context, actor scope.Actor, id, managerID string) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	user, err := uc.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := uc.validateManager(ctx, actor.CompanyID, user.ID, user.Role, managerID); err != nil {
		return nil, err
	}
	user.ManagerID = optionalID(managerID)
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	zerolog.Ctx(ctx).Info().Str("user_id", user.ID).Str("manager_id", managerID).Msg("manager asignado")
	return entityToUserResponse(user), nil
}

// Deactivate marca al usuario como inactivo (no puede iniciar sesión). Solo SUPER_ADMIN.
func (uc *UserUseCase) Deactivate(ctx context.Context, actor scope.Actor, id string) error {
	inactive := false
	_, err := uc.Update(ctx, actor, id, dto.UpdateUserRequest{IsActive: &inactive})
	return err
}

// ListReports lista los reportes directos de un manager. Permitido al propio manager y a SUPER_ADMIN.
func (uc *UserUseCase) ListReports(ctx context.Context, actor scope.Actor, managerID string) ([]dto.UserResponse, error) {
	if actor.Role != entity.RoleSuperAdmin && actor.UserID != managerID {
		return nil, domain.ErrForbidden
	}
	manager, err := uc.repo.GetByID(ctx, actor.CompanyID, managerID)
	if err != nil {
		return nil, err
	}
	if manager == nil {
		return nil, domain.ErrUserNotFound
	}
	users, err := uc.repo.List(ctx, actor.CompanyID, repository.UserFilter{Scope: scope.Unrestricted(), ManagerID: managerID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

func (uc *UserUseCase) load(ctx context.Context, actor scope.Actor, id string) (*entity.User, error) {
	user, err := uc.repo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.resolver.Authorize(ctx, actor, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// validateManager reglas de jerarquía de dos niveles:
// SUPER_ADMIN y MANAGER no tienen manager; el manager de un EMPLOYEE es un MANAGER activo de la empresa.
func (uc *UserUseCase) validateManager(ctx context.Context, companyID, selfID string, role entity.Role, managerID string) error {
	if managerID == "" {
		return nil
	}
	switch role {
	case entity.RoleSuperAdmin:
		return fmt.Errorf("%w: un SUPER_ADMIN no puede tener manager", domain.ErrInvalidInput)
	case entity.RoleManager:
		return fmt.Errorf("%w: un MANAGER no puede tener otro MANAGER", domain.ErrInvalidInput)
	}
	if managerID == selfID {
		return fmt.Errorf("%w: un usuario no puede ser su propio manager", domain.ErrInvalidInput)
	}
	manager, err := uc.repo.GetByID(ctx, companyID, managerID)
	if err != nil {
		return err
	}
	if manager == nil {
		return fmt.Errorf("%w: manager %s", domain.ErrNotFound, managerID)
	}
	if manager.Role != entity.RoleManager {
		return fmt.Errorf("%w: el manager asignado debe tener rol MANAGER", domain.ErrInvalidInput)
	}
	if !manager.IsActive {
		return fmt.Errorf("%w: el manager asignado está inactivo", domain.ErrInvalidInput)
	}
	return nil
}

func (uc *UserUseCase) ensureNoReports(ctx context.Context, user *entity.User) error {
	reports, err := uc.repo.ListDirectReportIDs(ctx, user.CompanyID, user.ID)
	if err != nil {
		return err
	}
	if len(reports) > 0 {
		return fmt.Errorf("%w: el manager tiene %d reportes directos; reasígnelos primero", domain.ErrConflict, len(reports))
	}
	return nil
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		CompanyID: u.CompanyID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      string(u.Role),
		ManagerID: u.ManagerID,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
