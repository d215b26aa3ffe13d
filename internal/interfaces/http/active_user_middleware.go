package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/application/dto"
	"github.com/Jaymin8973/Grow-Tenders-CRM-sub002/internal/domain/entity"
)

// userLookup es el contrato mínimo que necesita el middleware para releer al usuario.
// Lo implementa cualquier repository.UserRepository.
type userLookup interface {
	GetByID(ctx context.Context, companyID, id string) (*entity.User, error)
}

// RequireActiveUser verifica que el usuario del token siga existiendo y activo, y
// refresca rol y manager desde la base (un cambio de jerarquía aplica sin re-login).
// Debe usarse DESPUÉS de AuthMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → usuario eliminado o desactivado.
//   - 503 Service Unavailable → fallo de infraestructura al consultar la DB.
func RequireActiveUser(users userLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyID, userID := GetCompanyID(c), GetUserID(c)
		if companyID == "" || userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "UNAUTHORIZED",
				Message: "identidad no encontrada en el token",
			})
		}

		user, err := users.GetByID(c.UserContext(), companyID, userID)
		if err != nil {
			zerolog.Ctx(c.UserContext()).Error().Err(err).Str("user_id", userID).Msg("verificar usuario activo")
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "USER_CHECK_FAILED",
				Message: "no se pudo verificar el usuario, intente más tarde",
			})
		}

		if user == nil || !user.IsActive {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:    "USER_INACTIVE",
				Message: "el usuario no existe o está desactivado",
			})
		}

		c.Locals(LocalRole, string(user.Role))
		c.Locals(LocalManagerID, user.ManagerIDValue())
		return c.Next()
	}
}
