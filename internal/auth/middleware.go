package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/mediatekformation/mediatekformation/internal/web/session"
)

// RequirePermission creates Fiber middleware that requires a specific permission.
func RequirePermission(authService *Service, permission string) fiber.Handler {
	return requirePermissions(authService, []string{permission})
}

// RequireAnyPermission creates Fiber middleware that requires at least one of the given permissions.
func RequireAnyPermission(authService *Service, permissions ...string) fiber.Handler {
	return requirePermissions(authService, permissions)
}

func requirePermissions(authService *Service, permissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, _, err := session.FromRequest(c)
		if err != nil || sessionData.User.ID == 0 {
			log.Debug().Err(err).Str("path", c.Path()).Msg("no valid session")
			return fiber.ErrUnauthorized
		}

		hasPermission, err := authService.HasAnyPermission(c.UserContext(), sessionData.User.ID, permissions)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("Failed to check permissions")

			return fiber.ErrInternalServerError
		}

		if !hasPermission {
			log.Warn().Uint64("user_id", sessionData.User.ID).Strs("permissions", permissions).
				Msg("User lacks required permission")

			return fiber.ErrForbidden
		}

		return c.Next()
	}
}

// AddPermissionsToLocals is a Fiber middleware that adds user permissions to fiber.Locals.
// This allows templates to access permissions for conditional rendering.
func AddPermissionsToLocals(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionData, _, err := session.FromRequest(c)
		if err != nil || sessionData.User.ID == 0 {
			return c.Next()
		}

		permissions, err := authService.GetUserPermissions(c.UserContext(), sessionData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).
				Msg("Failed to get user permissions")

			return c.Next()
		}

		c.Locals("permissions", permissions)

		return c.Next()
	}
}
