package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.RoleName) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return domain.ErrMissingClaim
		}
		if len(allowed) > 0 && !principal.HasRole(allowed...) {
			return domain.ErrForbidden
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return RequireRole()
}
