package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/visage-campus/visage-backend/internal/domain"
)

const principalKey = "auth_principal"

// AuthMiddleware validates bearer tokens and stores the principal on the request.
// It does not consult the identity store; claims are trusted until they expire.
type AuthMiddleware struct {
	claims *ClaimManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(claims *ClaimManager) *AuthMiddleware {
	return &AuthMiddleware{claims: claims}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if authHeader == "" {
		return domain.ErrMissingClaim
	}

	scheme, token, _ := strings.Cut(authHeader, " ")
	if !strings.EqualFold(scheme, "Bearer") {
		return domain.ErrMalformedClaim
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrMissingClaim
	}

	principal, err := m.claims.Validate(token)
	if err != nil {
		return err
	}

	c.Locals(principalKey, principal)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
