package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/behnamfe76/helpdesk-service/pkg/util/errorutil"
)

// Require applies the role half of Authorize at the route. Ownership is
// checked by the handler once the ticket is loaded.
func Require(op Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := Authorize(principal.Role, op, OwnershipNone); err != nil {
			return err
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
