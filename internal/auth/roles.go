package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/stutiagarwal3007/esahayak-2025/pkg/util/errorutil"
)

// RequireUser ensures an authenticated agent is present.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.User == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}
