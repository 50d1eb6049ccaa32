package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// Policy decides whether an authenticated principal may proceed.
// Policies run strictly after AuthMiddleware.Handle, so they never see an
// unauthenticated request.
type Policy func(c *fiber.Ctx, principal domain.Principal) error

// Require turns a policy into route middleware.
func Require(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if err := policy(c, principal); err != nil {
			return err
		}
		return c.Next()
	}
}

// RoleIn permits principals whose role is in the allowed set.
func RoleIn(allowed ...domain.UserRole) Policy {
	return func(_ *fiber.Ctx, principal domain.Principal) error {
		if !principal.HasRole(allowed...) {
			return apperrors.NewForbidden("insufficient role privileges")
		}
		return nil
	}
}

// SelfOrRole permits the owner of the resource named by the route parameter,
// or any principal whose role is in the allowed set.
func SelfOrRole(param string, allowed ...domain.UserRole) Policy {
	return func(c *fiber.Ctx, principal domain.Principal) error {
		if principal.Owns(c.Params(param)) {
			return nil
		}
		if !principal.HasRole(allowed...) {
			return apperrors.NewForbidden("not resource owner and insufficient role")
		}
		return nil
	}
}

// RequireRole ensures the principal has one of the allowed roles.
func RequireRole(allowed ...domain.UserRole) fiber.Handler {
	return Require(RoleIn(allowed...))
}

// RequireSelfOrRole ensures the principal owns the target resource or holds
// one of the allowed roles.
func RequireSelfOrRole(param string, allowed ...domain.UserRole) fiber.Handler {
	return Require(SelfOrRole(param, allowed...))
}
