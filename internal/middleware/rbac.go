package middleware

import (
	"strings"

	"github.com/Kyz7/lingopress/internal/rbac"
	"github.com/Kyz7/lingopress/internal/response"

	"github.com/gofiber/fiber/v2"
)

const roleKey = "role"

// ResolveRole runs the role precedence chain once per request.
func ResolveRole(resolver *rbac.Resolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta := rbac.Metadata{
			RoleHeader:  c.Get(rbac.HeaderName),
			BearerToken: bearerToken(c.Get(fiber.HeaderAuthorization)),
		}
		c.Locals(roleKey, resolver.Resolve(meta))
		return c.Next()
	}
}

// Require stops the request with 403 unless the resolved role passes allowed.
func Require(action string, allowed func(rbac.Role) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !allowed(RoleFromCtx(c)) {
			return response.Forbidden(c, "You don't have permission to "+action)
		}
		return c.Next()
	}
}

// RoleFromCtx returns the resolved role, or ANON when ResolveRole did not run.
func RoleFromCtx(c *fiber.Ctx) rbac.Role {
	if role, ok := c.Locals(roleKey).(rbac.Role); ok {
		return role
	}
	return rbac.Anon
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
