package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// SignInPath is where unauthenticated callers of protected areas are
// sent. Sign-in itself belongs to the external identity provider.
const SignInPath = "/sign-in"

// roleAreas is the single static role→area table. Each role is confined
// to exactly one path prefix.
var roleAreas = map[domain.Role]string{
	domain.RoleUser:  "/user",
	domain.RoleAgent: "/agent",
	domain.RoleAdmin: "/admin",
}

// AreaFor returns the path prefix reserved for a role.
func AreaFor(role domain.Role) string {
	return roleAreas[role]
}

// DashboardPath returns the role-specific dashboard a caller is steered to.
func DashboardPath(role domain.Role) string {
	return roleAreas[role] + "/dashboard"
}

func isPublicRoute(path string) bool {
	return path == "/"
}

func hasAreaPrefix(path, area string) bool {
	return path == area || strings.HasPrefix(path, area+"/")
}

func isProtectedRoute(path string) bool {
	for _, area := range roleAreas {
		if hasAreaPrefix(path, area) {
			return true
		}
	}
	return false
}

// Gate is the coarse, path-prefix authorization check that runs once per
// request ahead of any handler logic. It redirects callers that stray
// out of their role's area; per-record visibility stays with the query
// predicate.
func Gate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()

		principal, ok := PrincipalFromContext(c)
		if !ok {
			if isProtectedRoute(path) {
				return c.Redirect(SignInPath, fiber.StatusFound)
			}
			return c.Next()
		}

		// Authenticated upstream but no local record yet: let the
		// request through so the identity resolver can run.
		if principal.User == nil {
			return c.Next()
		}

		role := principal.User.Role
		if isPublicRoute(path) {
			return c.Redirect(DashboardPath(role), fiber.StatusFound)
		}
		for areaRole, area := range roleAreas {
			if areaRole != role && hasAreaPrefix(path, area) {
				return c.Redirect(DashboardPath(role), fiber.StatusFound)
			}
		}
		return c.Next()
	}
}
