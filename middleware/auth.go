package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"retail-admin/models"
	"retail-admin/services"
	"retail-admin/store"
)

// Locals keys set by the middleware for downstream handlers.
const (
	localAuth     = "auth"
	localTenantID = "tenant_id"
)

// AuthFrom returns the resolved auth context stored by RequireAuth.
func AuthFrom(c *fiber.Ctx) *services.AuthContext {
	auth, _ := c.Locals(localAuth).(*services.AuthContext)
	return auth
}

// TenantIDFrom returns the tenant scope established by RequireTenant.
func TenantIDFrom(c *fiber.Ctx) string {
	tenantID, _ := c.Locals(localTenantID).(string)
	return tenantID
}

// SessionToken returns the token presented with the request: the header
// copy set by the gatekeeper, falling back to the cookie itself.
func SessionToken(c *fiber.Ctx) string {
	if token := c.Get(services.HeaderSessionToken); token != "" {
		return token
	}
	return c.Cookies(services.SessionCookieName)
}

// RequireAuth performs full session resolution and stores the resulting
// context in locals.
func RequireAuth(c *fiber.Ctx) error {
	auth, err := services.ResolveSession(c.Context(), SessionToken(c))
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}
		slog.Error("Failed to resolve session", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	c.Locals(localAuth, auth)
	return c.Next()
}

// RequireTenant establishes the tenant scope for tenant-owned
// resources. Callers without a tenant are rejected unless they are
// super admins, who may select a tenant explicitly via ?tenant_id=.
// Inactive tenants and tenants with an expired plan are rejected for
// ordinary callers.
func RequireTenant(c *fiber.Ctx) error {
	auth := AuthFrom(c)
	if auth == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	tenant := auth.Tenant
	if tenant == nil {
		if !auth.User.IsSuperAdmin() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "No tenant associated with this user",
			})
		}

		tenantID := c.Query("tenant_id")
		if tenantID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "tenant_id query parameter is required for super admins",
			})
		}

		var err error
		tenant, err = services.DB().GetTenant(c.Context(), tenantID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Tenant not found",
				})
			}
			slog.Error("Failed to get tenant", "error", err, "tenant_id", tenantID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	if !auth.User.IsSuperAdmin() && !tenant.Usable(time.Now()) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Tenant account is not active",
		})
	}

	c.Locals(localTenantID, tenant.ID)
	return c.Next()
}

// RequireSuperAdmin gates the admin surface.
func RequireSuperAdmin(c *fiber.Ctx) error {
	auth := AuthFrom(c)
	if auth == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authentication required",
		})
	}

	if auth.User.Role != models.RoleSuperAdmin {
		slog.Info("Admin access denied", "user_id", auth.User.ID, "role", auth.User.Role)
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Super admin access required",
		})
	}

	return c.Next()
}
