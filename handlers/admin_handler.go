package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"retail-admin/models"
	"retail-admin/services"
	"retail-admin/store"
)

type CreateTenantRequest struct {
	Name          string    `json:"name" validate:"required"`
	Plan          string    `json:"plan,omitempty"`
	PlanExpiresAt time.Time `json:"plan_expires_at,omitempty"`
}

type TenantActivationRequest struct {
	Active        bool      `json:"active"`
	Plan          string    `json:"plan,omitempty"`
	PlanExpiresAt time.Time `json:"plan_expires_at,omitempty"`
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required"`
	TenantID string `json:"tenant_id,omitempty"`
}

// CreateTenant registers a new tenant, active by default.
func CreateTenant(c *fiber.Ctx) error {
	var req CreateTenantRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required",
		})
	}

	tenant := &models.Tenant{
		Name:          req.Name,
		Active:        true,
		Plan:          req.Plan,
		PlanExpiresAt: req.PlanExpiresAt,
	}

	if err := services.DB().CreateTenant(c.Context(), tenant); err != nil {
		slog.Error("Failed to create tenant", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	slog.Info("Tenant created", "tenant_id", tenant.ID, "name", tenant.Name)

	return c.Status(fiber.StatusCreated).JSON(tenant)
}

// ListTenants returns all tenants.
func ListTenants(c *fiber.Ctx) error {
	tenants, err := services.DB().ListTenants(c.Context())
	if err != nil {
		slog.Error("Failed to list tenants", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if tenants == nil {
		tenants = []models.Tenant{}
	}

	return c.JSON(fiber.Map{
		"tenants": tenants,
		"total":   len(tenants),
	})
}

// GetTenant returns one tenant.
func GetTenant(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")

	tenant, err := services.DB().GetTenant(c.Context(), tenantID)
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

	return c.JSON(tenant)
}

// UpdateTenantActivation manages the tenant's activation state: active
// flag, plan identifier and plan expiry.
func UpdateTenantActivation(c *fiber.Ctx) error {
	tenantID := c.Params("tenantID")

	var req TenantActivationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	err := services.DB().UpdateTenantActivation(c.Context(), tenantID, req.Active, req.Plan, req.PlanExpiresAt)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Tenant not found",
			})
		}
		slog.Error("Failed to update tenant activation", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	slog.Info("Tenant activation updated", "tenant_id", tenantID, "active", req.Active)

	return c.JSON(fiber.Map{
		"message":   "Tenant activation updated",
		"tenant_id": tenantID,
		"active":    req.Active,
	})
}

// CreateUser creates a user in any tenant. Creating a super admin
// forces the tenant reference empty.
func CreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" || req.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email, password and name are required",
		})
	}
	if !models.IsValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
			"valid_roles": []string{
				string(models.RoleUser),
				string(models.RoleAdmin),
				string(models.RoleSuperAdmin),
			},
		})
	}
	if len(req.Password) < services.MinPasswordLength {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Password must be at least 8 characters",
		})
	}

	role := models.UserRole(req.Role)
	tenantID := req.TenantID
	if role == models.RoleSuperAdmin {
		// Super admins carry no tenant reference.
		tenantID = ""
	} else if tenantID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "tenant_id is required for tenant users",
		})
	} else {
		if _, err := services.DB().GetTenant(c.Context(), tenantID); err != nil {
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

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         req.Name,
		Role:         role,
		TenantID:     tenantID,
		PasswordHash: hash,
		Active:       true,
	}

	if err := services.DB().CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "User with this email already exists",
			})
		}
		slog.Error("Failed to create user", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	slog.Info("User created", "user_id", user.ID, "email", user.Email, "role", user.Role)

	return c.Status(fiber.StatusCreated).JSON(user)
}

// ListUsers returns users, optionally filtered by ?tenant_id=.
func ListUsers(c *fiber.Ctx) error {
	users, err := services.DB().ListUsers(c.Context(), c.Query("tenant_id"))
	if err != nil {
		slog.Error("Failed to list users", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if users == nil {
		users = []models.User{}
	}

	return c.JSON(fiber.Map{
		"users": users,
		"total": len(users),
	})
}

// UpdateUserRole changes a user's role.
func UpdateUserRole(c *fiber.Ctx) error {
	userID := c.Params("userID")

	var req struct {
		Role string `json:"role" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if !models.IsValidRole(req.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid role",
		})
	}

	if err := services.DB().UpdateUserRole(c.Context(), userID, models.UserRole(req.Role)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		slog.Error("Failed to update user role", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	// A promotion to super admin may leave a stale tenant reference;
	// the repair pass below cleans it up.
	if models.UserRole(req.Role) == models.RoleSuperAdmin {
		if _, err := services.RepairSuperAdmins(c.Context()); err != nil {
			slog.Error("Failed to repair super admins", "error", err)
		}
	}

	slog.Info("User role updated", "user_id", userID, "new_role", req.Role)

	return c.JSON(fiber.Map{
		"message":  "User role updated successfully",
		"user_id":  userID,
		"new_role": req.Role,
	})
}

// UpdateUserStatus enables or disables a user account. Disabled users
// fail login and session resolution alike.
func UpdateUserStatus(c *fiber.Ctx) error {
	userID := c.Params("userID")

	var req struct {
		Active bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := services.DB().SetUserActive(c.Context(), userID, req.Active); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		slog.Error("Failed to update user status", "error", err, "user_id", userID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	slog.Info("User status updated", "user_id", userID, "active", req.Active)

	return c.JSON(fiber.Map{
		"message": "User status updated successfully",
		"user_id": userID,
		"active":  req.Active,
	})
}

// RepairSuperAdmins strips tenant references from super admins.
func RepairSuperAdmins(c *fiber.Ctx) error {
	repaired, err := services.RepairSuperAdmins(c.Context())
	if err != nil {
		slog.Error("Failed to repair super admins", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Repair completed",
		"repaired": repaired,
	})
}
