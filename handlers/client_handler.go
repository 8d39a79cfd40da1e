package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"retail-admin/middleware"
	"retail-admin/models"
	"retail-admin/services"
	"retail-admin/store"
)

type ClientRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

// CreateClient creates a client record inside the caller's tenant.
func CreateClient(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)

	var req ClientRequest
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

	client := &models.Client{
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}

	if err := services.DB().CreateClient(c.Context(), client); err != nil {
		slog.Error("Failed to create client", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

// ListClients returns the caller's tenant clients.
func ListClients(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)

	clients, err := services.DB().ListClients(c.Context(), tenantID)
	if err != nil {
		slog.Error("Failed to list clients", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if clients == nil {
		clients = []models.Client{}
	}

	return c.JSON(fiber.Map{
		"clients": clients,
		"total":   len(clients),
	})
}

// GetClient returns one client of the caller's tenant.
func GetClient(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	clientID := c.Params("clientID")

	client, err := services.DB().GetClient(c.Context(), tenantID, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client not found",
			})
		}
		slog.Error("Failed to get client", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(client)
}

// UpdateClient updates a client of the caller's tenant.
func UpdateClient(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	clientID := c.Params("clientID")

	var req ClientRequest
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

	client := &models.Client{
		ID:       clientID,
		TenantID: tenantID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Notes:    req.Notes,
	}

	if err := services.DB().UpdateClient(c.Context(), tenantID, client); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client not found",
			})
		}
		slog.Error("Failed to update client", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Client updated successfully",
	})
}

// DeleteClient removes a client of the caller's tenant.
func DeleteClient(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	clientID := c.Params("clientID")

	if err := services.DB().DeleteClient(c.Context(), tenantID, clientID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Client not found",
			})
		}
		slog.Error("Failed to delete client", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Client deleted successfully",
	})
}
