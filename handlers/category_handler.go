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

type CategoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CreateCategory creates a category inside the caller's tenant.
func CreateCategory(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)

	var req CategoryRequest
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

	category := &models.Category{
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := services.DB().CreateCategory(c.Context(), category); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Category with this name already exists",
			})
		}
		slog.Error("Failed to create category", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(category)
}

// ListCategories returns the caller's tenant categories.
func ListCategories(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)

	categories, err := services.DB().ListCategories(c.Context(), tenantID)
	if err != nil {
		slog.Error("Failed to list categories", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	if categories == nil {
		categories = []models.Category{}
	}

	return c.JSON(fiber.Map{
		"categories": categories,
		"total":      len(categories),
	})
}

// GetCategory returns one category of the caller's tenant.
func GetCategory(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	categoryID := c.Params("categoryID")

	category, err := services.DB().GetCategory(c.Context(), tenantID, categoryID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		slog.Error("Failed to get category", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(category)
}

// UpdateCategory renames a category of the caller's tenant.
func UpdateCategory(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	categoryID := c.Params("categoryID")

	var req CategoryRequest
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

	category := &models.Category{
		ID:          categoryID,
		TenantID:    tenantID,
		Name:        req.Name,
		Description: req.Description,
	}

	if err := services.DB().UpdateCategory(c.Context(), tenantID, category); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		case errors.Is(err, store.ErrDuplicate):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "Category with this name already exists",
			})
		default:
			slog.Error("Failed to update category", "error", err, "tenant_id", tenantID)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal server error",
			})
		}
	}

	return c.JSON(fiber.Map{
		"message": "Category updated successfully",
	})
}

// DeleteCategory removes a category of the caller's tenant.
func DeleteCategory(c *fiber.Ctx) error {
	tenantID := middleware.TenantIDFrom(c)
	categoryID := c.Params("categoryID")

	if err := services.DB().DeleteCategory(c.Context(), tenantID, categoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Category not found",
			})
		}
		slog.Error("Failed to delete category", "error", err, "tenant_id", tenantID)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}
