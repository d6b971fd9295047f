package handlers

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/models"
)

var categorySlugPattern = regexp.MustCompile(`^[a-z-]+$`)

// CategoryHandler manages menu categories.
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// ListCategories returns active categories for the public menu.
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	var categories []models.MenuCategory
	if err := h.db.Where("active = ?", true).
		Order("sort_order asc, display_name asc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

// AdminListCategories returns all categories, inactive ones included.
func (h *CategoryHandler) AdminListCategories(c *fiber.Ctx) error {
	var categories []models.MenuCategory
	if err := h.db.Order("sort_order asc, display_name asc").
		Find(&categories).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": categories})
}

type categoryRequest struct {
	Name        *string `json:"name"`
	DisplayName *string `json:"display_name"`
	Description *string `json:"description"`
	SortOrder   *int    `json:"sort_order"`
	Active      *bool   `json:"active"`
}

func validateCategoryFields(req categoryRequest, details map[string]string) {
	if req.Name != nil {
		name := *req.Name
		if len(name) < 2 || len(name) > 50 || !categorySlugPattern.MatchString(name) {
			details["name"] = "name must be a 2-50 character slug of lowercase letters and hyphens"
		}
	}
	if req.DisplayName != nil {
		display := strings.TrimSpace(*req.DisplayName)
		if len([]rune(display)) < 2 || len([]rune(display)) > 50 {
			details["display_name"] = "display name must be between 2 and 50 characters"
		}
	}
	if req.Description != nil && len([]rune(*req.Description)) > 200 {
		details["description"] = "description must not exceed 200 characters"
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		details["sort_order"] = "sort order must not be negative"
	}
}

// CreateCategory creates a category. The slug must be unique; it is the key
// menu items reference.
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	details := make(map[string]string)
	if req.Name == nil {
		details["name"] = "name is required"
	}
	if req.DisplayName == nil {
		details["display_name"] = "display name is required"
	}
	validateCategoryFields(req, details)
	if len(details) > 0 {
		return validationError(c, details)
	}

	category := models.MenuCategory{
		Name:        *req.Name,
		DisplayName: strings.TrimSpace(*req.DisplayName),
		Active:      true,
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.SortOrder != nil {
		category.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		category.Active = *req.Active
	}

	if err := h.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return validationError(c, map[string]string{"name": "a category with this name already exists"})
		}
		logrus.WithError(err).WithField("name", category.Name).Error("failed to create category")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": category})
}

// UpdateCategory applies a partial update.
func (h *CategoryHandler) UpdateCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	details := make(map[string]string)
	validateCategoryFields(req, details)
	if len(details) > 0 {
		return validationError(c, details)
	}

	var category models.MenuCategory
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*req.DisplayName)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if err := h.db.Model(&category).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return validationError(c, map[string]string{"name": "a category with this name already exists"})
		}
		logrus.WithError(err).WithField("category_id", id).Error("failed to update category")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update category")
	}

	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}

// DeleteCategory removes a category. Menu items keep their category name;
// they simply stop matching an active grouping.
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var category models.MenuCategory
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "category not found")
		}
		return err
	}

	if err := h.db.Delete(&models.MenuCategory{}, "id = ?", id).Error; err != nil {
		logrus.WithError(err).WithField("category_id", id).Error("failed to delete category")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete category")
	}

	return c.JSON(fiber.Map{"success": true, "data": category})
}
