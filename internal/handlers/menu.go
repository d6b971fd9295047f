package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/middleware"
	"github.com/example/jojopasta/internal/models"
	"github.com/example/jojopasta/internal/utils"
)

// MenuHandler manages the menu catalog: public reads plus the admin-gated
// write surface.
type MenuHandler struct {
	db *gorm.DB
}

// NewMenuHandler constructs MenuHandler.
func NewMenuHandler(db *gorm.DB) *MenuHandler {
	return &MenuHandler{db: db}
}

// ListMenuItems returns the public menu. Unavailable items are always
// excluded here; filters are AND-combined and the ordering is deterministic
// (sort order, then name).
func (h *MenuHandler) ListMenuItems(c *fiber.Ctx) error {
	query := h.filteredMenuQuery(c).Where("available = ?", true)

	var items []models.MenuItem
	if err := query.Order("sort_order asc, name asc").Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

// AdminListMenuItems returns the full catalog, unavailable items included
// unless the caller filters on availability explicitly.
func (h *MenuHandler) AdminListMenuItems(c *fiber.Ctx) error {
	query := h.filteredMenuQuery(c)

	if v := boolQuery(c, "available"); v != nil {
		query = query.Where("available = ?", *v)
	}

	var items []models.MenuItem
	if err := query.Order("sort_order asc, name asc").Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

func (h *MenuHandler) filteredMenuQuery(c *fiber.Ctx) *gorm.DB {
	query := h.db.Model(&models.MenuItem{})

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	if v := boolQuery(c, "featured"); v != nil {
		query = query.Where("featured = ?", *v)
	}

	// Case-insensitive substring match over name or description. LOWER+LIKE
	// behaves the same on postgres and the sqlite test databases.
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	return query
}

// GetMenuItem loads a single item by id. Intentionally ungated: item detail
// pages are public.
func (h *MenuHandler) GetMenuItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// menuItemRequest covers create and partial update; nil pointers mean the
// field was not supplied and must be left untouched on update.
type menuItemRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Price       *string   `json:"price"`
	Category    *string   `json:"category"`
	CookTime    *string   `json:"cook_time"`
	Rating      *string   `json:"rating"`
	Featured    *bool     `json:"featured"`
	Available   *bool     `json:"available"`
	Image       *string   `json:"image"`
	Images      *[]string `json:"images"`
	Allergens   *[]string `json:"allergens"`
	Tags        *[]string `json:"tags"`
	SortOrder   *int      `json:"sort_order"`
}

// validateSuppliedFields checks only the fields present in the request so the
// same rules serve create and partial update.
func (h *MenuHandler) validateSuppliedFields(req menuItemRequest, details map[string]string) {
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name == "" || len([]rune(name)) > 100 {
			details["name"] = "name must be between 1 and 100 characters"
		}
	}
	if req.Description != nil {
		if desc := strings.TrimSpace(*req.Description); desc == "" || len([]rune(desc)) > 500 {
			details["description"] = "description must be between 1 and 500 characters"
		}
	}
	if req.Price != nil {
		if _, err := utils.ParsePrice(*req.Price); err != nil {
			details["price"] = "price must be a positive decimal with at most two fraction digits"
		}
	}
	if req.Rating != nil && *req.Rating != "" {
		if !validRating(*req.Rating) {
			details["rating"] = "rating must be between 0 and 5 with at most one decimal place"
		}
	}
	if req.SortOrder != nil && *req.SortOrder < 0 {
		details["sort_order"] = "sort order must not be negative"
	}
	if req.Category != nil {
		if *req.Category == "" {
			details["category"] = "category is required"
		} else {
			var count int64
			if err := h.db.Model(&models.MenuCategory{}).Where("name = ?", *req.Category).Count(&count).Error; err == nil && count == 0 {
				details["category"] = "unknown category"
			}
		}
	}
}

func validRating(s string) bool {
	if len(s) != 1 && len(s) != 3 {
		return false
	}
	if s[0] < '0' || s[0] > '5' {
		return false
	}
	if len(s) == 3 {
		if s[1] != '.' || s[2] < '0' || s[2] > '9' {
			return false
		}
		if s[0] == '5' && s[2] != '0' {
			return false
		}
	}
	return true
}

// CreateMenuItem creates a catalog entry. Defaults are applied at this write
// boundary: rating "0", featured false, available true, sort order 0.
func (h *MenuHandler) CreateMenuItem(c *fiber.Ctx) error {
	var req menuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	details := make(map[string]string)
	if req.Name == nil {
		details["name"] = "name is required"
	}
	if req.Description == nil {
		details["description"] = "description is required"
	}
	if req.Price == nil {
		details["price"] = "price is required"
	}
	if req.Category == nil {
		details["category"] = "category is required"
	}
	h.validateSuppliedFields(req, details)
	if len(details) > 0 {
		return validationError(c, details)
	}

	item := models.MenuItem{
		Name:        strings.TrimSpace(*req.Name),
		Description: strings.TrimSpace(*req.Description),
		Price:       *req.Price,
		Category:    *req.Category,
		Rating:      "0",
		Available:   true,
	}

	if req.CookTime != nil {
		item.CookTime = *req.CookTime
	}
	if req.Rating != nil && *req.Rating != "" {
		item.Rating = *req.Rating
	}
	if req.Featured != nil {
		item.Featured = *req.Featured
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if req.Image != nil {
		item.Image = *req.Image
	}
	if req.Images != nil {
		item.Images = models.StringList(*req.Images)
	}
	if req.Allergens != nil {
		item.Allergens = models.StringList(*req.Allergens)
	}
	if req.Tags != nil {
		item.Tags = models.StringList(*req.Tags)
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
	if user, ok := middleware.CurrentUser(c); ok {
		creatorID := user.ID
		item.CreatedBy = &creatorID
	}

	if err := h.db.Create(&item).Error; err != nil {
		logrus.WithError(err).WithField("name", item.Name).Error("failed to create menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to create menu item")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": item})
}

// UpdateMenuItem applies a partial update: only supplied fields are touched,
// and updated_at is refreshed regardless of which fields changed.
func (h *MenuHandler) UpdateMenuItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var req menuItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	details := make(map[string]string)
	h.validateSuppliedFields(req, details)
	if len(details) > 0 {
		return validationError(c, details)
	}

	var item models.MenuItem
	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		return err
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.CookTime != nil {
		updates["cook_time"] = *req.CookTime
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}
	if req.Images != nil {
		updates["images"] = models.StringList(*req.Images)
	}
	if req.Allergens != nil {
		updates["allergens"] = models.StringList(*req.Allergens)
	}
	if req.Tags != nil {
		updates["tags"] = models.StringList(*req.Tags)
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}

	if err := h.db.Model(&item).Updates(updates).Error; err != nil {
		logrus.WithError(err).WithField("menu_item_id", id).Error("failed to update menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to update menu item")
	}

	if err := h.db.First(&item, "id = ?", id).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

// DeleteMenuItem hard-deletes a catalog entry. Historical order items keep
// their snapshotted name and price; their menu-item reference is nulled in
// the same transaction.
func (h *MenuHandler) DeleteMenuItem(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	var item models.MenuItem
	txErr := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.OrderItem{}).
			Where("menu_item_id = ?", id).
			Update("menu_item_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.MenuItem{}, "id = ?", id).Error
	})
	if txErr != nil {
		if errors.Is(txErr, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "menu item not found")
		}
		logrus.WithError(txErr).WithField("menu_item_id", id).Error("failed to delete menu item")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to delete menu item")
	}

	return c.JSON(fiber.Map{"success": true, "data": item})
}

func boolQuery(c *fiber.Ctx, key string) *bool {
	switch c.Query(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
