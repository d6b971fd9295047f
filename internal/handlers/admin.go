package handlers

import (
	"crypto/subtle"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/config"
	"github.com/example/jojopasta/internal/models"
)

// AdminHandler manages admin-only endpoints that are not catalog CRUD.
type AdminHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

// NewAdminHandler constructs AdminHandler.
func NewAdminHandler(db *gorm.DB, cfg *config.Config) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg}
}

// DashboardStats returns aggregate statistics for the admin dashboard.
func (h *AdminHandler) DashboardStats(c *fiber.Ctx) error {
	var totalUsers int64
	if err := h.db.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return err
	}

	var totalOrders int64
	if err := h.db.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return err
	}

	var totalMenuItems int64
	if err := h.db.Model(&models.MenuItem{}).Count(&totalMenuItems).Error; err != nil {
		return err
	}

	type statusCount struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	var statusCounts []statusCount
	if err := h.db.Model(&models.Order{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return err
	}

	ordersByStatus := make(map[string]int64)
	for _, sc := range statusCounts {
		ordersByStatus[sc.Status] = sc.Count
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"total_users":      totalUsers,
			"total_orders":     totalOrders,
			"total_menu_items": totalMenuItems,
			"orders_by_status": ordersByStatus,
		},
	})
}

type makeAdminRequest struct {
	Email string `json:"email"`
}

// MakeAdmin flips the administrator flag for a user by email. It bootstraps
// the first admin, so it is guarded by the configured setup key instead of
// the admin gate.
func (h *AdminHandler) MakeAdmin(c *fiber.Ctx) error {
	if h.cfg.AdminSetupKey == "" {
		return fiber.NewError(fiber.StatusForbidden, "admin setup is disabled")
	}

	supplied := c.Get("X-Setup-Key")
	if subtle.ConstantTimeCompare([]byte(supplied), []byte(h.cfg.AdminSetupKey)) != 1 {
		return fiber.NewError(fiber.StatusForbidden, "invalid setup key")
	}

	var req makeAdminRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Email == "" {
		return validationError(c, map[string]string{"email": "email is required"})
	}

	var user models.User
	if err := h.db.First(&user, "email = ?", req.Email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	if err := h.db.Model(&user).Update("is_admin", true).Error; err != nil {
		logrus.WithError(err).WithField("email", req.Email).Error("failed to grant admin")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to grant admin")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"id":       user.ID,
			"email":    user.Email,
			"is_admin": true,
		},
	})
}
