package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/models"
)

// ContactHandler stores contact-form submissions.
type ContactHandler struct {
	db *gorm.DB
}

// NewContactHandler constructs ContactHandler.
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// CreateContactMessage validates and stores a contact-form entry.
func (h *ContactHandler) CreateContactMessage(c *fiber.Ctx) error {
	var req contactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	details := make(map[string]string)
	if name := strings.TrimSpace(req.Name); len([]rune(name)) < 2 || len([]rune(name)) > 50 {
		details["name"] = "name must be between 2 and 50 characters"
	}
	if !emailPattern.MatchString(req.Email) {
		details["email"] = "invalid email address"
	}
	if strings.TrimSpace(req.Message) == "" {
		details["message"] = "message is required"
	}
	if len(details) > 0 {
		return validationError(c, details)
	}

	message := models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	}

	if err := h.db.Create(&message).Error; err != nil {
		logrus.WithError(err).Error("failed to store contact message")
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store contact message")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": message})
}
