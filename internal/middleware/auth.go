package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/config"
	"github.com/example/jojopasta/internal/models"
	"github.com/example/jojopasta/internal/utils"
)

const userContextKey = "currentUser"

// SessionCookieName is the cookie the LINE callback stores the session token
// in; bearer headers take precedence when both are present.
const SessionCookieName = "session_token"

// Auth validates the session token and loads the authenticated user into the
// request context. Requests without a valid session fail closed with 401.
func Auth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := resolveUser(c, cfg, db)
		if err != nil {
			return err
		}

		c.Locals(userContextKey, user)
		return c.Next()
	}
}

// OptionalAuth attaches the user when a valid session is present but lets
// anonymous requests through. Used for guest checkout.
func OptionalAuth(cfg *config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := resolveUser(c, cfg, db); err == nil {
			c.Locals(userContextKey, user)
		}
		return c.Next()
	}
}

// RequireAdmin rejects authenticated callers whose administrator flag is not
// set. It must run after Auth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := CurrentUser(c)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
		}
		if !user.IsAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

// CurrentUser extracts the authenticated user from context.
func CurrentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(userContextKey).(*models.User)
	return user, ok
}

// CurrentUserID extracts the authenticated user's id from context.
func CurrentUserID(c *fiber.Ctx) (uuid.UUID, bool) {
	if user, ok := CurrentUser(c); ok {
		return user.ID, true
	}
	return uuid.Nil, false
}

func resolveUser(c *fiber.Ctx, cfg *config.Config, db *gorm.DB) (*models.User, error) {
	token := bearerToken(c)
	if token == "" {
		token = c.Cookies(SessionCookieName)
	}
	if token == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "missing session token")
	}

	userID, err := utils.ParseToken(cfg.JWTSecret, token)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid session token")
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "unknown user")
	}

	return &user, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
