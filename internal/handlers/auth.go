package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/example/jojopasta/internal/config"
	"github.com/example/jojopasta/internal/middleware"
	"github.com/example/jojopasta/internal/models"
	"github.com/example/jojopasta/internal/services"
	"github.com/example/jojopasta/internal/utils"
)

const stateCookieName = "line_oauth_state"

// AuthHandler implements the LINE login flow and session endpoints.
type AuthHandler struct {
	db   *gorm.DB
	cfg  *config.Config
	line *services.LineService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, line *services.LineService) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, line: line}
}

// LineLogin redirects the browser to the LINE authorization page with a fresh
// state nonce.
func (h *AuthHandler) LineLogin(c *fiber.Ctx) error {
	state := uuid.NewString()

	c.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(h.line.AuthorizeURL(state), fiber.StatusFound)
}

// LineCallback completes the OAuth flow: verifies state, exchanges the code,
// finds or creates the user, and issues a session token.
func (h *AuthHandler) LineCallback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		logrus.WithField("error", errParam).Warn("LINE login denied")
		return fiber.NewError(fiber.StatusUnauthorized, "line login was denied")
	}

	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" || state != c.Cookies(stateCookieName) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid oauth state")
	}

	token, err := h.line.ExchangeCode(code)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "line login failed")
	}

	profile, err := h.line.FetchProfile(token.AccessToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, "line login failed")
	}

	user, err := h.findOrCreateLineUser(profile)
	if err != nil {
		return err
	}

	sessionToken, err := utils.GenerateToken(h.cfg.JWTSecret, user.ID, h.cfg.TokenExpires)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionToken,
		Expires:  time.Now().Add(h.cfg.TokenExpires),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	c.ClearCookie(stateCookieName)

	return c.Redirect("/", fiber.StatusFound)
}

func (h *AuthHandler) findOrCreateLineUser(profile *services.LineProfile) (*models.User, error) {
	var user models.User
	err := h.db.First(&user, "line_user_id = ?", profile.UserID).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	email := profile.Email
	isVirtual := email == ""
	if isVirtual {
		email = services.VirtualEmail(profile.UserID)
	}

	lineUserID := profile.UserID
	user = models.User{
		Name:           profile.DisplayName,
		Email:          email,
		Image:          profile.PictureURL,
		LineUserID:     &lineUserID,
		IsVirtualEmail: isVirtual,
	}

	if err := h.db.Create(&user).Error; err != nil {
		logrus.WithError(err).WithField("line_user_id", profile.UserID).
			Error("failed to create LINE user")
		return nil, fiber.NewError(fiber.StatusInternalServerError, "failed to create user")
	}

	return &user, nil
}

// Session returns the current user, or null data for anonymous callers.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(fiber.Map{"success": true, "data": nil})
	}
	return c.JSON(fiber.Map{"success": true, "data": user})
}

// SignOut clears the session cookie. Tokens are stateless, so nothing is
// revoked server-side.
func (h *AuthHandler) SignOut(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.JSON(fiber.Map{"success": true})
}
