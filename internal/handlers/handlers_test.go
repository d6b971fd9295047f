package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/jojopasta/internal/config"
	"github.com/example/jojopasta/internal/database"
	"github.com/example/jojopasta/internal/handlers"
	"github.com/example/jojopasta/internal/models"
	"github.com/example/jojopasta/internal/routes"
	"github.com/example/jojopasta/internal/utils"
)

func newTestApp(t *testing.T) (*fiber.App, *gorm.DB, *config.Config) {
	t.Helper()

	// One shared in-memory database per test, named after the test so
	// parallel tests stay isolated.
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenExpires:  time.Hour,
		AdminSetupKey: "setup-key",
	}

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Register(app, db, cfg)

	return app, db, cfg
}

func seedUser(t *testing.T, db *gorm.DB, cfg *config.Config, email string, admin bool) (models.User, string) {
	t.Helper()

	user := models.User{Name: "Test User", Email: email, IsAdmin: admin}
	require.NoError(t, db.Create(&user).Error)

	token, err := utils.GenerateToken(cfg.JWTSecret, user.ID, cfg.TokenExpires)
	require.NoError(t, err)

	return user, token
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.MenuCategory {
	t.Helper()

	category := models.MenuCategory{Name: name, DisplayName: name, Active: true}
	require.NoError(t, db.Create(&category).Error)
	return category
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()

	defer resp.Body.Close()
	var payload map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return payload
}

func dataMap(t *testing.T, payload map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, ok := payload["data"].(map[string]interface{})
	require.True(t, ok, "expected object data, got %#v", payload["data"])
	return data
}

func dataList(t *testing.T, payload map[string]interface{}) []interface{} {
	t.Helper()

	data, ok := payload["data"].([]interface{})
	require.True(t, ok, "expected array data, got %#v", payload["data"])
	return data
}
