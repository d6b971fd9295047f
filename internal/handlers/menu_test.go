package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/jojopasta/internal/models"
)

func TestCreateMenuItemAppliesDefaults(t *testing.T) {
	app, db, cfg := newTestApp(t)
	admin, token := seedUser(t, db, cfg, "admin@example.com", true)
	seedCategory(t, db, "pasta")

	resp := doJSON(t, app, http.MethodPost, "/api/admin/menu-items", map[string]interface{}{
		"name":        "Carbonara",
		"description": "Classic roman pasta with egg and guanciale",
		"price":       "380",
		"category":    "pasta",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	data := dataMap(t, decodeBody(t, resp))
	assert.Equal(t, true, data["available"], "available must default to true")
	assert.Equal(t, false, data["featured"])
	assert.Equal(t, "0", data["rating"])
	assert.Equal(t, float64(0), data["sort_order"])
	assert.Equal(t, admin.ID.String(), data["created_by"])

	// Multi-value fields decode to empty arrays, never null.
	assert.Equal(t, []interface{}{}, data["tags"])
	assert.Equal(t, []interface{}{}, data["allergens"])
	assert.Equal(t, []interface{}{}, data["images"])
}

func TestCreateMenuItemValidation(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)
	seedCategory(t, db, "pasta")

	resp := doJSON(t, app, http.MethodPost, "/api/admin/menu-items", map[string]interface{}{
		"name":        "X",
		"description": "",
		"price":       "-5",
		"category":    "pasta",
		"rating":      "9",
	}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	payload := decodeBody(t, resp)
	details, ok := payload["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, details, "description")
	assert.Contains(t, details, "price")
	assert.Contains(t, details, "rating")
}

func TestCreateMenuItemUnknownCategory(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/menu-items", map[string]interface{}{
		"name":        "Carbonara",
		"description": "Classic roman pasta",
		"price":       "380",
		"category":    "nonexistent",
	}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	payload := decodeBody(t, resp)
	details := payload["details"].(map[string]interface{})
	assert.Contains(t, details, "category")
}

func TestPublicMenuExcludesUnavailable(t *testing.T) {
	app, db, _ := newTestApp(t)

	itemA := models.MenuItem{Name: "Amatriciana", Description: "tomato and guanciale", Price: "360", Category: "pasta", Available: true, Rating: "0"}
	itemB := models.MenuItem{Name: "Bolognese", Description: "slow ragu", Price: "390", Category: "pasta", Available: false, Rating: "0"}
	itemC := models.MenuItem{Name: "Cold Brew", Description: "house blend", Price: "120", Category: "drinks", Available: true, Rating: "0"}
	require.NoError(t, db.Create(&itemA).Error)
	require.NoError(t, db.Create(&itemB).Error)
	require.NoError(t, db.Create(&itemC).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/menu?category=pasta", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := dataList(t, decodeBody(t, resp))
	require.Len(t, items, 1, "public query must exclude unavailable items")
	assert.Equal(t, "Amatriciana", items[0].(map[string]interface{})["name"])
}

func TestAdminMenuIncludesUnavailable(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)

	require.NoError(t, db.Create(&models.MenuItem{Name: "Amatriciana", Description: "d", Price: "360", Category: "pasta", Available: true, Rating: "0"}).Error)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Bolognese", Description: "d", Price: "390", Category: "pasta", Available: false, Rating: "0"}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/admin/menu-items?category=pasta", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := dataList(t, decodeBody(t, resp))
	assert.Len(t, items, 2, "admin query with no availability filter returns both")

	resp = doJSON(t, app, http.MethodGet, "/api/admin/menu-items?category=pasta&available=false", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items = dataList(t, decodeBody(t, resp))
	require.Len(t, items, 1)
	assert.Equal(t, "Bolognese", items[0].(map[string]interface{})["name"])
}

func TestMenuSearchIsCaseInsensitive(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Create(&models.MenuItem{Name: "Truffle Risotto", Description: "creamy", Price: "480", Category: "mains", Available: true, Rating: "0"}).Error)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Caesar Salad", Description: "with truffle dressing", Price: "220", Category: "starters", Available: true, Rating: "0"}).Error)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Lemonade", Description: "fresh", Price: "90", Category: "drinks", Available: true, Rating: "0"}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/menu?search=TRUFFLE", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := dataList(t, decodeBody(t, resp))
	assert.Len(t, items, 2, "search matches name or description, case-insensitively")
}

func TestMenuOrderingIsDeterministic(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Create(&models.MenuItem{Name: "Zuppa", Description: "d", Price: "100", Category: "c", Available: true, Rating: "0", SortOrder: 1}).Error)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Bruschetta", Description: "d", Price: "100", Category: "c", Available: true, Rating: "0", SortOrder: 2}).Error)
	require.NoError(t, db.Create(&models.MenuItem{Name: "Arancini", Description: "d", Price: "100", Category: "c", Available: true, Rating: "0", SortOrder: 2}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/menu", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	items := dataList(t, decodeBody(t, resp))
	require.Len(t, items, 3)
	assert.Equal(t, "Zuppa", items[0].(map[string]interface{})["name"])
	assert.Equal(t, "Arancini", items[1].(map[string]interface{})["name"], "names break sort-order ties")
	assert.Equal(t, "Bruschetta", items[2].(map[string]interface{})["name"])
}

func TestUpdateMenuItemIsPartial(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)

	item := models.MenuItem{
		Name: "Carbonara", Description: "classic", Price: "380",
		Category: "pasta", Available: true, Rating: "4.5",
		Tags: models.StringList{"popular"},
	}
	require.NoError(t, db.Create(&item).Error)
	before := item.UpdatedAt

	time.Sleep(10 * time.Millisecond)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/menu-items/"+item.ID.String(), map[string]interface{}{
		"price": "420",
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.MenuItem
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Equal(t, "420", reloaded.Price)
	assert.Equal(t, "Carbonara", reloaded.Name, "unsupplied fields stay untouched")
	assert.Equal(t, models.StringList{"popular"}, reloaded.Tags)
	assert.Equal(t, "4.5", reloaded.Rating)
	assert.True(t, reloaded.UpdatedAt.After(before), "updated_at is always refreshed")
}

func TestUpdateMenuItemClearsListWithEmptyArray(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)

	item := models.MenuItem{Name: "Carbonara", Description: "d", Price: "380", Category: "pasta", Available: true, Rating: "0", Tags: models.StringList{"popular", "classic"}}
	require.NoError(t, db.Create(&item).Error)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/menu-items/"+item.ID.String(), map[string]interface{}{
		"tags": []string{},
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := dataMap(t, decodeBody(t, resp))
	assert.Equal(t, []interface{}{}, data["tags"])
}

func TestUpdateMenuItemNotFound(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)

	resp := doJSON(t, app, http.MethodPut, "/api/admin/menu-items/2b8f3a75-5e59-4b1c-9f59-1f0c4ed2dcd1", map[string]interface{}{
		"price": "420",
	}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMenuItemPublicAndNotFound(t *testing.T) {
	app, db, _ := newTestApp(t)

	item := models.MenuItem{Name: "Carbonara", Description: "d", Price: "380", Category: "pasta", Available: false, Rating: "0"}
	require.NoError(t, db.Create(&item).Error)

	// Single-item read is ungated and returns even unavailable items.
	resp := doJSON(t, app, http.MethodGet, "/api/menu/"+item.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/menu/2b8f3a75-5e59-4b1c-9f59-1f0c4ed2dcd1", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCatalogMutationsRequireAdmin(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, customerToken := seedUser(t, db, cfg, "customer@example.com", false)

	body := map[string]interface{}{"name": "X", "description": "y", "price": "1", "category": "c"}

	// No session: unauthenticated.
	resp := doJSON(t, app, http.MethodPost, "/api/admin/menu-items", body, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Session without the administrator flag: forbidden.
	resp = doJSON(t, app, http.MethodPost, "/api/admin/menu-items", body, customerToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCategoryValidationAndDuplicates(t *testing.T) {
	app, db, cfg := newTestApp(t)
	_, token := seedUser(t, db, cfg, "admin@example.com", true)

	resp := doJSON(t, app, http.MethodPost, "/api/admin/categories", map[string]interface{}{
		"name":         "Pasta!",
		"display_name": "Pasta",
	}, token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/admin/categories", map[string]interface{}{
		"name":         "pasta",
		"display_name": "Pasta",
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := dataMap(t, decodeBody(t, resp))
	assert.Equal(t, true, data["active"], "active defaults to true")

	resp = doJSON(t, app, http.MethodPost, "/api/admin/categories", map[string]interface{}{
		"name":         "pasta",
		"display_name": "Pasta again",
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "slug must be unique")
}

func TestPublicCategoriesOnlyActive(t *testing.T) {
	app, db, _ := newTestApp(t)

	require.NoError(t, db.Create(&models.MenuCategory{Name: "pasta", DisplayName: "Pasta", Active: true}).Error)
	require.NoError(t, db.Create(&models.MenuCategory{Name: "seasonal", DisplayName: "Seasonal", Active: false}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := dataList(t, decodeBody(t, resp))
	require.Len(t, items, 1)
	assert.Equal(t, "pasta", items[0].(map[string]interface{})["name"])
}
