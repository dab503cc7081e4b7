package group

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/config"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
)

// setupTestApp wires the group routes onto a fresh app backed by an
// in-memory SQLite database.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Permission{},
		&models.UserGroup{},
		&models.GroupPermission{},
	)
	require.NoError(t, err, "failed to migrate test database")

	app := fiber.New()
	Handler.Init(app, &config.Config{}, db)

	return app, db
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck // test helper

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, raw
}

func TestGroupLifecycle(t *testing.T) {
	app, db := setupTestApp(t)

	permissions := []models.Permission{{Name: "Read"}, {Name: "Write"}}
	require.NoError(t, db.Create(&permissions).Error)

	var groupID uint

	t.Run("create with two permissions", func(t *testing.T) {
		status, body := doJSON(t, app, fiber.MethodPost, "/api/groups", fiber.Map{
			"name":          "Admins",
			"permissionIds": []uint{permissions[0].ID, permissions[1].ID},
		})
		require.Equal(t, fiber.StatusCreated, status)

		var created struct {
			ID          uint `json:"id"`
			Permissions []struct {
				Name string `json:"name"`
			} `json:"permissions"`
		}
		require.NoError(t, json.Unmarshal(body, &created))
		require.NotZero(t, created.ID)
		assert.Len(t, created.Permissions, 2)

		groupID = created.ID
	})

	t.Run("create without permissions is rejected", func(t *testing.T) {
		status, body := doJSON(t, app, fiber.MethodPost, "/api/groups", fiber.Map{
			"name": "Orphans",
		})
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.JSONEq(t, `{"message":"A group must have at least one permission."}`, string(body))
	})

	t.Run("narrow the grant set to one permission", func(t *testing.T) {
		status, _ := doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/groups/%d", groupID), fiber.Map{
			"name":          "Admins",
			"permissionIds": []uint{permissions[0].ID},
		})
		require.Equal(t, fiber.StatusNoContent, status)
	})

	t.Run("emptying the grant set is rejected and keeps the old set", func(t *testing.T) {
		status, body := doJSON(t, app, fiber.MethodPut, fmt.Sprintf("/api/groups/%d", groupID), fiber.Map{
			"name":          "Admins",
			"permissionIds": []uint{},
		})
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.JSONEq(t, `{"message":"A group must have at least one permission."}`, string(body))

		getStatus, getBody := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/groups/%d", groupID), nil)
		require.Equal(t, fiber.StatusOK, getStatus)

		var g struct {
			Permissions []struct {
				Name string `json:"name"`
			} `json:"permissions"`
		}
		require.NoError(t, json.Unmarshal(getBody, &g))
		require.Len(t, g.Permissions, 1)
		assert.Equal(t, "Read", g.Permissions[0].Name)
	})

	t.Run("delete", func(t *testing.T) {
		status, _ := doJSON(t, app, fiber.MethodDelete, fmt.Sprintf("/api/groups/%d", groupID), nil)
		require.Equal(t, fiber.StatusNoContent, status)

		getStatus, _ := doJSON(t, app, fiber.MethodGet, fmt.Sprintf("/api/groups/%d", groupID), nil)
		assert.Equal(t, fiber.StatusNotFound, getStatus)
	})

	t.Run("update of a missing group is a 404", func(t *testing.T) {
		status, _ := doJSON(t, app, fiber.MethodPut, "/api/groups/999", fiber.Map{
			"name":          "X",
			"permissionIds": []uint{permissions[0].ID},
		})
		assert.Equal(t, fiber.StatusNotFound, status)
	})
}
