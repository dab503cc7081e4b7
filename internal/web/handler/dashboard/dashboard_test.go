package dashboard

import (
	"encoding/json"
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

func TestGet(t *testing.T) {
	app, db := setupTestApp(t)

	t.Run("empty system", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/dashboard", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.JSONEq(t, `{
			"totalUsers": 0,
			"totalGroups": 0,
			"totalPermissions": 0,
			"mostAssignedGroup": "N/A",
			"mostCommonPermission": "N/A"
		}`, string(raw))
	})

	t.Run("populated system", func(t *testing.T) {
		u := models.User{FullName: "Ada Lovelace", Email: "ada@example.com"}
		require.NoError(t, db.Create(&u).Error)

		g := models.Group{Name: "Admins"}
		require.NoError(t, db.Create(&g).Error)

		p := models.Permission{Name: "Read"}
		require.NoError(t, db.Create(&p).Error)

		require.NoError(t, db.Create(&models.UserGroup{UserID: u.ID, GroupID: g.ID}).Error)
		require.NoError(t, db.Create(&models.GroupPermission{GroupID: g.ID, PermissionID: p.ID}).Error)

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/dashboard", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var summary struct {
			TotalUsers           int64  `json:"totalUsers"`
			MostAssignedGroup    string `json:"mostAssignedGroup"`
			MostCommonPermission string `json:"mostCommonPermission"`
		}
		require.NoError(t, json.Unmarshal(raw, &summary))
		assert.EqualValues(t, 1, summary.TotalUsers)
		assert.Equal(t, "Admins", summary.MostAssignedGroup)
		assert.Equal(t, "Read", summary.MostCommonPermission)
	})
}
