package group

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller/relation"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
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

	return db
}

func seedPermissions(t *testing.T, db *gorm.DB, names ...string) []models.Permission {
	t.Helper()

	permissions := make([]models.Permission, 0, len(names))

	for _, name := range names {
		p := models.Permission{Name: name}
		require.NoError(t, db.Create(&p).Error, "failed to seed permission")
		permissions = append(permissions, p)
	}

	return permissions
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []models.User {
	t.Helper()

	users := make([]models.User, 0, len(names))

	for _, name := range names {
		u := models.User{FullName: name, Email: name + "@example.com"}
		require.NoError(t, db.Create(&u).Error, "failed to seed user")
		users = append(users, u)
	}

	return users
}

func TestCreate(t *testing.T) {
	db := setupTestDB(t)
	permissions := seedPermissions(t, db, "Read", "Write")
	users := seedUsers(t, db, "Ada Lovelace")

	testCases := []struct {
		name            string
		dbParam         *gorm.DB
		input           CreateInput
		expectedError   error
		expectedMessage string
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			input:         CreateInput{Name: "Admins", PermissionIDs: []uint{permissions[0].ID}},
			expectedError: controller.ErrDBNil,
		},
		{
			name:            "empty name",
			dbParam:         db,
			input:           CreateInput{Name: "  ", PermissionIDs: []uint{permissions[0].ID}},
			expectedMessage: MsgNameEmpty,
		},
		{
			name:            "no permissions",
			dbParam:         db,
			input:           CreateInput{Name: "Admins"},
			expectedMessage: relation.MsgGroupNeedsPermission,
		},
		{
			name:            "unknown permission id",
			dbParam:         db,
			input:           CreateInput{Name: "Admins", PermissionIDs: []uint{77}},
			expectedMessage: "These permission IDs do not exist: 77",
		},
		{
			name:            "unknown user id",
			dbParam:         db,
			input:           CreateInput{Name: "Admins", PermissionIDs: []uint{permissions[0].ID}, UserIDs: []uint{55}},
			expectedMessage: "These user IDs do not exist: 55",
		},
		{
			name:    "created with members and grants",
			dbParam: db,
			input: CreateInput{
				Name:          "Admins",
				PermissionIDs: []uint{permissions[0].ID, permissions[1].ID},
				UserIDs:       []uint{users[0].ID},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Create(tc.dbParam, tc.input)

			switch {
			case tc.expectedError != nil:
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, g)
			case tc.expectedMessage != "":
				require.Error(t, err)
				require.True(t, controller.IsValidation(err))
				assert.EqualError(t, err, tc.expectedMessage)
				assert.Nil(t, g)
			default:
				require.NoError(t, err)
				require.NotNil(t, g)
				assert.Equal(t, "Admins", g.Name)
				assert.Len(t, g.Permissions, 2)
				require.Len(t, g.Users, 1)
				assert.Equal(t, "Ada Lovelace", g.Users[0].FullName)
			}
		})
	}

	t.Run("failed validation rolls back the group row", func(t *testing.T) {
		var before int64
		db.Model(&models.Group{}).Count(&before)

		_, err := Create(db, CreateInput{Name: "Orphans"})
		require.Error(t, err)

		var after int64
		db.Model(&models.Group{}).Count(&after)
		assert.Equal(t, before, after)
	})
}

func TestGetByID(t *testing.T) {
	db := setupTestDB(t)
	permissions := seedPermissions(t, db, "Read")

	created, err := Create(db, CreateInput{Name: "Admins", PermissionIDs: []uint{permissions[0].ID}})
	require.NoError(t, err)

	t.Run("nil database", func(t *testing.T) {
		g, err := GetByID(nil, created.ID)
		require.ErrorIs(t, err, controller.ErrDBNil)
		assert.Nil(t, g)
	})

	t.Run("group not found", func(t *testing.T) {
		g, err := GetByID(db, 999)
		require.ErrorIs(t, err, controller.ErrNotFound)
		assert.Nil(t, g)
	})

	t.Run("successful get", func(t *testing.T) {
		g, err := GetByID(db, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Admins", g.Name)
		require.Len(t, g.Permissions, 1)
		assert.Equal(t, "Read", g.Permissions[0].Name)
		assert.NotNil(t, g.Users)
		assert.Empty(t, g.Users)
	})
}

func TestGetAll(t *testing.T) {
	db := setupTestDB(t)

	t.Run("empty database returns empty slice", func(t *testing.T) {
		groups, err := GetAll(db)
		require.NoError(t, err)
		assert.NotNil(t, groups)
		assert.Empty(t, groups)
	})

	t.Run("all groups with association sets", func(t *testing.T) {
		permissions := seedPermissions(t, db, "Read", "Write")
		users := seedUsers(t, db, "Ada Lovelace")

		_, err := Create(db, CreateInput{
			Name:          "Admins",
			PermissionIDs: []uint{permissions[0].ID, permissions[1].ID},
			UserIDs:       []uint{users[0].ID},
		})
		require.NoError(t, err)

		_, err = Create(db, CreateInput{Name: "Viewers", PermissionIDs: []uint{permissions[0].ID}})
		require.NoError(t, err)

		groups, err := GetAll(db)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		assert.Equal(t, "Admins", groups[0].Name)
		assert.Len(t, groups[0].Permissions, 2)
		assert.Len(t, groups[0].Users, 1)

		assert.Equal(t, "Viewers", groups[1].Name)
		assert.Len(t, groups[1].Permissions, 1)
		assert.Empty(t, groups[1].Users)
	})
}

func TestUpdate(t *testing.T) {
	db := setupTestDB(t)
	permissions := seedPermissions(t, db, "Read", "Write")

	created, err := Create(db, CreateInput{
		Name:          "Admins",
		PermissionIDs: []uint{permissions[0].ID, permissions[1].ID},
	})
	require.NoError(t, err)

	t.Run("missing group yields false without error", func(t *testing.T) {
		found, err := Update(db, 999, UpdateInput{Name: "X", PermissionIDs: []uint{permissions[0].ID}})
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("narrowing to a single permission", func(t *testing.T) {
		found, err := Update(db, created.ID, UpdateInput{
			Name:          "Admins",
			PermissionIDs: []uint{permissions[0].ID},
		})
		require.NoError(t, err)
		assert.True(t, found)

		g, err := GetByID(db, created.ID)
		require.NoError(t, err)
		require.Len(t, g.Permissions, 1)
		assert.Equal(t, "Read", g.Permissions[0].Name)
	})

	t.Run("emptying the permission set fails and keeps the old set", func(t *testing.T) {
		found, err := Update(db, created.ID, UpdateInput{Name: "Admins"})
		require.Error(t, err)
		assert.False(t, found)
		require.True(t, controller.IsValidation(err))
		assert.EqualError(t, err, relation.MsgGroupNeedsPermission)

		g, err := GetByID(db, created.ID)
		require.NoError(t, err)
		require.Len(t, g.Permissions, 1)
		assert.Equal(t, "Read", g.Permissions[0].Name)
	})

	t.Run("rename with unchanged set", func(t *testing.T) {
		found, err := Update(db, created.ID, UpdateInput{
			Name:          "Administrators",
			PermissionIDs: []uint{permissions[0].ID},
		})
		require.NoError(t, err)
		assert.True(t, found)

		g, err := GetByID(db, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Administrators", g.Name)
	})
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	permissions := seedPermissions(t, db, "Read")
	users := seedUsers(t, db, "Ada Lovelace")

	created, err := Create(db, CreateInput{
		Name:          "Admins",
		PermissionIDs: []uint{permissions[0].ID},
		UserIDs:       []uint{users[0].ID},
	})
	require.NoError(t, err)

	t.Run("missing group yields false without error", func(t *testing.T) {
		found, err := Delete(db, 999)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete removes group, memberships and grants", func(t *testing.T) {
		found, err := Delete(db, created.ID)
		require.NoError(t, err)
		assert.True(t, found)

		_, err = GetByID(db, created.ID)
		require.ErrorIs(t, err, controller.ErrNotFound)

		var memberships int64
		db.Model(&models.UserGroup{}).Where("group_id = ?", created.ID).Count(&memberships)
		assert.Zero(t, memberships)

		var grants int64
		db.Model(&models.GroupPermission{}).Where("group_id = ?", created.ID).Count(&grants)
		assert.Zero(t, grants)

		// users and permissions survive
		var userCount, permissionCount int64
		db.Model(&models.User{}).Count(&userCount)
		db.Model(&models.Permission{}).Count(&permissionCount)
		assert.EqualValues(t, 1, userCount)
		assert.EqualValues(t, 1, permissionCount)
	})
}
