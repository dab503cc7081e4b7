// Package group provides CRUD operations for groups, including the
// reconciliation of both their permission grants and user memberships.
package group

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller/relation"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
)

// MsgNameEmpty is the validation message for a blank group name.
const MsgNameEmpty = "Group name cannot be empty."

// Member is the denormalized one-level summary of a user belonging to a group.
type Member struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Group is the denormalized response shape for a group. Users and
// permissions are embedded one level deep only, never recursing back.
type Group struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Users       []Member         `json:"users"`
	Permissions []controller.Ref `json:"permissions"`
}

// CreateInput carries the fields for creating a group. PermissionIDs must
// resolve to at least one existing permission.
type CreateInput struct {
	Name          string
	PermissionIDs []uint
	UserIDs       []uint
}

// UpdateInput carries the fields for updating a group. Both association sets
// are replaced in full, not patched.
type UpdateInput struct {
	Name          string
	PermissionIDs []uint
	UserIDs       []uint
}

var validate = validator.New() //nolint:gochecknoglobals

// Create validates the input and persists the group together with exactly
// the requested permission and user sets. No group row is ever visible
// without at least one permission grant.
func Create(db *gorm.DB, input CreateInput) (*Group, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	log.Info().Str("name", input.Name).Msg("creating group")

	var (
		g           models.Group
		permissions []models.Permission
		users       []models.User
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		g = models.Group{Name: input.Name}
		if err := tx.Create(&g).Error; err != nil {
			return err
		}

		var err error

		if permissions, err = relation.SetGroupPermissions(tx, g.ID, input.PermissionIDs); err != nil {
			return err
		}

		users, err = relation.SetGroupUsers(tx, g.ID, input.UserIDs)

		return err
	})
	if err != nil {
		if !controller.IsValidation(err) {
			log.Error().Err(err).Str("name", input.Name).Msg("create group failed")
		}

		return nil, err
	}

	log.Info().Uint("id", g.ID).Str("name", g.Name).Msg("group created")

	return &Group{
		ID:          g.ID,
		Name:        g.Name,
		Users:       members(users),
		Permissions: permissionRefs(permissions),
	}, nil
}

// GetByID returns the denormalized group or controller.ErrNotFound.
func GetByID(db *gorm.DB, id uint) (*Group, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var g models.Group
	if err := db.First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("group not found")
			return nil, controller.ErrNotFound
		}

		return nil, err
	}

	users, permissions, err := associations(db, id)
	if err != nil {
		return nil, err
	}

	return &Group{ID: g.ID, Name: g.Name, Users: users, Permissions: permissions}, nil
}

// GetAll returns every group, denormalized. No pagination.
func GetAll(db *gorm.DB) ([]Group, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var groups []models.Group
	if err := db.Order("id ASC").Find(&groups).Error; err != nil {
		return nil, err
	}

	var memberships []models.UserGroup
	if err := db.Preload("User").Order("user_id ASC").Find(&memberships).Error; err != nil {
		return nil, err
	}

	var grants []models.GroupPermission
	if err := db.Preload("Permission").Order("permission_id ASC").Find(&grants).Error; err != nil {
		return nil, err
	}

	usersByGroup := make(map[uint][]Member, len(groups))
	for _, m := range memberships {
		usersByGroup[m.GroupID] = append(usersByGroup[m.GroupID], Member{
			ID:       m.User.ID,
			FullName: m.User.FullName,
			Email:    m.User.Email,
		})
	}

	permissionsByGroup := make(map[uint][]controller.Ref, len(groups))
	for _, gp := range grants {
		permissionsByGroup[gp.GroupID] = append(permissionsByGroup[gp.GroupID], controller.Ref{
			ID:   gp.Permission.ID,
			Name: gp.Permission.Name,
		})
	}

	out := make([]Group, 0, len(groups))

	for _, g := range groups {
		users := usersByGroup[g.ID]
		if users == nil {
			users = []Member{}
		}

		permissions := permissionsByGroup[g.ID]
		if permissions == nil {
			permissions = []controller.Ref{}
		}

		out = append(out, Group{ID: g.ID, Name: g.Name, Users: users, Permissions: permissions})
	}

	return out, nil
}

// Update overwrites the group's name and fully replaces both association
// sets. A missing group short-circuits with (false, nil) before validation.
// The replacement permission set must not be empty; on failure the previous
// set stays untouched.
func Update(db *gorm.DB, id uint, input UpdateInput) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var g models.Group
	if err := db.First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("group not found for update")
			return false, nil
		}

		return false, err
	}

	if err := validateName(input.Name); err != nil {
		return false, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		g.Name = input.Name

		if err := tx.Save(&g).Error; err != nil {
			return err
		}

		if _, err := relation.SetGroupPermissions(tx, id, input.PermissionIDs); err != nil {
			return err
		}

		_, err := relation.SetGroupUsers(tx, id, input.UserIDs)

		return err
	})
	if err != nil {
		if !controller.IsValidation(err) {
			log.Error().Err(err).Uint("id", id).Msg("update group failed")
		}

		return false, err
	}

	log.Info().Uint("id", id).Msg("group updated")

	return true, nil
}

// Delete removes the group, its user memberships and its permission grants.
// A missing group yields (false, nil).
func Delete(db *gorm.DB, id uint) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var g models.Group
	if err := db.First(&g, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("group not found for deletion")
			return false, nil
		}

		return false, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		if err := tx.Where("group_id = ?", id).Delete(&models.GroupPermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&g).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("delete group failed")
		return false, err
	}

	log.Info().Uint("id", id).Msg("group deleted")

	return true, nil
}

// associations loads the denormalized membership and grant lists for one group.
func associations(db *gorm.DB, id uint) ([]Member, []controller.Ref, error) {
	var memberships []models.UserGroup
	if err := db.Preload("User").Where("group_id = ?", id).Order("user_id ASC").Find(&memberships).Error; err != nil {
		return nil, nil, err
	}

	var grants []models.GroupPermission
	if err := db.Preload("Permission").Where("group_id = ?", id).Order("permission_id ASC").Find(&grants).Error; err != nil {
		return nil, nil, err
	}

	users := make([]Member, 0, len(memberships))
	for _, m := range memberships {
		users = append(users, Member{ID: m.User.ID, FullName: m.User.FullName, Email: m.User.Email})
	}

	permissions := make([]controller.Ref, 0, len(grants))
	for _, gp := range grants {
		permissions = append(permissions, controller.Ref{ID: gp.Permission.ID, Name: gp.Permission.Name})
	}

	return users, permissions, nil
}

// validateName checks the required name field, treating whitespace-only
// values as empty.
func validateName(name string) error {
	fields := struct {
		Name string `validate:"required"`
	}{
		Name: strings.TrimSpace(name),
	}

	if err := validate.Struct(fields); err != nil {
		return controller.NewValidationError(MsgNameEmpty)
	}

	return nil
}

func members(users []models.User) []Member {
	out := make([]Member, 0, len(users))
	for _, u := range users {
		out = append(out, Member{ID: u.ID, FullName: u.FullName, Email: u.Email})
	}

	return out
}

func permissionRefs(permissions []models.Permission) []controller.Ref {
	out := make([]controller.Ref, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, controller.Ref{ID: p.ID, Name: p.Name})
	}

	return out
}
