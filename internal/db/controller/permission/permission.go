// Package permission provides CRUD operations for permissions.
package permission

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

// MsgNameEmpty is the validation message for a blank permission name.
const MsgNameEmpty = "Permission name cannot be empty."

// Permission is the denormalized response shape for a permission. Groups are
// embedded one level deep only.
type Permission struct {
	ID     uint             `json:"id"`
	Name   string           `json:"name"`
	Groups []controller.Ref `json:"groups"`
}

// CreateInput carries the fields for creating a permission.
type CreateInput struct {
	Name     string
	GroupIDs []uint
}

// UpdateInput carries the fields for updating a permission. The granting
// group set is replaced in full, not patched.
type UpdateInput struct {
	Name     string
	GroupIDs []uint
}

var validate = validator.New() //nolint:gochecknoglobals

// Create validates the input, persists the permission and replaces the set
// of groups granting it.
func Create(db *gorm.DB, input CreateInput) (*Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := validateName(input.Name); err != nil {
		return nil, err
	}

	log.Info().Str("name", input.Name).Msg("creating permission")

	var (
		p      models.Permission
		groups []models.Group
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		p = models.Permission{Name: input.Name}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		var err error

		groups, err = relation.SetPermissionGroups(tx, p.ID, input.GroupIDs)

		return err
	})
	if err != nil {
		if !controller.IsValidation(err) {
			log.Error().Err(err).Str("name", input.Name).Msg("create permission failed")
		}

		return nil, err
	}

	log.Info().Uint("id", p.ID).Str("name", p.Name).Msg("permission created")

	return &Permission{ID: p.ID, Name: p.Name, Groups: groupRefs(groups)}, nil
}

// GetByID returns the denormalized permission or controller.ErrNotFound.
func GetByID(db *gorm.DB, id uint) (*Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var p models.Permission
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("permission not found")
			return nil, controller.ErrNotFound
		}

		return nil, err
	}

	var grants []models.GroupPermission
	if err := db.Preload("Group").Where("permission_id = ?", id).Order("group_id ASC").Find(&grants).Error; err != nil {
		return nil, err
	}

	groups := make([]controller.Ref, 0, len(grants))
	for _, gp := range grants {
		groups = append(groups, controller.Ref{ID: gp.Group.ID, Name: gp.Group.Name})
	}

	return &Permission{ID: p.ID, Name: p.Name, Groups: groups}, nil
}

// GetAll returns every permission, denormalized. No pagination.
func GetAll(db *gorm.DB) ([]Permission, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var permissions []models.Permission
	if err := db.Order("id ASC").Find(&permissions).Error; err != nil {
		return nil, err
	}

	var grants []models.GroupPermission
	if err := db.Preload("Group").Order("group_id ASC").Find(&grants).Error; err != nil {
		return nil, err
	}

	byPermission := make(map[uint][]controller.Ref, len(permissions))
	for _, gp := range grants {
		byPermission[gp.PermissionID] = append(byPermission[gp.PermissionID], controller.Ref{
			ID:   gp.Group.ID,
			Name: gp.Group.Name,
		})
	}

	out := make([]Permission, 0, len(permissions))

	for _, p := range permissions {
		groups := byPermission[p.ID]
		if groups == nil {
			groups = []controller.Ref{}
		}

		out = append(out, Permission{ID: p.ID, Name: p.Name, Groups: groups})
	}

	return out, nil
}

// Update overwrites the permission's name and fully replaces the set of
// groups granting it. A missing permission short-circuits with (false, nil)
// before validation.
func Update(db *gorm.DB, id uint, input UpdateInput) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var p models.Permission
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("permission not found for update")
			return false, nil
		}

		return false, err
	}

	if err := validateName(input.Name); err != nil {
		return false, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		p.Name = input.Name

		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		_, err := relation.SetPermissionGroups(tx, id, input.GroupIDs)

		return err
	})
	if err != nil {
		if !controller.IsValidation(err) {
			log.Error().Err(err).Uint("id", id).Msg("update permission failed")
		}

		return false, err
	}

	log.Info().Uint("id", id).Msg("permission updated")

	return true, nil
}

// Delete removes the permission and every group grant referencing it.
// A missing permission yields (false, nil). Deleting a permission may leave
// a group without grants; the minimum-cardinality rule is enforced at group
// create and update time only.
func Delete(db *gorm.DB, id uint) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var p models.Permission
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("permission not found for deletion")
			return false, nil
		}

		return false, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&models.GroupPermission{}).Error; err != nil {
			return err
		}

		return tx.Delete(&p).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("delete permission failed")
		return false, err
	}

	log.Info().Uint("id", id).Msg("permission deleted")

	return true, nil
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

func groupRefs(groups []models.Group) []controller.Ref {
	out := make([]controller.Ref, 0, len(groups))
	for _, g := range groups {
		out = append(out, controller.Ref{ID: g.ID, Name: g.Name})
	}

	return out
}
