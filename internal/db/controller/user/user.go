// Package user provides CRUD operations for managed users.
package user

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

const (
	// MsgFullNameEmpty is the validation message for a blank full name.
	MsgFullNameEmpty = "Full name cannot be empty."
	// MsgEmailEmpty is the validation message for a blank email.
	MsgEmailEmpty = "Email cannot be empty."
)

// User is the denormalized response shape for a user. Groups are embedded
// one level deep only, which keeps the shape cycle free.
type User struct {
	ID       uint             `json:"id"`
	FullName string           `json:"fullName"`
	Email    string           `json:"email"`
	Groups   []controller.Ref `json:"groups"`
}

// CreateInput carries the fields for creating a user.
type CreateInput struct {
	FullName string
	Email    string
	GroupIDs []uint
}

// UpdateInput carries the fields for updating a user. The group set is
// replaced in full, not patched.
type UpdateInput struct {
	FullName string
	Email    string
	GroupIDs []uint
}

var validate = validator.New() //nolint:gochecknoglobals

// Create validates the input, persists the user and replaces their group set.
func Create(db *gorm.DB, input CreateInput) (*User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	if err := validateScalars(input.FullName, input.Email); err != nil {
		return nil, err
	}

	log.Info().Str("email", input.Email).Msg("creating user")

	var (
		u      models.User
		groups []models.Group
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		u = models.User{FullName: input.FullName, Email: input.Email}
		if err := tx.Create(&u).Error; err != nil {
			return err
		}

		var err error

		groups, err = relation.SetUserGroups(tx, u.ID, input.GroupIDs)

		return err
	})
	if err != nil {
		if !controller.IsValidation(err) {
			log.Error().Err(err).Str("email", input.Email).Msg("create user failed")
		}

		return nil, err
	}

	log.Info().Uint("id", u.ID).Msg("user created")

	return &User{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Groups:   groupRefs(groups),
	}, nil
}

// GetByID returns the denormalized user or controller.ErrNotFound.
func GetByID(db *gorm.DB, id uint) (*User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("user not found")
			return nil, controller.ErrNotFound
		}

		return nil, err
	}

	var links []models.UserGroup
	if err := db.Preload("Group").Where("user_id = ?", id).Order("group_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}

	groups := make([]controller.Ref, 0, len(links))
	for _, l := range links {
		groups = append(groups, controller.Ref{ID: l.Group.ID, Name: l.Group.Name})
	}

	return &User{ID: u.ID, FullName: u.FullName, Email: u.Email, Groups: groups}, nil
}

// GetAll returns every user, denormalized. No pagination.
func GetAll(db *gorm.DB) ([]User, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	var users []models.User
	if err := db.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}

	var links []models.UserGroup
	if err := db.Preload("Group").Order("group_id ASC").Find(&links).Error; err != nil {
		return nil, err
	}

	byUser := make(map[uint][]controller.Ref, len(users))
	for _, l := range links {
		byUser[l.UserID] = append(byUser[l.UserID], controller.Ref{ID: l.Group.ID, Name: l.Group.Name})
	}

	out := make([]User, 0, len(users))
	for _, u := range users {
		groups := byUser[u.ID]
		if groups == nil {
			groups = []controller.Ref{}
		}

		out = append(out, User{ID: u.ID, FullName: u.FullName, Email: u.Email, Groups: groups})
	}

	return out, nil
}

// Update overwrites the user's scalar fields and fully replaces their group
// set. A missing user short-circuits with (false, nil) before validation.
func Update(db *gorm.DB, id uint, input UpdateInput) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("user not found for update")
			return false, nil
		}

		return false, err
	}

	if err := validateScalars(input.FullName, input.Email); err != nil {
		return false, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		u.FullName = input.FullName
		u.Email = input.Email

		if err := tx.Save(&u).Error; err != nil {
			return err
		}

		_, err := relation.SetUserGroups(tx, id, input.GroupIDs)

		return err
	})
	if err != nil {
		if !controller.IsValidation(err) {
			log.Error().Err(err).Uint("id", id).Msg("update user failed")
		}

		return false, err
	}

	log.Info().Uint("id", id).Msg("user updated")

	return true, nil
}

// Delete removes the user and every group membership referencing them.
// A missing user yields (false, nil).
func Delete(db *gorm.DB, id uint) (bool, error) {
	if db == nil {
		return false, controller.ErrDBNil
	}

	var u models.User
	if err := db.First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Warn().Uint("id", id).Msg("user not found for deletion")
			return false, nil
		}

		return false, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.UserGroup{}).Error; err != nil {
			return err
		}

		return tx.Delete(&u).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("id", id).Msg("delete user failed")
		return false, err
	}

	log.Info().Uint("id", id).Msg("user deleted")

	return true, nil
}

// validateScalars checks the required scalar fields, treating whitespace-only
// values as empty, and maps validator errors onto canonical messages.
func validateScalars(fullName, email string) error {
	fields := struct {
		FullName string `validate:"required"`
		Email    string `validate:"required"`
	}{
		FullName: strings.TrimSpace(fullName),
		Email:    strings.TrimSpace(email),
	}

	err := validate.Struct(fields)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) && len(vErrs) > 0 {
		if vErrs[0].Field() == "FullName" {
			return controller.NewValidationError(MsgFullNameEmpty)
		}

		return controller.NewValidationError(MsgEmailEmpty)
	}

	return err
}

func groupRefs(groups []models.Group) []controller.Ref {
	out := make([]controller.Ref, 0, len(groups))
	for _, g := range groups {
		out = append(out, controller.Ref{ID: g.ID, Name: g.Name})
	}

	return out
}
