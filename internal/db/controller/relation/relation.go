// Package relation reconciles the many-to-many association sets between
// users, groups and permissions. Each Set* operation replaces the owner's
// join rows with exactly the requested target set: the requested ids are
// deduplicated, checked for existence, and only then is the old set deleted
// and the new one inserted. The caller is expected to run the operation
// inside a transaction so a failed validation never leaves partial writes.
package relation

import (
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
)

const (
	// MsgMissingIDs is the validation message for nonexistent target ids.
	// The first placeholder is the target kind, the second the offending id list.
	MsgMissingIDs = "These %s IDs do not exist: %s"

	// MsgGroupNeedsPermission is the validation message for a group whose
	// requested permission set is empty.
	MsgGroupNeedsPermission = "A group must have at least one permission."

	// KindUser names the user target kind in validation messages.
	KindUser = "user"
	// KindGroup names the group target kind in validation messages.
	KindGroup = "group"
	// KindPermission names the permission target kind in validation messages.
	KindPermission = "permission"
)

// SetUserGroups replaces the group memberships of a user with exactly the
// requested group set and returns the groups for projection.
func SetUserGroups(tx *gorm.DB, userID uint, groupIDs []uint) ([]models.Group, error) {
	ids := dedupe(groupIDs)

	groups, err := findGroups(tx, ids)
	if err != nil {
		return nil, err
	}

	if err = tx.Where("user_id = ?", userID).Delete(&models.UserGroup{}).Error; err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		rows := make([]models.UserGroup, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserGroup{UserID: userID, GroupID: id})
		}

		if err = tx.Create(&rows).Error; err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// SetGroupUsers replaces the user memberships of a group with exactly the
// requested user set and returns the users for projection.
func SetGroupUsers(tx *gorm.DB, groupID uint, userIDs []uint) ([]models.User, error) {
	ids := dedupe(userIDs)

	var users []models.User
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
			return nil, err
		}
	}

	found := make([]uint, 0, len(users))
	for _, u := range users {
		found = append(found, u.ID)
	}

	if m := missing(ids, found); len(m) > 0 {
		return nil, controller.NewValidationError(MsgMissingIDs, KindUser, joinIDs(m))
	}

	if err := tx.Where("group_id = ?", groupID).Delete(&models.UserGroup{}).Error; err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		rows := make([]models.UserGroup, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.UserGroup{UserID: id, GroupID: groupID})
		}

		if err := tx.Create(&rows).Error; err != nil {
			return nil, err
		}
	}

	return users, nil
}

// SetGroupPermissions replaces the permission grants of a group with exactly
// the requested permission set and returns the permissions for projection.
// The validated set must not be empty: a group always carries at least one
// permission, on create and on update alike.
func SetGroupPermissions(tx *gorm.DB, groupID uint, permissionIDs []uint) ([]models.Permission, error) {
	ids := dedupe(permissionIDs)

	var permissions []models.Permission
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&permissions).Error; err != nil {
			return nil, err
		}
	}

	found := make([]uint, 0, len(permissions))
	for _, p := range permissions {
		found = append(found, p.ID)
	}

	if m := missing(ids, found); len(m) > 0 {
		return nil, controller.NewValidationError(MsgMissingIDs, KindPermission, joinIDs(m))
	}

	if len(ids) == 0 {
		return nil, controller.NewValidationError(MsgGroupNeedsPermission)
	}

	if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupPermission{}).Error; err != nil {
		return nil, err
	}

	rows := make([]models.GroupPermission, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.GroupPermission{GroupID: groupID, PermissionID: id})
	}

	if err := tx.Create(&rows).Error; err != nil {
		return nil, err
	}

	return permissions, nil
}

// SetPermissionGroups replaces the set of groups granting a permission with
// exactly the requested group set and returns the groups for projection.
func SetPermissionGroups(tx *gorm.DB, permissionID uint, groupIDs []uint) ([]models.Group, error) {
	ids := dedupe(groupIDs)

	groups, err := findGroups(tx, ids)
	if err != nil {
		return nil, err
	}

	if err = tx.Where("permission_id = ?", permissionID).Delete(&models.GroupPermission{}).Error; err != nil {
		return nil, err
	}

	if len(ids) > 0 {
		rows := make([]models.GroupPermission, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, models.GroupPermission{GroupID: id, PermissionID: permissionID})
		}

		if err = tx.Create(&rows).Error; err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// findGroups loads the requested groups and fails with a ValidationError when
// any requested id does not exist.
func findGroups(tx *gorm.DB, ids []uint) ([]models.Group, error) {
	var groups []models.Group
	if len(ids) > 0 {
		if err := tx.Where("id IN ?", ids).Order("id ASC").Find(&groups).Error; err != nil {
			return nil, err
		}
	}

	found := make([]uint, 0, len(groups))
	for _, g := range groups {
		found = append(found, g.ID)
	}

	if m := missing(ids, found); len(m) > 0 {
		return nil, controller.NewValidationError(MsgMissingIDs, KindGroup, joinIDs(m))
	}

	return groups, nil
}

// dedupe returns the requested ids without duplicates, in ascending order.
// The join relations are unordered sets, so input order carries no meaning.
func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}

		seen[id] = struct{}{}
		out = append(out, id)
	}

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// missing returns the requested ids that are absent from found, preserving
// the ascending order of requested.
func missing(requested, found []uint) []uint {
	have := make(map[uint]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}

	var out []uint

	for _, id := range requested {
		if _, ok := have[id]; !ok {
			out = append(out, id)
		}
	}

	return out
}

// joinIDs renders ids as "7, 9" for validation messages.
func joinIDs(ids []uint) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%d", id))
	}

	return strings.Join(parts, ", ")
}
