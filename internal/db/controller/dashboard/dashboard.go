// Package dashboard computes the read-only summary over the entity and
// junction tables.
package dashboard

import (
	"gorm.io/gorm"

	"github.com/GoUserAdmin/GoUserAdmin/internal/db/controller"
	"github.com/GoUserAdmin/GoUserAdmin/internal/db/models"
)

// NotAvailable is returned for a "most" value when the respective junction
// table is empty.
const NotAvailable = "N/A"

// Summary is the dashboard response shape.
type Summary struct {
	TotalUsers           int64  `json:"totalUsers"`
	TotalGroups          int64  `json:"totalGroups"`
	TotalPermissions     int64  `json:"totalPermissions"`
	MostAssignedGroup    string `json:"mostAssignedGroup"`
	MostCommonPermission string `json:"mostCommonPermission"`
}

// Get computes live row counts per entity table, the group with the most
// user memberships and the permission granted by the most groups. Ties are
// broken deterministically by lowest id.
func Get(db *gorm.DB) (*Summary, error) {
	if db == nil {
		return nil, controller.ErrDBNil
	}

	s := &Summary{
		MostAssignedGroup:    NotAvailable,
		MostCommonPermission: NotAvailable,
	}

	if err := db.Model(&models.User{}).Count(&s.TotalUsers).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Group{}).Count(&s.TotalGroups).Error; err != nil {
		return nil, err
	}

	if err := db.Model(&models.Permission{}).Count(&s.TotalPermissions).Error; err != nil {
		return nil, err
	}

	name, found, err := mostFrequent(db,
		"user_groups",
		"groups",
		"user_groups.group_id",
	)
	if err != nil {
		return nil, err
	}

	if found {
		s.MostAssignedGroup = name
	}

	name, found, err = mostFrequent(db,
		"group_permissions",
		"permissions",
		"group_permissions.permission_id",
	)
	if err != nil {
		return nil, err
	}

	if found {
		s.MostCommonPermission = name
	}

	return s, nil
}

// mostFrequent returns the name from target with the highest row count in
// the junction table, lowest id first on ties. found is false when the
// junction table is empty.
func mostFrequent(db *gorm.DB, junction, target, fk string) (name string, found bool, err error) {
	var row struct {
		Name string
	}

	result := db.Table(junction).
		Select(target+".name AS name").
		Joins("JOIN "+target+" ON "+target+".id = "+fk).
		Group(target+".id, "+target+".name").
		Order("COUNT(*) DESC, " + target + ".id ASC").
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return "", false, result.Error
	}

	if result.RowsAffected == 0 {
		return "", false, nil
	}

	return row.Name, true, nil
}
