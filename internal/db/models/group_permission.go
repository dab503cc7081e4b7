package models

import "time"

// GroupPermission represents the many-to-many relationship between groups and
// permissions. Existence of a row means "this group grants this permission".
type GroupPermission struct {
	// GroupID is the ID of the group in this grant.
	GroupID uint `gorm:"primaryKey;column:group_id"`
	// PermissionID is the ID of the permission in this grant.
	PermissionID uint `gorm:"primaryKey;column:permission_id"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// Permission is the associated permission (loaded via foreign key).
	Permission Permission `gorm:"foreignKey:PermissionID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the grant was added (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupPermission model.
// This overrides GORM's default pluralized table naming.
func (GroupPermission) TableName() string {
	return "group_permissions"
}
