package group

// request is the JSON body for creating or updating a group. Both
// association sets are replaced in full on every write; permissionIds must
// resolve to at least one existing permission.
type request struct {
	Name          string `json:"name"`
	PermissionIDs []uint `json:"permissionIds"`
	UserIDs       []uint `json:"userIds"`
}
