package permission

// request is the JSON body for creating or updating a permission. The
// granting group set is replaced in full on every write.
type request struct {
	Name     string `json:"name"`
	GroupIDs []uint `json:"groupIds"`
}
