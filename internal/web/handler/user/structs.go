package user

// request is the JSON body for creating or updating a user. The group set
// is replaced in full on every write.
type request struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	GroupIDs []uint `json:"groupIds"`
}
