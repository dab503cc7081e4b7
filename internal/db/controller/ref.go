package controller

// Ref is a denormalized one-level summary of a related entity.
type Ref struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
