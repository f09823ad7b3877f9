package domain

// Role is a named role referenced by users. The set is open: roles live in
// the store and are resolved by name at assignment time, but authorization
// checks are plain name equality with no hierarchy.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Default role names seeded at migration time.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)
