package domain

// Role represents a user role for access control.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is the authenticated principal acting on entries. Only the fields
// this service needs are carried; identity management lives elsewhere.
type User struct {
	ID    string
	Name  string
	Email string
	Role  Role
}

// ActorName returns a nullable display name for history records.
// System-triggered records pass a nil user and get a nil actor.
func ActorName(u *User) *string {
	if u == nil || u.Name == "" {
		return nil
	}
	name := u.Name
	return &name
}
