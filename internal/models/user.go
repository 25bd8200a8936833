package models

// Roles understood by the backend. Determines visible views and form fields.
const (
	RoleUser    = "user"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// User represents an account as returned by the API.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	ManagerID string `json:"managerId,omitempty"`
}

// UserRef is the display subset the server embeds in task responses.
type UserRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}
