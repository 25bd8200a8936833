// Package access maps a role onto the capabilities the UI consults. All
// role-based decisions go through here instead of ad hoc string comparisons;
// the backend enforces the real authorization.
package access

import "github.com/taskdeck/taskdeck/internal/models"

// Capabilities describes what a role may see and do in the client.
type Capabilities struct {
	// ManageUsers grants the user-management view and user CRUD.
	ManageUsers bool
	// AssignOthers exposes the assignee field on the task form. Roles
	// without it are auto-assigned to themselves.
	AssignOthers bool
	// ManagedScope restricts user listings to /api/users/managed instead of
	// the full directory.
	ManagedScope bool
}

// ForRole resolves the capabilities of a role. Unknown roles get the plain
// user capabilities.
func ForRole(role string) Capabilities {
	switch role {
	case models.RoleAdmin:
		return Capabilities{ManageUsers: true, AssignOthers: true}
	case models.RoleManager:
		return Capabilities{ManageUsers: true, AssignOthers: true, ManagedScope: true}
	default:
		return Capabilities{}
	}
}

// Allowed reports whether role is in the allow-list. An empty allow-list
// admits any authenticated role.
func Allowed(role string, allow []string) bool {
	if len(allow) == 0 {
		return true
	}
	for _, a := range allow {
		if a == role {
			return true
		}
	}
	return false
}
