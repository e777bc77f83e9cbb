package domain

import "strings"

// Identity is the user extracted from the backend's bearer token.
type Identity struct {
	Email string   `json:"email"`
	Name  string   `json:"name,omitempty"`
	Roles []string `json:"roles"`
}

// NormalizeRole maps role spellings to the backend's ROLE_<NAME> convention,
// so "admin", "Admin" and "ROLE_ADMIN" all compare equal.
func NormalizeRole(role string) string {
	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		return ""
	}
	if !strings.HasPrefix(role, "ROLE_") {
		role = "ROLE_" + role
	}
	return role
}

func (i Identity) HasRole(role string) bool {
	want := NormalizeRole(role)
	for _, r := range i.Roles {
		if NormalizeRole(r) == want {
			return true
		}
	}
	return false
}
