// Package policy holds the authorization table mapping (role, action) to an
// allow/deny decision. The table is explicit and total so there is no hidden
// "first match wins" precedence: every (role, action) pair has exactly one
// entry.
package policy

import "github.com/sentiserve/ml-api/internal/core/domain"

// table is the full permission matrix. Admin inherits every User capability,
// User inherits every Guest capability, but admin-manage-users is
// Admin-exclusive and never inherited downward.
var table = map[domain.Action]map[domain.Role]bool{
	domain.ActionPublic: {
		domain.RoleGuest: true,
		domain.RoleUser:  true,
		domain.RoleAdmin: true,
	},
	domain.ActionSelfProfile: {
		domain.RoleGuest: false,
		domain.RoleUser:  true,
		domain.RoleAdmin: true,
	},
	domain.ActionPredict: {
		domain.RoleGuest: false,
		domain.RoleUser:  true,
		domain.RoleAdmin: true,
	},
	domain.ActionAdminManageUsers: {
		domain.RoleGuest: false,
		domain.RoleUser:  false,
		domain.RoleAdmin: true,
	},
}

// IsAllowed reports whether role may perform action. Unknown roles and
// unknown actions are denied.
func IsAllowed(role domain.Role, action domain.Action) bool {
	perms, ok := table[action]
	if !ok {
		return false
	}
	return perms[role]
}
