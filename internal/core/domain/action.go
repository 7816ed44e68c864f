package domain

// Action identifies a protected capability. The set is closed: authorization
// decisions are taken from an explicit (role, action) table, never from
// string matching on routes.
type Action string

const (
	ActionPublic           Action = "public"
	ActionSelfProfile      Action = "self-profile"
	ActionPredict          Action = "predict"
	ActionAdminManageUsers Action = "admin-manage-users"
)

// Actions lists every known action, used by exhaustive policy tests.
var Actions = []Action{
	ActionPublic,
	ActionSelfProfile,
	ActionPredict,
	ActionAdminManageUsers,
}

// Roles lists every known role, used by exhaustive policy tests.
var Roles = []Role{RoleGuest, RoleUser, RoleAdmin}
