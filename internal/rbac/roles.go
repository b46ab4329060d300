package rbac

// Role names. Keep these stable; they are part of auth/RBAC contracts.
const (
	RoleAdmin      = "admin"
	RoleLawyer     = "lawyer"
	RoleParalegal  = "paralegal"
	RoleSuperAdmin = "super_admin"
)

func IsSuperAdmin(role string) bool { return role == RoleSuperAdmin }

// AdminRoles are the roles allowed to approve versions and manage bookings.
func AdminRoles() []string {
	return []string{RoleAdmin, RoleSuperAdmin}
}

// StaffRoles are the roles allowed into the back-office area at all.
func StaffRoles() []string {
	return []string{RoleAdmin, RoleLawyer, RoleParalegal, RoleSuperAdmin}
}
