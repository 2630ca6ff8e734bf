package entity

// Role is the back-office access level carried in the JWT and checked by the
// authorization middleware. Roles are totally ordered: viewer < operator < admin.
type Role string

const (
	// RoleViewer may read every business resource but change nothing.
	RoleViewer Role = "viewer"

	// RoleOperator may maintain market data, holdings, and report batches.
	RoleOperator Role = "operator"

	// RoleAdmin may additionally delete instruments and batches and read the audit trail.
	RoleAdmin Role = "admin"
)

// roleLevels orders roles for minimum-role checks. Unknown roles map to 0.
var roleLevels = map[Role]int{
	RoleViewer:   1,
	RoleOperator: 2,
	RoleAdmin:    3,
}

// ParseRole returns the Role for s and whether s names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	_, ok := roleLevels[r]
	return r, ok
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the role's position in the ordering, 0 for unknown roles.
func (r Role) Level() int {
	return roleLevels[r]
}

// AtLeast reports whether r ranks at or above min. Unknown roles never satisfy
// any minimum.
func (r Role) AtLeast(min Role) bool {
	rl := roleLevels[r]
	return rl > 0 && rl >= roleLevels[min]
}

// String returns the wire form of the role.
func (r Role) String() string {
	return string(r)
}
