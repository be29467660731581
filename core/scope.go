package core

// Tenant scoping roles.
const (
	RoleAdmin  = "admin"
	RoleCenter = "center"
	RoleParent = "parent"
)

// TenantScope is the single policy value derived from verified token claims
// and threaded into every repository query. Repositories apply it uniformly
// so no query path can forget the tenant filter.
type TenantScope struct {
	Role     string
	CenterID string // empty for admin
	UserID   string
}

// AllCenters reports whether the scope may see rows of every center.
func (s TenantScope) AllCenters() bool {
	return s.Role == RoleAdmin
}

// CanAccessCenter reports whether rows owned by centerID are visible.
func (s TenantScope) CanAccessCenter(centerID string) bool {
	if s.AllCenters() {
		return true
	}
	return s.CenterID != "" && s.CenterID == centerID
}

// CanAccessStudent reports whether a student owned by centerID and linked to
// the parent user parentID is visible. Parents only see their own children.
func (s TenantScope) CanAccessStudent(centerID, parentID string) bool {
	if s.Role == RoleParent {
		return s.UserID != "" && s.UserID == parentID
	}
	return s.CanAccessCenter(centerID)
}

// CanWrite reports whether the scope may mutate rows; parents are read-only.
func (s TenantScope) CanWrite() bool {
	return s.Role == RoleAdmin || s.Role == RoleCenter
}

// AdminScope is the unrestricted scope used by the admin CLI and tests.
func AdminScope() TenantScope {
	return TenantScope{Role: RoleAdmin}
}
