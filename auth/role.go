package auth

// Role is the closed set of principal kinds. Higher roles include the capabilities of lower roles.
type Role int

const (
	Anonymous   Role = 0
	Contributor Role = 100
	Admin       Role = 500
)

func (r Role) String() string {
	switch r {
	case Anonymous:
		return "anonymous"
	case Contributor:
		return "contributor"
	case Admin:
		return "admin"
	}
	return "unknown"
}

func (r Role) Valid() bool {
	switch r {
	case Anonymous:
		return true
	case Contributor:
		return true
	case Admin:
		return true
	default:
		return false
	}
}

// Capabilities returns the capability set of the role.
func (r Role) Capabilities() Capabilities {
	switch r {
	case Contributor:
		return Capabilities(EditContent)
	case Admin:
		return Capabilities(EditContent | EditAdminFields | OverrideDates | AssignCreator | EditMembership)
	}
	return 0
}

// A Principal is the authenticated actor of a request.
type Principal struct {
	ID      int // zero if not logged in
	IsAdmin bool
}

func (p Principal) Role() Role {
	switch {
	case p.ID == 0:
		return Anonymous
	case p.IsAdmin:
		return Admin
	default:
		return Contributor
	}
}

func (p Principal) Capabilities() Capabilities {
	return p.Role().Capabilities()
}
