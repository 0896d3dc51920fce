package entity

import "strings"

// Role is the privilege tier of a staff account
type Role string

const (
	RoleViewer Role = "VIEWER"
	RoleEditor Role = "EDITOR"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleViewer, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// UserAccount is a staff login. PasswordHash is a bcrypt hash.
type UserAccount struct {
	ID              string   `json:"id" yaml:"id"`
	Username        string   `json:"username" yaml:"username"`
	PasswordHash    string   `json:"passwordHash" yaml:"passwordHash"`
	Role            Role     `json:"role" yaml:"role"`
	FullName        string   `json:"fullName" yaml:"fullName"`
	AllowedAirlines []string `json:"allowedAirlines" yaml:"allowedAirlines"`
}

// Viewer is the caller identity used for visibility and role checks
type Viewer struct {
	UserID          string
	Username        string
	Role            Role
	AllowedAirlines []string
}

// ViewerFor builds the viewer of an account
func ViewerFor(u *UserAccount) Viewer {
	return Viewer{
		UserID:          u.ID,
		Username:        u.Username,
		Role:            Role(strings.ToUpper(string(u.Role))),
		AllowedAirlines: u.AllowedAirlines,
	}
}

// SystemViewer is used by background jobs; it sees every airline
func SystemViewer() Viewer {
	return Viewer{UserID: "system", Username: "system", Role: RoleAdmin}
}

// IsAdmin reports whether the viewer has the ADMIN role
func (v Viewer) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// CanEdit reports whether the viewer may create and edit reservations
func (v Viewer) CanEdit() bool {
	return v.Role == RoleEditor || v.Role == RoleAdmin
}

// CanSee reports whether reservations of airline are visible to the viewer
func (v Viewer) CanSee(airline string) bool {
	if v.IsAdmin() {
		return true
	}
	for _, allowed := range v.AllowedAirlines {
		if allowed == airline {
			return true
		}
	}
	return false
}
