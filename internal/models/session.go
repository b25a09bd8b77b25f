package models

// Role is the user role string the API returns at login
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleOperator Role = "operator"
)

// DefaultRole applies whenever no role is stored
const DefaultRole = RoleOperator

// Session is the credential set persisted for one browser session.
// An empty AccessToken means logged out, whatever the other fields hold.
type Session struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	Username     string `json:"username"`
	Role         Role   `json:"role"`
}

// LoggedIn reports whether the session carries an access token
func (s *Session) LoggedIn() bool {
	return s != nil && s.AccessToken != ""
}

// EffectiveRole returns the stored role or DefaultRole when none is stored
func (s *Session) EffectiveRole() Role {
	if s == nil || s.Role == "" {
		return DefaultRole
	}
	return s.Role
}

// TokenResponse is the body of a successful POST /api/token/
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		Username string `json:"username"`
		Role     Role   `json:"role"`
	} `json:"user"`
}
