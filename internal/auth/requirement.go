package auth

// AuthType names the capability an authorization check must satisfy
type AuthType string

const (
	AuthSimple AuthType = "Simple"
	AuthUser   AuthType = "User"
	AuthAdmin  AuthType = "Admin"
	AuthGroup  AuthType = "Group"
)

// Requirement describes one capability check. Only the fields the given
// AuthType needs are set; use the constructors below.
type Requirement struct {
	Type AuthType

	// Username is the expected account for AuthUser checks, resolved by the
	// caller from the route parameter or an explicit override.
	Username string

	// Emails is the member list for AuthGroup checks.
	Emails []string
}

// Simple requires any structurally valid, matching token pair
func Simple() Requirement {
	return Requirement{Type: AuthSimple}
}

// User additionally requires the session to belong to the given username
func User(username string) Requirement {
	return Requirement{Type: AuthUser, Username: username}
}

// Admin additionally requires the Admin role
func Admin() Requirement {
	return Requirement{Type: AuthAdmin}
}

// Group additionally requires the session email to be one of the given members
func Group(emails []string) Requirement {
	return Requirement{Type: AuthGroup, Emails: emails}
}
