package domain

// Actor is the authenticated caller of a core operation, resolved from a
// verified session claim by the transport layer.
type Actor struct {
	ID   string
	Role Role
}

// Claims is the identity carried inside a session token.
type Claims struct {
	Subject  string `json:"sub"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// Actor converts verified claims into the caller identity used by services.
func (c Claims) Actor() Actor {
	return Actor{ID: c.Subject, Role: c.Role}
}
