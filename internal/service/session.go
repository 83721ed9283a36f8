package service

// Session is the authenticated caller, resolved from the bearer token by the
// JWT middleware and threaded explicitly into every service call. Business
// logic never reads ambient auth state.
type Session struct {
	UserID   uint
	Role     string
	SchoolID uint
	Token    string
}

// Authenticated reports whether the session resolves to a user.
func (s Session) Authenticated() bool {
	return s.UserID != 0
}
