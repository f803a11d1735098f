package domain

// Session is the verified identity attached to a staff request.
// It is created once by the auth middleware and passed explicitly to the
// services that need to know who is acting.
type Session struct {
	UserID uint
	Email  string
	Role   Role
}

// HasRole reports whether the session holds any of the given roles
func (s *Session) HasRole(roles ...Role) bool {
	if s == nil {
		return false
	}
	for _, r := range roles {
		if s.Role == r {
			return true
		}
	}
	return false
}

// ActorID returns the session user id, or nil for anonymous callers
func (s *Session) ActorID() *uint {
	if s == nil || s.UserID == 0 {
		return nil
	}
	id := s.UserID
	return &id
}
