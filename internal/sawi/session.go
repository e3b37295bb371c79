package sawi

import "time"

// Session identifies the signed-in user for one request. It is created by
// SignIn or SignUp, rebuilt per request by the transport layer, and passed
// explicitly into every operation. It is never shared between users.
type Session struct {
	UserID      string
	Email       string
	DisplayName string
	StartedAt   time.Time
}

func (s *Session) check() error {
	if s == nil || s.UserID == "" {
		return ErrUnauthenticated
	}
	return nil
}
