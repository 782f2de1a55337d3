// internal/session/session.go
//
// Session carries the signed-in user through the application as an
// explicit dependency instead of package-level mutable state. Real
// authentication lives behind the backend; the terminal client runs with
// a mock identity until login support exists.

package session

import "time"

// User identifies who is driving the session.
type User struct {
	ID    int64
	Name  string
	Email string
}

// Session holds the current user and session start time.
type Session struct {
	user    User
	started time.Time
}

// New creates a session for the given user.
func New(user User) *Session {
	return &Session{user: user, started: time.Now()}
}

// NewMock returns the development session used while authentication is
// out of scope.
func NewMock() *Session {
	return New(User{ID: 1, Name: "Demo User", Email: "demo@example.com"})
}

// User returns the session's user.
func (s *Session) User() User {
	if s == nil {
		return User{}
	}
	return s.user
}

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time {
	if s == nil {
		return time.Time{}
	}
	return s.started
}
