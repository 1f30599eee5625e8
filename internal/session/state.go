package session

import "sync"

// User is the identity returned by a successful login.
type User struct {
	ID       int
	Username string
	Email    string
}

// State is the authentication capability shared by the stages. Login and
// Logout are the only mutators; each is a single synchronous update.
type State struct {
	mu            sync.RWMutex
	authenticated bool
	user          User
}

// NewState returns an unauthenticated State.
func NewState() *State {
	return &State{}
}

// Login marks the state authenticated as u.
func (s *State) Login(u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.user = u
}

// Logout clears authentication and identity. Calling it again is a no-op.
func (s *State) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
	s.user = User{}
}

// IsAuthenticated reports whether a login has succeeded since the last Logout.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// User returns the logged-in identity and whether there is one.
func (s *State) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.authenticated
}
