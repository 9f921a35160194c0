// Package session owns the authenticated session: the explicit session
// object handed to the components that need it, the transient notice
// banner, and the controller that composes the inactivity timer with the
// data synchronizer.
package session

import (
	"sync"

	"netbank-client/internal/domain"
)

// View identifies the dashboard screen the user is looking at.
type View int

const (
	ViewTransactions View = iota
	ViewSendMoney
	ViewSavedRecipients
)

// Session is one authenticated session, bound to a single account for its
// lifetime. Components that outlive a network call check Alive before
// writing anything user-visible.
type Session struct {
	mu      sync.Mutex
	account domain.Account
	view    View
	alive   bool
}

func newSession(account domain.Account) *Session {
	return &Session{account: account, view: ViewTransactions, alive: true}
}

// Account returns the identity the session was opened with. The live
// balance comes from the syncer's cached view, not from here.
func (s *Session) Account() domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// Alive reports whether the session has not been torn down.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alive
}

// ActiveView returns the currently displayed dashboard view.
func (s *Session) ActiveView() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// SetActiveView switches the displayed view. Ignored after teardown.
func (s *Session) SetActiveView(v View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive {
		return
	}
	s.view = v
}

func (s *Session) end() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alive = false
}
