package auth

import "expensetracker/internal/core"

// State is the session: anonymous or authenticated, with an optional error
// message that is independent of either.
type State struct {
	IsAuthenticated bool       `json:"isAuthenticated"`
	User            *core.User `json:"user,omitempty"`
	Error           string     `json:"error,omitempty"`
}

// action is the closed set of session transitions.
type action interface {
	isAuthAction()
}

type (
	loginSuccess struct{ user core.User }
	authFailure  struct{ message string }
	loggedOut    struct{}
	errorCleared struct{}
)

func (loginSuccess) isAuthAction() {}
func (authFailure) isAuthAction()  {}
func (loggedOut) isAuthAction()    {}
func (errorCleared) isAuthAction() {}

// reduce computes the next state. It never mutates s.
func reduce(s State, a action) State {
	switch a := a.(type) {
	case loginSuccess:
		u := a.user
		return State{IsAuthenticated: true, User: &u}
	case authFailure:
		s.Error = a.message
		return s
	case loggedOut:
		return State{}
	case errorCleared:
		s.Error = ""
		return s
	default:
		return s
	}
}

// clone returns a State that shares no memory with s.
func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
