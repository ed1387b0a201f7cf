// Package auth holds the session of the single local user and the registered
// user list it is checked against.
package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

// Messages set on the session when an operation fails.
const (
	ErrMsgInvalidCredentials = "Invalid email or password"
	ErrMsgUserExists         = "User with this email already exists"
	ErrMsgLogin              = "An error occurred during login"
	ErrMsgRegistration       = "An error occurred during registration"
)

type Store struct {
	mu      sync.Mutex
	state   State
	storage storage.Storage
	logger  *log.Logger
	newID   func() string
}

type Option func(*Store)

func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l.WithComponent(log.ComponentAuth)
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new users.
func WithIDGenerator(f func() string) Option {
	return func(s *Store) {
		if f != nil {
			s.newID = f
		}
	}
}

// New builds the store and restores a persisted session, if any, before returning.
func New(ctx context.Context, st storage.Storage, opts ...Option) *Store {
	s := &Store{
		storage: st,
		logger:  log.Discard(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	var u core.User
	ok, err := storage.Load(ctx, s.storage, storage.KeyUser, &u)
	if err != nil {
		s.logger.WarnContext(ctx, "Ignoring unreadable session", log.NewFields().
			WithOperation(log.OpRestore).WithError(err).ToSlice()...)
		return
	}
	if !ok {
		return
	}
	s.state = reduce(s.state, loginSuccess{user: u})
	s.logger.InfoContext(ctx, "Session restored", log.NewFields().
		WithOperation(log.OpRestore).WithUser(u.ID, u.Email).ToSlice()...)
}

func (s *Store) dispatch(a action) {
	s.state = reduce(s.state, a)
}

func (s *Store) users(ctx context.Context) ([]core.User, error) {
	var users []core.User
	if _, err := storage.Load(ctx, s.storage, storage.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Login makes the first registered user matching email and password the
// current session. Passwords are compared verbatim.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := log.NewFields().WithOperation(log.OpLogin).WithUser("", email)

	users, err := s.users(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read users", fields.WithError(err).ToSlice()...)
		s.dispatch(authFailure{message: ErrMsgLogin})
		return false
	}

	for _, u := range users {
		if u.Email != email || u.Password != password {
			continue
		}
		if err := storage.Save(ctx, s.storage, storage.KeyUser, u); err != nil {
			s.logger.ErrorContext(ctx, "Failed to persist session", fields.WithError(err).ToSlice()...)
			s.dispatch(authFailure{message: ErrMsgLogin})
			return false
		}
		s.dispatch(loginSuccess{user: u})
		s.logger.InfoContext(ctx, "User logged in", fields.WithUser(u.ID, u.Email).ToSlice()...)
		return true
	}

	s.dispatch(authFailure{message: ErrMsgInvalidCredentials})
	s.logger.WarnContext(ctx, "Invalid credentials", fields.ToSlice()...)
	return false
}

// Register appends a new user with a fresh id and logs it in. An email that is
// already registered fails without touching the stored user list.
func (s *Store) Register(ctx context.Context, name, email, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := log.NewFields().WithOperation(log.OpRegister).WithUser("", email)

	users, err := s.users(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read users", fields.WithError(err).ToSlice()...)
		s.dispatch(authFailure{message: ErrMsgRegistration})
		return false
	}

	taken := make(map[string]struct{}, len(users))
	for _, u := range users {
		if u.Email == email {
			s.dispatch(authFailure{message: ErrMsgUserExists})
			s.logger.WarnContext(ctx, "Email already registered", fields.ToSlice()...)
			return false
		}
		taken[u.ID] = struct{}{}
	}

	id := s.newID()
	for {
		if _, dup := taken[id]; !dup {
			break
		}
		id = s.newID()
	}
	u := core.User{ID: id, Name: name, Email: email, Password: password}

	next := make([]core.User, 0, len(users)+1)
	next = append(next, users...)
	next = append(next, u)

	if err := storage.Save(ctx, s.storage, storage.KeyUsers, next); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist users", fields.WithError(err).ToSlice()...)
		s.dispatch(authFailure{message: ErrMsgRegistration})
		return false
	}
	if err := storage.Save(ctx, s.storage, storage.KeyUser, u); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist session", fields.WithError(err).ToSlice()...)
		s.dispatch(authFailure{message: ErrMsgRegistration})
		return false
	}

	s.dispatch(loginSuccess{user: u})
	s.logger.InfoContext(ctx, "User registered", fields.WithUser(u.ID, u.Email).ToSlice()...)
	return true
}

// Logout drops the persisted session. The in-memory session is reset even when
// the storage call fails; the error is returned for the caller to report.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fields := log.NewFields().WithOperation(log.OpLogout)
	if s.state.User != nil {
		fields = fields.WithUser(s.state.User.ID, s.state.User.Email)
	}

	err := s.storage.RemoveItem(ctx, storage.KeyUser)
	s.dispatch(loggedOut{})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to remove persisted session", fields.WithError(err).ToSlice()...)
		return err
	}
	s.logger.InfoContext(ctx, "User logged out", fields.ToSlice()...)
	return nil
}

// ClearError removes the error message and leaves authentication alone.
func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispatch(errorCleared{})
}

// State returns a copy of the session.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) IsAuthenticated() bool {
	return s.State().IsAuthenticated
}

// CurrentUser returns the logged in user, if any.
func (s *Store) CurrentUser() (core.User, bool) {
	st := s.State()
	if st.User == nil {
		return core.User{}, false
	}
	return *st.User, true
}
