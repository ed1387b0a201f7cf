package http

import (
	"net/http"

	"expensetracker/internal/auth"
	"expensetracker/internal/log"
)

// authFailureStatus picks the status for a failed login or registration.
func authFailureStatus(message string) int {
	switch message {
	case auth.ErrMsgInvalidCredentials:
		return http.StatusUnauthorized
	case auth.ErrMsgUserExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// sessionView is the session as sent to clients, without the password.
func sessionView(store *auth.Store) auth.State {
	st := store.State()
	if st.User != nil {
		u := st.User.Public()
		st.User = &u
	}
	return st
}

func handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := bindJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpRegister, err)
		return
	}

	store := auth.MustFromContext(r.Context())
	if !store.Register(r.Context(), sanitizeInput(req.Name), req.Email, req.Password) {
		st := store.State()
		ErrorResponse(authFailureStatus(st.Error), st.Error).Write(w)
		return
	}
	NewResponse().
		Status(http.StatusCreated).
		TriggerSession(true).
		JSON(sessionView(store)).
		Write(w)
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := bindJSON(w, r, &req); err != nil {
		writeError(w, r, log.OpLogin, err)
		return
	}

	store := auth.MustFromContext(r.Context())
	if !store.Login(r.Context(), req.Email, req.Password) {
		st := store.State()
		ErrorResponse(authFailureStatus(st.Error), st.Error).Write(w)
		return
	}
	NewResponse().TriggerSession(true).JSON(sessionView(store)).Write(w)
}

// handleLogout always ends the session; a failure to forget the persisted
// session is reported as 500 alongside the anonymous state.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	store := auth.MustFromContext(r.Context())
	resp := NewResponse().TriggerSession(false)
	if err := store.Logout(r.Context()); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Logout could not clear stored session",
			log.FieldOperation, log.OpLogout, log.FieldError, err.Error())
		resp.Status(http.StatusInternalServerError)
	}
	resp.JSON(sessionView(store)).Write(w)
}

func handleSession(w http.ResponseWriter, r *http.Request) {
	NewResponse().JSON(sessionView(auth.MustFromContext(r.Context()))).Write(w)
}

func handleClearAuthError(w http.ResponseWriter, r *http.Request) {
	store := auth.MustFromContext(r.Context())
	store.ClearError()
	NewResponse().JSON(sessionView(store)).Write(w)
}
