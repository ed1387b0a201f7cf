// Package app wires the session and expense stores into one handle that is
// built once at startup and handed to request handlers through the context.
package app

import (
	"context"
	"net/http"

	"expensetracker/internal/auth"
	"expensetracker/internal/expenses"
	"expensetracker/internal/log"
	"expensetracker/internal/storage"
)

type App struct {
	Auth     *auth.Store
	Expenses *expenses.Store
	Storage  storage.Storage
}

type Options struct {
	Logger   *log.Logger
	Notifier expenses.Notifier
	// IDGenerator overrides UUIDs for both stores.
	IDGenerator func() string
}

// New restores the session and loads persisted expenses and budgets from st.
func New(ctx context.Context, st storage.Storage, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}

	authOpts := []auth.Option{auth.WithLogger(logger)}
	expOpts := []expenses.Option{expenses.WithLogger(logger)}
	if opts.IDGenerator != nil {
		authOpts = append(authOpts, auth.WithIDGenerator(opts.IDGenerator))
		expOpts = append(expOpts, expenses.WithIDGenerator(opts.IDGenerator))
	}
	if opts.Notifier != nil {
		expOpts = append(expOpts, expenses.WithNotifier(opts.Notifier))
	}

	return &App{
		Auth:     auth.New(ctx, st, authOpts...),
		Expenses: expenses.New(ctx, st, expOpts...),
		Storage:  st,
	}
}

// WithContext returns a copy of ctx carrying both stores.
func (a *App) WithContext(ctx context.Context) context.Context {
	ctx = auth.NewContext(ctx, a.Auth)
	return expenses.NewContext(ctx, a.Expenses)
}

// Middleware makes both stores available to downstream handlers.
func (a *App) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(a.WithContext(r.Context())))
	})
}

// Ready reports whether the backing storage answers.
func (a *App) Ready(ctx context.Context) error {
	return storage.Ping(ctx, a.Storage)
}
