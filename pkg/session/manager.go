package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/focusdeck/pkg/cleanup"
	"github.com/dmitrymomot/focusdeck/pkg/credential"
	"github.com/dmitrymomot/focusdeck/pkg/pipeline"
	"github.com/dmitrymomot/focusdeck/pkg/signal"
	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// Manager is the session state machine. Create one per process with New and
// call Bootstrap once at startup.
type Manager struct {
	api     *pipeline.Client
	cookies storage.CookieStore
	clean   *cleanup.Manager
	cfg     Config
	log     *slog.Logger
	unauth  *signal.Broadcaster[signal.Unauthorized]

	mu      sync.Mutex
	state   State
	changes *signal.Broadcaster[State]

	watchMu     sync.Mutex
	watchCancel context.CancelFunc
	watchWg     sync.WaitGroup
}

// New creates a session manager. The initial state is initializing with the
// loading flag set; nothing happens until Bootstrap runs.
func New(api *pipeline.Client, cookies storage.CookieStore, clean *cleanup.Manager, opts ...Option) *Manager {
	m := &Manager{
		api:     api,
		cookies: cookies,
		clean:   clean,
		cfg:     DefaultConfig(),
		log:     slog.Default(),
		state:   State{Status: StatusInitializing, Loading: true},
		changes: signal.New[State](16),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current session snapshot.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Subscribe delivers every state change until ctx is cancelled.
func (m *Manager) Subscribe(ctx context.Context) *signal.Subscription[State] {
	return m.changes.Subscribe(ctx)
}

// Close stops the revalidation watchers and the change broadcaster. The
// manager must not be used afterwards.
func (m *Manager) Close() {
	m.stopWatchers()
	m.watchWg.Wait()
	m.changes.Close()
}

// Bootstrap establishes the session at process start. With no credentials at
// all it settles directly into unauthenticated; otherwise it fetches the
// profile, allowing one silent refresh-and-retry on 401/403.
func (m *Manager) Bootstrap(ctx context.Context) {
	m.setState(func(s *State) { s.Loading = true })

	snap := credential.Capture(m.cookies)
	res := credential.Validate(snap, time.Now())
	if !res.HasTokens {
		m.toUnauthenticated()
		return
	}

	user, err := m.fetchProfile(ctx)
	if err == nil {
		m.toAuthenticated(user)
		return
	}

	m.resolveAuthFailure(ctx, err, snap.RefreshToken != "")
}

// Login exchanges credentials for a session. A failed attempt reports the
// error and never tears down an existing session.
func (m *Manager) Login(ctx context.Context, email, password string, rememberMe bool) error {
	m.setState(func(s *State) {
		s.Loading = true
		s.Error = ""
	})

	var out authResponse
	err := m.api.Post(ctx, "/auth/login", loginRequest{
		Email:      email,
		Password:   password,
		RememberMe: rememberMe,
	}, &out)
	if err != nil {
		m.failTransition(err)
		return err
	}

	m.toAuthenticated(out.User)
	return nil
}

// Register creates an account and signs it in.
func (m *Manager) Register(ctx context.Context, email, password, displayName string, rememberMe bool) error {
	m.setState(func(s *State) {
		s.Loading = true
		s.Error = ""
	})

	var out authResponse
	err := m.api.Post(ctx, "/auth/register", registerRequest{
		Email:       email,
		Password:    password,
		DisplayName: displayName,
		RememberMe:  rememberMe,
	}, &out)
	if err != nil {
		m.failTransition(err)
		return err
	}

	m.toAuthenticated(out.User)
	return nil
}

// Logout notifies the backend best-effort, then unconditionally erases local
// credentials and resets the session. Local logout succeeds even offline.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.api.Post(ctx, "/auth/logout", struct{}{}, nil); err != nil {
		m.log.Debug("logout request failed, proceeding with local logout",
			slog.Any("error", err))
	}

	m.clean.CleanupLogout()
	m.toUnauthenticated()
}

// fetchProfile gets the current user from the backend.
func (m *Manager) fetchProfile(ctx context.Context) (User, error) {
	var user User
	if err := m.api.Get(ctx, "/auth/me", &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// refresh exchanges the refresh credential for a new token pair. It is
// called at most once per failure and never retried.
func (m *Manager) refresh(ctx context.Context) error {
	return m.api.Post(ctx, "/auth/refresh", struct{}{}, nil)
}

// resolveAuthFailure decides what a failed profile fetch means. 401/403 earn
// exactly one refresh-and-retry when a refresh credential exists; exhausting
// that destroys credentials with the reason matching the status. Anything
// else settles into unauthenticated with credentials intact.
func (m *Manager) resolveAuthFailure(ctx context.Context, err error, hasRefresh bool) {
	status := pipeline.StatusOf(err)
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		m.log.Debug("profile fetch failed ambiguously, keeping credentials",
			slog.Any("error", err))
		m.toUnauthenticated()
		return
	}

	if hasRefresh {
		if rerr := m.refresh(ctx); rerr == nil {
			user, perr := m.fetchProfile(ctx)
			if perr == nil {
				m.toAuthenticated(user)
				return
			}
			if s := pipeline.StatusOf(perr); s == http.StatusUnauthorized || s == http.StatusForbidden {
				status = s
			}
		}
	}

	if status == http.StatusForbidden {
		m.clean.CleanupInvalidToken()
	} else {
		m.clean.CleanupUnauthorized()
	}
	m.toUnauthenticated()
}

// revalidate silently repeats the bootstrap profile check. It never touches
// the loading flag and ignores ambiguous failures: only a definitive 401/403
// (after the single refresh retry) ends the session.
func (m *Manager) revalidate(ctx context.Context) {
	user, err := m.fetchProfile(ctx)
	if err == nil {
		m.setState(func(s *State) {
			s.Status = StatusAuthenticated
			s.User = &user
			s.Error = ""
		})
		return
	}

	status := pipeline.StatusOf(err)
	if status != http.StatusUnauthorized && status != http.StatusForbidden {
		return
	}

	snap := credential.Capture(m.cookies)
	m.resolveAuthFailure(ctx, err, snap.RefreshToken != "")
}

func (m *Manager) toAuthenticated(user User) {
	m.setState(func(s *State) {
		s.Status = StatusAuthenticated
		s.User = &user
		s.Loading = false
		s.Error = ""
	})
	m.startWatchers()
}

func (m *Manager) toUnauthenticated() {
	m.stopWatchers()
	m.setState(func(s *State) {
		s.Status = StatusUnauthenticated
		s.User = nil
		s.Loading = false
		s.Error = ""
	})
}

// failTransition records a failed login/register attempt. An existing
// authenticated session survives; only a session-less state shows the error
// status.
func (m *Manager) failTransition(err error) {
	msg := err.Error()
	var apiErr *pipeline.APIError
	if errors.As(err, &apiErr) {
		msg = apiErr.Message
	}

	m.setState(func(s *State) {
		s.Loading = false
		s.Error = msg
		if s.User == nil {
			s.Status = StatusError
		}
	})
}

func (m *Manager) setState(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	snapshot := m.state
	m.mu.Unlock()

	m.changes.Broadcast(snapshot)
}

// startWatchers launches the revalidation ticker and the unauthorized-signal
// watcher. They share one context and stop as a unit.
func (m *Manager) startWatchers() {
	m.watchMu.Lock()
	defer m.watchMu.Unlock()

	if m.watchCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.watchCancel = cancel

	var sub *signal.Subscription[signal.Unauthorized]
	if m.unauth != nil {
		sub = m.unauth.Subscribe(ctx)
	} else {
		sub = signal.OnUnauthorized(ctx)
	}

	m.watchWg.Add(2)
	go m.revalidateLoop(ctx)
	go m.unauthorizedLoop(ctx, sub)
}

// stopWatchers cancels the watcher context. It does not wait: a watcher may
// itself be the caller, via a failed revalidation.
func (m *Manager) stopWatchers() {
	m.watchMu.Lock()
	cancel := m.watchCancel
	m.watchCancel = nil
	m.watchMu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (m *Manager) revalidateLoop(ctx context.Context) {
	defer m.watchWg.Done()

	ticker := time.NewTicker(m.cfg.RevalidateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.revalidate(ctx)
		}
	}
}

func (m *Manager) unauthorizedLoop(ctx context.Context, sub *signal.Subscription[signal.Unauthorized]) {
	defer m.watchWg.Done()
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub.C():
			if !ok {
				return
			}
			m.revalidate(ctx)
		}
	}
}

type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
	RememberMe  bool   `json:"remember_me"`
}

type authResponse struct {
	User User `json:"user"`
}
