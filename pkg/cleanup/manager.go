package cleanup

import (
	"log/slog"
	"strings"

	"github.com/dmitrymomot/focusdeck/pkg/credential"
	"github.com/dmitrymomot/focusdeck/pkg/storage"
)

// Reason classifies why a cleanup ran. It is carried unchanged into the
// Result so callers can route the user accordingly.
type Reason string

const (
	ReasonExpired      Reason = "expired"
	ReasonUnauthorized Reason = "unauthorized"
	ReasonInvalidToken Reason = "invalid_token"
	ReasonLogout       Reason = "logout"
	ReasonManual       Reason = "manual"
)

// Redirect targets for the named cleanup variants.
const (
	RedirectExpired      = "/login?reason=expired"
	RedirectUnauthorized = "/login?reason=unauthorized"
	RedirectInvalidToken = "/login?reason=invalid_token"
)

// Result describes one cleanup invocation. It is a value record: constructed
// once, never mutated, consumed by the caller to decide navigation.
type Result struct {
	Success       bool
	Reason        Reason
	TokensRemoved []string
	Redirect      string
}

// authKeywords drive the keyed-storage scan. Any key containing one of these
// substrings (case-insensitive) is treated as credential-adjacent and removed.
var authKeywords = []string{"token", "auth", "session", "csrf", "jwt", "credential"}

// Manager performs best-effort, total removal of credential material.
type Manager struct {
	cookies storage.CookieStore
	kv      storage.KeyValueStore
	log     *slog.Logger
	paths   []string
	domains []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used to report per-attempt storage failures.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithPaths overrides the cookie paths probed during deletion.
func WithPaths(paths ...string) Option {
	return func(m *Manager) {
		if len(paths) > 0 {
			m.paths = paths
		}
	}
}

// WithDomains overrides the cookie domains probed during deletion.
func WithDomains(domains ...string) Option {
	return func(m *Manager) {
		if len(domains) > 0 {
			m.domains = domains
		}
	}
}

// New creates a cleanup manager over the given storage surfaces.
// The kv store may be nil when the embedder has no keyed storage.
func New(cookies storage.CookieStore, kv storage.KeyValueStore, opts ...Option) *Manager {
	m := &Manager{
		cookies: cookies,
		kv:      kv,
		log:     slog.Default(),
		// Paths and domains the backend is known to scope cookies to, plus
		// the bare values browsers fall back to. A wrong combination no-ops
		// silently, so the probe list errs on the wide side.
		paths:   []string{"/", "", "/api", "/auth"},
		domains: []string{"", "localhost"},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cleanup removes all credential material and reports which credential
// cookies were actually found and removed (not merely attempted). The
// redirect is passed through to the result unchanged.
func (m *Manager) Cleanup(reason Reason, redirect string) Result {
	var removed []string

	for _, name := range credential.CookieNames() {
		if _, present := m.cookies.Get(name); !present {
			continue
		}

		m.deleteEverywhere(name)

		if _, still := m.cookies.Get(name); !still {
			removed = append(removed, name)
		} else {
			m.log.Warn("credential cookie survived cleanup",
				slog.String("cookie", name),
				slog.String("reason", string(reason)))
		}
	}

	m.scrubKeyedStorage()

	// Success means nothing credential-bearing is left behind, which is also
	// true when there was nothing to remove in the first place.
	success := true
	for _, name := range credential.CookieNames() {
		if _, present := m.cookies.Get(name); present {
			success = false
			break
		}
	}

	return Result{
		Success:       success,
		Reason:        reason,
		TokensRemoved: removed,
		Redirect:      redirect,
	}
}

// CleanupExpired removes credentials after an expiry was detected and routes
// the user to the session-expired sign-in entry point.
func (m *Manager) CleanupExpired() Result {
	return m.Cleanup(ReasonExpired, RedirectExpired)
}

// CleanupUnauthorized removes credentials after a 401 and routes the user to
// the please-sign-in entry point.
func (m *Manager) CleanupUnauthorized() Result {
	return m.Cleanup(ReasonUnauthorized, RedirectUnauthorized)
}

// CleanupInvalidToken removes credentials after a 403 or a structural token
// failure and routes the user to the invalid-session entry point.
func (m *Manager) CleanupInvalidToken() Result {
	return m.Cleanup(ReasonInvalidToken, RedirectInvalidToken)
}

// CleanupLogout removes credentials on explicit logout. No redirect is set;
// the caller navigates explicitly.
func (m *Manager) CleanupLogout() Result {
	return m.Cleanup(ReasonLogout, "")
}

// deleteEverywhere attempts deletion across the cross product of plausible
// attribute combinations. Individual failures are logged and skipped so one
// bad surface cannot abort the rest.
func (m *Manager) deleteEverywhere(name string) {
	for _, path := range m.paths {
		for _, domain := range m.domains {
			for _, secure := range []bool{false, true} {
				attrs := storage.Attributes{Path: path, Domain: domain, Secure: secure}
				if err := m.cookies.Delete(name, attrs); err != nil {
					m.log.Warn("cookie delete attempt failed",
						slog.String("cookie", name),
						slog.String("path", path),
						slog.String("domain", domain),
						slog.Bool("secure", secure),
						slog.Any("error", err))
				}
			}
		}
	}
}

// scrubKeyedStorage removes any keyed-storage entry whose key matches the
// auth keyword heuristic.
func (m *Manager) scrubKeyedStorage() {
	if m.kv == nil {
		return
	}

	for _, key := range m.kv.Keys() {
		lower := strings.ToLower(key)
		for _, kw := range authKeywords {
			if strings.Contains(lower, kw) {
				if err := m.kv.Delete(key); err != nil {
					m.log.Warn("keyed storage delete failed",
						slog.String("key", key),
						slog.Any("error", err))
				}
				break
			}
		}
	}
}
