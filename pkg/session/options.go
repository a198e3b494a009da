package session

import (
	"log/slog"

	"github.com/dmitrymomot/focusdeck/pkg/signal"
)

// Option configures a Manager.
type Option func(*Manager)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		if cfg.RevalidateInterval > 0 {
			m.cfg = cfg
		}
	}
}

// WithLogger sets the manager's logger.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithUnauthorizedSignal subscribes the manager to the given broadcaster
// instead of the process-wide default. Mainly useful in tests that must not
// observe other tests' signals.
func WithUnauthorizedSignal(b *signal.Broadcaster[signal.Unauthorized]) Option {
	return func(m *Manager) {
		if b != nil {
			m.unauth = b
		}
	}
}
