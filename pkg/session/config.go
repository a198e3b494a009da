package session

import "time"

// Config holds session manager configuration.
type Config struct {
	// RevalidateInterval is how often an authenticated session silently
	// re-fetches the profile to confirm the credentials still hold.
	RevalidateInterval time.Duration `env:"SESSION_REVALIDATE_INTERVAL" envDefault:"5m"`
}

// DefaultConfig returns default session configuration.
func DefaultConfig() Config {
	return Config{
		RevalidateInterval: 5 * time.Minute,
	}
}
