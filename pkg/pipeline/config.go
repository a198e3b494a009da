package pipeline

import "time"

// Config holds pipeline configuration.
type Config struct {
	// BaseURL is the backend API root every relative path is resolved
	// against.
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`

	// Timeout bounds a single request, transport included.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
}

// DefaultConfig returns default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8080/api",
		Timeout: 15 * time.Second,
	}
}
