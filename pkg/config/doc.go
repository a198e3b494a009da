// Package config loads configuration structs from environment variables.
//
// Fields are mapped with `env` tags; a .env file in the working directory is
// read once per process before the first load, which keeps local development
// setups out of the shell profile.
//
// # Usage
//
//	type APIConfig struct {
//	    BaseURL string        `env:"API_BASE_URL" envDefault:"http://localhost:8080/api"`
//	    Timeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`
//	}
//
//	var cfg APIConfig
//	if err := config.Load(&cfg); err != nil {
//	    // handle error
//	}
//
// MustLoad panics on failure, for configuration the process cannot start
// without.
package config
