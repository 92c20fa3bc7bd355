// Package config loads the example programs' settings from the environment,
// with an optional .env file picked up from the working directory.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every knob the examples read. All fields have defaults so
// the tutorials run with no setup at all.
type Config struct {
	// ModelName is the reported name of the mock model.
	ModelName string `env:"FLOWGRAPH_MODEL_NAME" envDefault:"flowgraph-mock-1"`

	// FailureRate injects provider failures in the error-handling demos.
	FailureRate float64 `env:"FLOWGRAPH_FAILURE_RATE" envDefault:"0.3"`

	// ServerAddr is the demo chat server's listen address.
	ServerAddr string `env:"FLOWGRAPH_SERVER_ADDR" envDefault:":8080"`

	// TracingEnabled turns on the stdout span exporter.
	TracingEnabled bool `env:"FLOWGRAPH_TRACING" envDefault:"false"`

	// SQLitePath is where the persistent stores keep their databases.
	SQLitePath string `env:"FLOWGRAPH_SQLITE_PATH" envDefault:"flowgraph.db"`

	// Seed fixes the random sources of the mock provider and tools.
	Seed uint64 `env:"FLOWGRAPH_SEED" envDefault:"42"`
}

// Load reads .env (if present) and the environment into a Config.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
