package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath string // directory or file of .hcl model definitions

	LogFormat string
	LogLevel  string

	DiffVar string // if set, also print d(expr)/d(DiffVar) for every expression
	JSON    bool   // emit the persisted JSON form instead of the algebraic rendering
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ModelPath == "" {
		return nil, errors.New("ModelPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
