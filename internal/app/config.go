package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// ProjectPath is the directory (or single file) holding .dzl modules.
	ProjectPath string
	// Root names the module that must carry the `app` header.
	Root string

	Strict    bool
	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and applies defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectPath == "" {
		return nil, errors.New("ProjectPath is a required configuration field and cannot be empty")
	}
	if cfg.Root == "" {
		cfg.Root = "main"
	}
	return &cfg, nil
}
