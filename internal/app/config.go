package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	PolicyPath string // .hcl policy file or directory

	LogFormat string // text, json, or pretty
	LogLevel  string
	Strict    bool // reject supplied fields no variant declares
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.PolicyPath == "" {
		return nil, errors.New("PolicyPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
