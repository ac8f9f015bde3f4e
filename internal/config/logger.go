package config

import "go.uber.org/zap"

// NewLogger returns a development logger unless the environment is production.
func NewLogger(cfg Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
