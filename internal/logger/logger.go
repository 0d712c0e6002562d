package logger

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"admin/access/internal/config"
)

// Setup configures the standard logrus logger from cfg.
func Setup(cfg config.LogConfig) error {
	return configure(log.StandardLogger(), cfg)
}

func configure(logger *log.Logger, cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q: expected text or json", cfg.Format)
	}

	return nil
}
