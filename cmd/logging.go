package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"montyhall/config"
)

// ConfigureLogging applies the configured level and formatter to the standard logger
func ConfigureLogging(cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)

	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text", "":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q, expected text or json", cfg.LogFormat)
	}

	log.SetOutput(os.Stderr)
	return nil
}
