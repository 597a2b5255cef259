package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"montyhall/config"
	"montyhall/database"
)

// Migrate handles `montyhall migrate up|down [n]|status`
func Migrate(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: montyhall migrate [up|down|status] [args...]")
	}

	if err := cfg.Validate(config.ModeMigrate); err != nil {
		return err
	}
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)

	switch args[0] {
	case "up":
		return database.MigrateUp(databaseURL)
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(databaseURL, steps)
	case "status":
		status, err := database.MigrateStatus(databaseURL)
		if err != nil {
			return err
		}
		if !status.Applied {
			log.Info("No migrations have been applied")
			return nil
		}
		log.WithFields(log.Fields{
			"version": status.Version,
			"dirty":   status.Dirty,
		}).Info("Current migration status")
		return nil
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
