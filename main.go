package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"montyhall/cmd"
	"montyhall/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}
	if err := cmd.ConfigureLogging(cfg); err != nil {
		log.Fatal("Logging error: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Check for subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			if err := cmd.Migrate(cfg, os.Args[2:]); err != nil {
				log.Fatal("Migration error: ", err)
			}
			return
		case "simulate":
			if err := cmd.Simulate(ctx, cfg, os.Args[2:], os.Stdout); err != nil {
				log.Fatal("Simulation error: ", err)
			}
			return
		default:
			log.Fatalf("unknown command %q, expected migrate or simulate", os.Args[1])
		}
	}

	// Normal bot operation
	go func() {
		<-ctx.Done()
		log.Info("Received shutdown signal, shutting down gracefully...")
	}()

	if err := cmd.Run(ctx, cfg); err != nil {
		log.Fatal("Application error: ", err)
	}
}
