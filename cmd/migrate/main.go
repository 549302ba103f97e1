package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/siparisbot/backend/internal/infrastructure/config"
	"github.com/siparisbot/backend/internal/infrastructure/logger"
	"github.com/siparisbot/backend/internal/infrastructure/persistence"
)

func main() {
	// Parse flags
	var (
		logLevel string
		force    bool
	)

	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&force, "force", false, "Allow down in production")
	flag.Usage = printUsage
	flag.Parse()

	// Get command
	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Initialize logger
	log := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	defer logger.Sync(log)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if command != "up" && command != "down" && command != "status" {
		printUsage()
		os.Exit(1)
	}

	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	log.Info("Migration CLI started",
		zap.String("command", command),
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	// Execute command
	switch command {
	case "up":
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Migration up failed", zap.Error(err))
		}
		log.Info("Schema is up to date")

	case "down":
		if cfg.App.IsProduction() && !force {
			log.Fatal("Refusing to drop tables in production without -force")
		}
		if err := db.DropSchema(); err != nil {
			log.Fatal("Migration down failed", zap.Error(err))
		}
		log.Info("Order snapshot table dropped")

	case "status":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		status, err := db.Status(ctx)
		if err != nil {
			log.Fatal("Failed to read schema status", zap.Error(err))
		}
		if !status.Exists {
			log.Info("Schema not migrated", zap.String("table", status.Table))
			return
		}
		log.Info("Schema status",
			zap.String("table", status.Table),
			zap.Bool("unique_index", status.HasIndex),
			zap.Int64("rows", status.Rows),
		)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up       Create or update the order snapshot table
  down     Drop the order snapshot table
  status   Show whether the table exists and how many orders it holds

Flags:
`)
	flag.PrintDefaults()
}
