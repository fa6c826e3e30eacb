package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/axellelanca/dynamiclinks/internal/config"
	"github.com/axellelanca/dynamiclinks/internal/models"
	"github.com/axellelanca/dynamiclinks/internal/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Cfg is the global variable that will contain the loaded configuration
// It will be accessible to all Cobra commands throughout the application
var Cfg *config.Config

// RootCmd is the base command for the CLI application
// All other commands (create, run-server, stats, migrate) are added as subcommands
var RootCmd = &cobra.Command{
	Use:   "dynamiclinks",
	Short: "A dynamic link service",
	Long: `A dynamic link service that shortens links carrying Android/iOS app
information, resolves them to a deep link, an app store page or a web
redirect depending on the client, and tracks click counts.`,
}

// Execute is the main entry point for the Cobra application
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands register themselves via their own init() functions.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration before any command runs.
func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
}

// OpenStore returns the Link Store selected by store.driver and a function
// releasing it. The sqlite store is migrated before use.
func OpenStore(cfg *config.Config) (repository.LinkRepository, func(), error) {
	if cfg.Store.Driver == "memory" {
		grace := time.Duration(cfg.Purge.GraceMinutes) * time.Minute
		interval := time.Duration(cfg.Purge.IntervalMinutes) * time.Minute
		return repository.NewMemoryLinkRepository(grace, interval), func() {}, nil
	}

	db, err := OpenSQLite(cfg)
	if err != nil {
		return nil, nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get underlying SQL database: %w", err)
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}
	return repository.NewLinkRepository(db), closeFn, nil
}

// OpenSQLite opens and migrates the configured SQLite database.
func OpenSQLite(cfg *config.Config) (*gorm.DB, error) {
	db, err := repository.OpenDatabase(cfg.Database.Name)
	if err != nil {
		return nil, err
	}
	if err := models.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
