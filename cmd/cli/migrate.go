package cli

import (
	"fmt"
	"log"

	"github.com/axellelanca/dynamiclinks/cmd"
	"github.com/spf13/cobra"
)

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation and updates
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured SQLite database and executes
GORM automatic migrations for the 'links' table, including the unique token
index and the expires_at index used by the expiry purger.`,
	Run: func(_ *cobra.Command, args []string) {
		db, err := cmd.OpenSQLite(cmd.Cfg)
		if err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		fmt.Println("Database migrations executed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
