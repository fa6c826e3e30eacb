package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/axellelanca/dynamiclinks/cmd"
	customerrors "github.com/axellelanca/dynamiclinks/internal/errors"
	"github.com/axellelanca/dynamiclinks/internal/repository"
	"github.com/axellelanca/dynamiclinks/internal/services"
	"github.com/spf13/cobra"
)

// StatsCmd représente la commande 'stats'
var StatsCmd = &cobra.Command{
	Use:   "stats [token]",
	Short: "Get statistics for a dynamic link",
	Long:  `Get the click count of the provided token. Reading stats never changes the count.`,
	Args:  cobra.ExactArgs(1),
	Run:   runStats,
}

func init() {
	cmd.RootCmd.AddCommand(StatsCmd)
}

// runStats exécute la logique pour la commande stats
func runStats(_ *cobra.Command, args []string) {
	token := args[0]

	cfg := cmd.Cfg
	db, err := cmd.OpenSQLite(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("FATAL: Failed to get underlying SQL database: %v", err)
	}
	defer sqlDB.Close()

	linkService := services.NewLinkService(
		repository.NewLinkRepository(db),
		services.NewRandomTokenGenerator(cfg.Links.TokenLength),
		cfg.Links.MaxCreateRetries,
	)

	link, err := linkService.GetLinkStats(context.Background(), token)
	if err != nil {
		if errors.Is(err, customerrors.ErrLinkNotFound) {
			fmt.Printf("Error: Token '%s' not found\n", token)
		} else {
			fmt.Printf("Error retrieving statistics: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("Statistics for token: %s\n", token)
	fmt.Printf("Target URL: %s\n", link.TargetURL)
	fmt.Printf("Clicks: %d\n", link.ClickCount)
	fmt.Printf("Created at: %s\n", link.CreatedAt.Format("2006-01-02 15:04:05"))
	if link.ExpiresAt != nil {
		state := "active"
		if link.IsExpired(time.Now()) {
			state = "expired"
		}
		fmt.Printf("Expires at: %s (%s)\n", link.ExpiresAt.Format("2006-01-02 15:04:05"), state)
	}
}
