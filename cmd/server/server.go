package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/axellelanca/dynamiclinks/cmd"
	"github.com/axellelanca/dynamiclinks/internal/api"
	"github.com/axellelanca/dynamiclinks/internal/monitor"
	"github.com/axellelanca/dynamiclinks/internal/render"
	"github.com/axellelanca/dynamiclinks/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Starts the dynamic link HTTP server and the expiry purger.",
	Long: `This command opens the configured Link Store, starts the background
purger for expired links, then serves /shorten, /stats/:token and /:token.`,
	Run: func(_ *cobra.Command, args []string) {
		cfg := cmd.Cfg

		linkRepo, closeStore, err := cmd.OpenStore(cfg)
		if err != nil {
			log.Fatalf("Failed to open link store: %v", err)
		}
		defer closeStore()
		log.Printf("Link store initialized (driver: %s).", cfg.Store.Driver)

		tokens := services.NewRandomTokenGenerator(cfg.Links.TokenLength)
		linkService := services.NewLinkService(linkRepo, tokens, cfg.Links.MaxCreateRetries)
		resolver := services.NewResolver(linkRepo)
		renderer, err := render.NewRenderer(render.Defaults{
			Title:           cfg.Interstitial.DefaultTitle,
			Description:     cfg.Interstitial.DefaultDescription,
			ImageURL:        cfg.Interstitial.DefaultImageURL,
			FallbackDelayMS: cfg.Interstitial.FallbackDelayMS,
		})
		if err != nil {
			log.Fatalf("Failed to initialize renderer: %v", err)
		}
		log.Println("Services initialized.")

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		purgeInterval := time.Duration(cfg.Purge.IntervalMinutes) * time.Minute
		purgeGrace := time.Duration(cfg.Purge.GraceMinutes) * time.Minute
		purger := monitor.NewExpiryPurger(linkRepo, purgeInterval, purgeGrace)
		go purger.Start(ctx)

		router := gin.Default()
		api.SetupRoutes(router, linkService, resolver, renderer)
		log.Println("API routes configured.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		go func() {
			log.Printf("Starting server on %s", serverAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("Shutdown signal received. Stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server forced to shut down: %v", err)
		}

		log.Println("Server stopped.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
