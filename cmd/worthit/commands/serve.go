package commands

import (
	"fmt"
	"log"

	"github.com/Tushar-Bhat65/WorthIt/config"
	httpDelivery "github.com/Tushar-Bhat65/WorthIt/internal/delivery/http"
	"github.com/Tushar-Bhat65/WorthIt/internal/infrastructure/backend"
	"github.com/Tushar-Bhat65/WorthIt/internal/usecase"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the aggregation engine behind a local HTTP API.",
	Run: func(cmd *cobra.Command, args []string) {
		// Load configuration
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		log.Printf("Starting WorthIt v1.0.0")
		log.Printf("Environment: %s", cfg.Server.Environment)
		log.Printf("Backend: %s", cfg.Backend.BaseURL)
		log.Printf("Poll cadence: %s (max %d attempts)", cfg.Poll.Interval, cfg.Poll.MaxAttempts)

		// Initialize infrastructure dependencies
		streamClient := backend.NewStreamClient(cfg.Backend.BaseURL, cfg.Backend.SearchesPerMinute)
		moreClient := backend.NewMoreClient(
			cfg.Backend.BaseURL,
			cfg.Backend.RequestTimeout,
			cfg.Poll.Interval,
			cfg.Poll.MaxAttempts,
		)

		// Initialize usecase layer
		searchService := usecase.NewSearchService(streamClient, moreClient, overlayTimings(cfg))

		// Create HTTP handler with dependencies
		handler := httpDelivery.NewHandler(searchService)

		// Setup router
		router := httpDelivery.SetupRouter(cfg, handler)

		// Start server
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		log.Printf("Server listening on %s", addr)

		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	},
}

// overlayTimings maps the configured stage durations onto the orchestrator
func overlayTimings(cfg *config.Config) usecase.OverlayTimings {
	return usecase.OverlayTimings{
		FadeIn:      cfg.Overlay.FadeIn,
		FadeInDelay: cfg.Overlay.FadeInDelay,
		Glow:        cfg.Overlay.Glow,
		LogoHold:    cfg.Overlay.LogoHold,
		LogoUp:      cfg.Overlay.LogoUp,
		MessageIn:   cfg.Overlay.MessageIn,
		MessageHold: cfg.Overlay.MessageHold,
		MessageOut:  cfg.Overlay.MessageOut,
		Settle:      cfg.Overlay.Settle,
		FadeOut:     cfg.Overlay.FadeOut,
	}
}
