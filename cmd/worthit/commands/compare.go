package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Tushar-Bhat65/WorthIt/config"
	"github.com/Tushar-Bhat65/WorthIt/internal/domain"
	"github.com/Tushar-Bhat65/WorthIt/internal/infrastructure/backend"
	"github.com/Tushar-Bhat65/WorthIt/internal/usecase"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	comparePrice string
	compareMore  bool
)

func init() {
	compareCmd.Flags().StringVar(&comparePrice, "price", "", "The price you paid or were quoted.")
	compareCmd.Flags().BoolVar(&compareMore, "more", false, "Also fetch the slower second-phase results.")
	rootCmd.AddCommand(compareCmd)
}

var compareCmd = &cobra.Command{
	Use:   "compare <query> --price <amount> [--more]",
	Short: "Runs one live comparison search and prints the results.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		query := args[0]
		price := usecase.CleanReferencePrice(comparePrice)
		if price == "" {
			log.Fatalf("%v (use --price)", domain.ErrMissingPrice)
		}

		rows := usecase.NewRowTable()
		score := usecase.NewScoreTracker()
		collector := usecase.NewCollector(rows, score)

		streamClient := backend.NewStreamClient(cfg.Backend.BaseURL, cfg.Backend.SearchesPerMinute)
		session, err := streamClient.Start(context.Background(), query, price, collector)
		if err != nil {
			log.Fatalf("Failed to open comparison stream: %v", err)
		}
		<-session.Done()
		if session.State() == domain.SessionErrored {
			log.Printf("Stream ended early; showing partial results")
		}

		if compareMore {
			moreClient := backend.NewMoreClient(
				cfg.Backend.BaseURL,
				cfg.Backend.RequestTimeout,
				cfg.Poll.Interval,
				cfg.Poll.MaxAttempts,
			)
			if err := moreClient.FetchMore(context.Background(), query, price, collector); err != nil {
				log.Printf("More results fetch failed: %v", err)
			}
		}

		renderResults(query, rows, score)
	},
}

// renderResults prints the collected rows and the worthiness verdict
func renderResults(query string, rows *usecase.RowTable, score *usecase.ScoreTracker) {
	list := rows.List()
	if len(list) == 0 {
		fmt.Printf("No results for %q\n", query)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Site", "Title", "Price", "URL"})
	for _, row := range list {
		t.AppendRow(table.Row{row.Site, row.Title, fmt.Sprintf("₹%.2f", row.Price), row.URL})
	}
	t.SetStyle(table.StyleLight)
	t.Render()

	if _, ok := score.Value(); ok {
		fmt.Printf("\nWorthiness: %.0f/100 (%s)\n", score.Display(), score.Verdict())
	}
}
