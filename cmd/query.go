package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shfb-analytics/access-dashboard/internal/model"
	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
	"github.com/shfb-analytics/access-dashboard/internal/source"
)

var queryParams model.FilterParams
var queryJSON bool

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run one pipeline pass and print the results",
	Long:  "Filters the score table for one parameter tuple and prints summary statistics, top/bottom tracts, and agency breakdowns.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := queryParams.Validate(); err != nil {
			return err
		}

		cat, err := source.LoadCatalog(ctx, cfg)
		if err != nil {
			return err
		}

		pipe := pipeline.New(cat.Scores, cat.Ref.Counties, cat.Ref.Geometries)
		result, err := pipe.Run(queryParams)
		if err != nil {
			if errors.Is(err, pipeline.ErrNoData) {
				fmt.Println("No data available for this combination.")
				return nil
			}
			return err
		}

		if queryJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result)
		return nil
	},
}

func printResult(result *pipeline.Result) {
	fmt.Printf("=== %s ===\n\n", result.Title)

	s := result.Summary
	fmt.Println("Summary statistics:")
	fmt.Printf("  count  %d\n", s.Count)
	fmt.Printf("  mean   %.4f\n", s.Mean)
	fmt.Printf("  std    %.4f\n", s.Std)
	fmt.Printf("  min    %.4f\n", s.Min)
	fmt.Printf("  25%%    %.4f\n", s.Q25)
	fmt.Printf("  50%%    %.4f\n", s.Median)
	fmt.Printf("  75%%    %.4f\n", s.Q75)
	fmt.Printf("  max    %.4f\n", s.Max)
	fmt.Println()

	fmt.Println("Top tracts:")
	for _, t := range result.Top {
		fmt.Printf("  %-12s %-20s %.4f\n", t.GEOID, t.County, t.Score)
	}
	fmt.Println()

	fmt.Println("Bottom tracts:")
	for _, t := range result.Bottom {
		fmt.Printf("  %-12s %-20s %.4f\n", t.GEOID, t.County, t.Score)
	}
	fmt.Println()

	fmt.Println("Top agencies per tract:")
	for _, a := range result.Agencies {
		fmt.Printf("  GEOID %s — County %s\n", a.GEOID, a.County)
		if len(a.Rows) == 0 {
			fmt.Println("    no agency data available")
			continue
		}
		for _, row := range a.Rows {
			fmt.Printf("    %-30s %.3f\n", row.Name, row.Contribution)
		}
	}
}

func init() {
	queryCmd.Flags().IntVar(&queryParams.Urban, "urban", 15, "urban threshold (minutes)")
	queryCmd.Flags().IntVar(&queryParams.Rural, "rural", 30, "rural threshold (minutes)")
	queryCmd.Flags().IntVar(&queryParams.Week, "week", 1, "week number")
	queryCmd.Flags().StringVar(&queryParams.Day, "day", "Mon", "day of week")
	queryCmd.Flags().IntVar(&queryParams.Hour, "hour", model.DefaultHour, "hour of day (0-23)")
	queryCmd.Flags().BoolVar(&queryParams.AfterHours, "after-hours", false, "match any hour >= 17 instead of one exact hour")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full result as JSON")
	rootCmd.AddCommand(queryCmd)
}
