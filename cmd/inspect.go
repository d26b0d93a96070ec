package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shfb-analytics/access-dashboard/internal/pipeline"
	"github.com/shfb-analytics/access-dashboard/internal/source"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show data source statistics",
	Long:  "Loads all data sources and prints row counts and the discrete filter dimension values.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cat, err := source.LoadCatalog(ctx, cfg)
		if err != nil {
			return err
		}

		pipe := pipeline.New(cat.Scores, cat.Ref.Counties, cat.Ref.Geometries)
		dims := pipe.Dimensions()

		fmt.Println("=== Data Sources ===")
		fmt.Printf("Score records:      %d\n", len(cat.Scores))
		fmt.Printf("County mappings:    %d\n", len(cat.Ref.Counties))
		fmt.Printf("Tract geometries:   %d\n", len(cat.Ref.Geometries))
		fmt.Println()

		fmt.Println("Filter dimensions:")
		fmt.Printf("  urban thresholds  %v\n", dims.Urban)
		fmt.Printf("  rural thresholds  %v\n", dims.Rural)
		fmt.Printf("  weeks             %v\n", dims.Weeks)
		fmt.Printf("  days              %v\n", dims.Days)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
