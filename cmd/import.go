package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shfb-analytics/access-dashboard/internal/db"
	"github.com/shfb-analytics/access-dashboard/internal/source"
)

var (
	importTo  string
	importOut string
	importURL string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy the score table into a SQLite or Postgres backend",
	Long:  "Reads the configured score source and bulk-loads it into another backend, so deployments can serve from a database instead of the raw parquet export.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		src, err := source.OpenScores(ctx, cfg.Scores)
		if err != nil {
			return err
		}
		defer func() { _ = src.Close() }()

		records, err := src.Load(ctx)
		if err != nil {
			return err
		}

		switch importTo {
		case "sqlite":
			if importOut == "" {
				return eris.New("import: --out is required for sqlite")
			}
			dst, err := source.NewSQLiteSource(importOut, cfg.Scores.Table)
			if err != nil {
				return err
			}
			defer func() { _ = dst.Close() }()
			if err := dst.Migrate(ctx); err != nil {
				return err
			}
			if err := dst.InsertBatch(ctx, records); err != nil {
				return err
			}
			zap.L().Info("import complete",
				zap.String("to", importOut),
				zap.Int("rows", len(records)),
			)

		case "postgres":
			url := importURL
			if url == "" {
				url = cfg.Scores.DatabaseURL
			}
			pool, err := db.Connect(ctx, url)
			if err != nil {
				return err
			}
			dst := source.NewPostgresSource(pool, cfg.Scores.Table)
			defer func() { _ = dst.Close() }()
			if err := dst.Migrate(ctx); err != nil {
				return err
			}
			n, err := dst.UpsertBatch(ctx, records)
			if err != nil {
				return err
			}
			zap.L().Info("import complete",
				zap.String("to", "postgres"),
				zap.Int64("rows", n),
			)

		default:
			return eris.Errorf("import: unknown target %q (sqlite or postgres)", importTo)
		}

		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importTo, "to", "sqlite", "import target (sqlite or postgres)")
	importCmd.Flags().StringVar(&importOut, "out", "", "sqlite database path")
	importCmd.Flags().StringVar(&importURL, "database-url", "", "postgres URL (default from config)")
	rootCmd.AddCommand(importCmd)
}
