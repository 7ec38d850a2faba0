package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sweeparr/sweeparr/internal/database"
	"github.com/sweeparr/sweeparr/pkg/config"
)

var rebuildClearStatus bool

// rebuildCmd represents the rebuild command
var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the identifier index from the catalogs",
	Long: `Fetch the full series and movie catalogs and rebuild the local
identifier index: the episode map plus the cached series, season, episode
and movie snapshot.

The rebuild is atomic - if the series catalog cannot be fetched, the
existing index is left untouched and the command exits nonzero. Series
completion flags survive a rebuild unless --clear-status is given.`,
	RunE: runRebuild,
}

func init() {
	rootCmd.AddCommand(rebuildCmd)
	rebuildCmd.Flags().BoolVar(&rebuildClearStatus, "clear-status", false, "also wipe persisted series completion flags")
}

func runRebuild(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	_, rebuilder, err := buildDependencies(db, cfg)
	if err != nil {
		return err
	}

	report, err := rebuilder.Rebuild(context.Background(), rebuildClearStatus)
	if err != nil {
		return fmt.Errorf("rebuild failed, prior index left intact: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Rebuild finished in %s\n", report.Duration)
	fmt.Fprintf(out, "  Series:   %d\n", report.Series)
	fmt.Fprintf(out, "  Seasons:  %d\n", report.Seasons)
	fmt.Fprintf(out, "  Episodes: %d\n", report.Episodes)
	fmt.Fprintf(out, "  Movies:   %d\n", report.Movies)
	fmt.Fprintf(out, "  Mappings: %d\n", report.Mappings)
	if report.MoviesFailed {
		fmt.Fprintln(out, "  Warning: movie catalog fetch failed, prior movie snapshot kept")
	}
	if report.StatusCleared {
		fmt.Fprintln(out, "  Series completion flags cleared")
	}
	return nil
}
