package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/sweeparr/sweeparr/pkg/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sweeparr",
	Short: "Deletion sync between a media server and its catalogs",
	Long: `Sweeparr - mirrors deletions from a media server into the series and movie catalogs

When the media server reports a deleted series, season, episode or movie,
Sweeparr resolves it against the catalog managers and applies the configured
deletion policy: removing files, unmonitoring, or removing the catalog entry.

A local identifier index maps external episode ids to catalog series; it is
rebuilt on demand, on an interval, or on a cron schedule, and patched
incrementally from the catalogs' own change events.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates a new root command (exported for testing)
func NewRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	// Set up configuration loading with lazy initialization
	cobra.OnInitialize(loadConfig)
}

// loadConfig loads the configuration when a command needs it.
// Version and help never touch config, so a broken settings file still lets
// them run.
func loadConfig() {
	cmd, _, _ := rootCmd.Find(os.Args[1:])
	if cmd != nil && (cmd.Name() == "version" || cmd.Name() == "help") {
		return
	}

	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}
