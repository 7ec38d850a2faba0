package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sweeparr/sweeparr/api"
	"github.com/sweeparr/sweeparr/api/types"
	apiversion "github.com/sweeparr/sweeparr/api/version"
	"github.com/sweeparr/sweeparr/internal/database"
	"github.com/sweeparr/sweeparr/internal/services/catalog"
	"github.com/sweeparr/sweeparr/internal/services/catalogevents"
	"github.com/sweeparr/sweeparr/internal/services/deletion"
	"github.com/sweeparr/sweeparr/internal/services/providermap"
	"github.com/sweeparr/sweeparr/internal/services/scheduler"
	"github.com/sweeparr/sweeparr/pkg/config"
)

var (
	serverHost string
	serverPort int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook server",
	Long: `Start the Sweeparr webhook server with the configured settings.

The server receives deletion notifications from the media server and change
events from the series catalog, keeps the identifier index fresh, and applies
the configured deletion policies against the catalog managers.

Example:
  sweeparr serve
  sweeparr serve --port 9090
  sweeparr serve --host 0.0.0.0 --port 5000`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.GetConfig()
	if err != nil {
		return err
	}

	if serverHost == "" {
		serverHost = cfg.Server.Host
	}
	if serverPort == 0 {
		serverPort = cfg.Server.Port
	}

	db, err := database.Initialize(cfg.Database.Path, cfg.Database.LogQueries)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	deps, rebuilder, err := buildDependencies(db, cfg)
	if err != nil {
		return err
	}

	sched, err := scheduler.New(rebuilder, cfg.Refresh)
	if err != nil {
		return fmt.Errorf("invalid refresh schedule: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	apiversion.Version = Version

	address := fmt.Sprintf("%s:%d", serverHost, serverPort)
	server := api.NewServer(address)
	server.SetDependencies(deps)
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server error: %w", err)
		}
	}()

	log.Printf("[INFO] Sweeparr listening on %s", address)

	select {
	case <-stop:
		log.Printf("[INFO] Shutting down")
	case err := <-serverErr:
		log.Printf("[ERROR] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Printf("[INFO] Server stopped")
	return nil
}

// buildDependencies wires the catalog clients, index, processor and listener.
func buildDependencies(db *database.DB, cfg *config.Config) (*types.Dependencies, providermap.Rebuilder, error) {
	seriesClient := catalog.NewSeriesClient(catalog.Config{
		BaseURL: cfg.SeriesCatalog.URL,
		APIKey:  cfg.SeriesCatalog.APIKey,
		Timeout: cfg.SeriesCatalog.Timeout,
	})
	movieClient := catalog.NewMovieClient(catalog.Config{
		BaseURL: cfg.MovieCatalog.URL,
		APIKey:  cfg.MovieCatalog.APIKey,
		Timeout: cfg.MovieCatalog.Timeout,
	})

	seriesMode, err := deletion.ParseMode(cfg.Deletion.SeriesMode)
	if err != nil {
		return nil, nil, err
	}
	seasonMode, err := deletion.ParseMode(cfg.Deletion.SeasonMode)
	if err != nil {
		return nil, nil, err
	}

	repo := providermap.NewRepository(db.DB)
	rebuilder := providermap.NewRebuildEngine(db.DB, seriesClient, movieClient)
	processor := deletion.NewProcessor(repo, seriesClient, movieClient,
		deletion.WithSeriesMode(seriesMode),
		deletion.WithSeasonMode(seasonMode),
	)
	listener := catalogevents.NewListener(repo, seriesClient)

	return &types.Dependencies{
		DB:        db,
		Processor: processor,
		Listener:  listener,
		Rebuilder: rebuilder,
		Index:     repo,
	}, rebuilder, nil
}
