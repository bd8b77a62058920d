package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Zachdehooge/weather-map/internal/config"
	"github.com/Zachdehooge/weather-map/internal/fetcher"
	"github.com/Zachdehooge/weather-map/internal/generator"
	"github.com/Zachdehooge/weather-map/internal/logging"
	"github.com/Zachdehooge/weather-map/internal/metrics"
	"github.com/Zachdehooge/weather-map/internal/navigation"
	"github.com/Zachdehooge/weather-map/internal/server"
	"github.com/Zachdehooge/weather-map/internal/session"
	"github.com/Zachdehooge/weather-map/internal/startup"
	"github.com/Zachdehooge/weather-map/internal/timesteps"
	"github.com/Zachdehooge/weather-map/internal/wind"
	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

var (
	catalogFile string
	verbose     bool
	port        string
	outputFile  string
	apiBase     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "weather-map",
		Short: "Serve an interactive weather overlay map",
		Long: `Weather Map serves a Leaflet map with radar, apparent temperature and
wind particle overlays from NOAA nowCOAST and PacIOOS ERDDAP, and lets viewers
step through the available time slices.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := runServe(cmd); err != nil {
				cmd.PrintErrln(fmt.Errorf("server failed: %w", err))
				os.Exit(1)
			}
		},
	}

	// Flags
	rootCmd.PersistentFlags().StringVarP(&catalogFile, "catalog", "c", "", "Overlay catalog YAML file (defaults to the built-in catalog)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")

	// Additional commands
	addRenderCmd(rootCmd)
	addStepsCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides and initializes logging.
func setup() (*config.Config, *config.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if port != "" {
		cfg.Port = port
	}
	if catalogFile != "" {
		cfg.CatalogFile = catalogFile
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	catalog, err := config.LoadCatalog(cfg.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, catalog, nil
}

func newLoader(cfg *config.Config, catalog *config.Catalog, opts ...startup.Option) *startup.Loader {
	client := fetcher.New(cfg.UserAgent, cfg.FetchTimeout, fetcher.WithRetries(cfg.FetchRetries))
	registry := timesteps.NewRegistry(client)
	windClient := wind.NewClient(client, cfg.ErddapURL, cfg.WindDataset, cfg.WindStride)
	return startup.NewLoader(catalog, registry, windClient, cfg.FetchTimeout, opts...)
}

// runServe starts the startup fetches in the background and serves the map
// until interrupted.
func runServe(cmd *cobra.Command) error {
	cfg, catalog, err := setup()
	if err != nil {
		return err
	}
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()
	fetchMetrics := metrics.NewFetchMetrics(reg)
	navMetrics := metrics.NewNavigationMetrics(reg)

	loader := newLoader(cfg, catalog, startup.WithMetrics(fetchMetrics))
	go loader.Run(ctx)

	store, err := session.NewStore(cfg.MaxSessions, cfg.SessionIdleTTL, clockwork.NewRealClock(), navMetrics)
	if err != nil {
		return err
	}
	stopSweeper := store.StartSweeper(time.Minute)
	defer stopSweeper()

	srv := server.NewServer(cfg, catalog, loader, store, reg, navMetrics)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	cmd.Println(fmt.Sprintf("Open at http://localhost:%s/", cfg.Port))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutdown signal received, cleaning up...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// addRenderCmd adds a 'render' subcommand that writes the map page to a file
func addRenderCmd(rootCmd *cobra.Command) {
	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Write the map page to an HTML file",
		Run: func(cmd *cobra.Command, args []string) {
			_, catalog, err := setup()
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to load configuration: %w", err))
				os.Exit(1)
			}

			if verbose {
				cmd.Println(fmt.Sprintf("Generating HTML to %s...", outputFile))
			}
			if err := generator.GenerateMapHTML(generator.NewPageData(catalog, apiBase), outputFile); err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to generate HTML: %w", err))
				os.Exit(1)
			}
			cmd.Println(fmt.Sprintf("Weather map saved to %s", outputFile))
		},
	}

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "map.html", "Output HTML file path")
	renderCmd.Flags().StringVar(&apiBase, "api", "http://localhost:8080", "Base URL of a running weather-map server")

	rootCmd.AddCommand(renderCmd)
}

// addStepsCmd adds a 'steps' subcommand that lists the time slices of each
// navigable overlay without serving anything
func addStepsCmd(rootCmd *cobra.Command) {
	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "List the available time slices per overlay",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, catalog, err := setup()
			if err != nil {
				cmd.PrintErrln(fmt.Errorf("failed to load configuration: %w", err))
				os.Exit(1)
			}

			snap := newLoader(cfg, catalog).Run(cmd.Context())
			printSteps(cmd, catalog, snap)
		},
	}

	rootCmd.AddCommand(stepsCmd)
}

func printSteps(cmd *cobra.Command, catalog *config.Catalog, snap *startup.Snapshot) {
	heading := color.New(color.FgCyan, color.Bold)
	failed := color.New(color.FgRed)

	for _, o := range catalog.Navigable() {
		steps := snap.StepsFor(o.Name)
		cmd.Println(heading.Sprintf("%s (%d time steps)", o.Title, steps.Len()))

		if msg, ok := snap.Errors[o.Name]; ok {
			cmd.Println(failed.Sprintf("  fetch failed: %s", msg))
			continue
		}
		if steps.Len() == 0 {
			cmd.Println("  No time dimension; navigation disabled.")
			continue
		}
		for i, ts := range steps {
			cmd.Println(fmt.Sprintf("  %3d  %s", i, navigation.NormalizeTimestamp(ts)))
		}
	}

	if msg, ok := snap.Errors[windName(catalog)]; ok {
		cmd.Println(failed.Sprintf("Wind data unavailable: %s", msg))
	}
}

func windName(catalog *config.Catalog) string {
	o, _ := catalog.Velocity()
	return o.Name
}
