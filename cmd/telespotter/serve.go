package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/telespotter/internal/client"
	"github.com/nao1215/telespotter/internal/config"
	seclog "github.com/nao1215/telespotter/internal/log"
	"github.com/nao1215/telespotter/internal/model"
	"github.com/nao1215/telespotter/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the search session HTTP API",
		Long: `Serve exposes search sessions over HTTP.

Sessions are started with POST /api/search and observed through
GET /api/search/{id}, the per-session SSE event stream, and the report
export endpoint. Finished sessions stay queryable for the retention
window and are then swept.

Examples:
  # Serve on the default address
  telespotter serve

  # Serve on a custom address with a proxy
  telespotter serve -a :9000 --proxy 127.0.0.1:9050`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("address", "a", config.DefaultListenAddress,
		"HTTP listen address")
	cmd.Flags().StringSliceP("sources", "s", nil,
		"Comma-separated list of sources to query (default: all)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for all source traffic")
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of source tasks run simultaneously per session")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTaskTimeout,
		"Per-attempt fetch timeout for each source")
	cmd.Flags().Int("retries", config.DefaultMaxRetries,
		"Extra attempts for transient source failures")
	cmd.Flags().Float64("rate", config.DefaultRequestsPerSecond,
		"Outbound requests per second across all sources")
	cmd.Flags().Duration("retention", config.DefaultRetention,
		"How long finished sessions stay queryable")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .telespotter in current or home directory)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := seclog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	factory := func(sources []model.Source) ([]client.Client, error) {
		return buildClients(cfg, sources)
	}

	fmt.Printf("TeleSpotter API listening on %s\n", cfg.ListenAddress)
	return server.New(cfg, factory, server.WithServerLogger(logger)).Run(ctx)
}

// buildServeConfig creates a Config from serve command flags and the
// configuration file.
func buildServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.ListenAddress, err = cmd.Flags().GetString("address")
	if err != nil {
		return nil, err
	}

	cfg.Sources, err = cmd.Flags().GetStringSlice("sources")
	if err != nil {
		return nil, err
	}

	cfg.ProxyAddress, err = cmd.Flags().GetString("proxy")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.TaskTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("retries")
	if err != nil {
		return nil, err
	}

	cfg.RequestsPerSecond, err = cmd.Flags().GetFloat64("rate")
	if err != nil {
		return nil, err
	}

	cfg.Retention, err = cmd.Flags().GetDuration("retention")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
