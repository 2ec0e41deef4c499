package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/telespotter/internal/client"
	"github.com/nao1215/telespotter/internal/config"
	seclog "github.com/nao1215/telespotter/internal/log"
	"github.com/nao1215/telespotter/internal/model"
	"github.com/nao1215/telespotter/internal/report"
	"github.com/nao1215/telespotter/internal/session"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [phone-number]",
		Short: "Search public sources for a phone number",
		Long: `Scan runs one search session per phone number.

Each session queries the enabled sources concurrently, extracts
entities (names, emails, addresses, usernames, social profiles,
associated numbers) from the raw results, and correlates them across
sources. Findings seen by more independent sources score higher.

Examples:
  # Search all sources for a number
  telespotter scan 555-123-4567

  # Search several numbers in one run
  telespotter scan 555-123-4567 +12125550187

  # Restrict the source set
  telespotter scan -s google,bing,whitepages 555-123-4567

  # Route traffic through a SOCKS5 proxy
  telespotter scan --proxy 127.0.0.1:9050 555-123-4567

  # Write a Markdown report to a file
  telespotter scan -m -o report.md 555-123-4567

Configuration file (.telespotter) example:
  concurrency: 4
  requestsPerSecond: 0.5
  sources:
    spokeo:
      disabled: true
    whitepages:
      endpoint: "https://mirror.example.com"`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Source selection flags
	cmd.Flags().StringSliceP("sources", "s", nil,
		"Comma-separated list of sources to query (default: all)")
	cmd.Flags().String("proxy", "",
		"SOCKS5 proxy address for all source traffic (e.g., 127.0.0.1:9050)")

	// Session behavior flags
	cmd.Flags().IntP("concurrency", "b", config.DefaultConcurrency,
		"Number of source tasks run simultaneously per session")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTaskTimeout,
		"Per-attempt fetch timeout for each source")
	cmd.Flags().Int("retries", config.DefaultMaxRetries,
		"Extra attempts for transient source failures")
	cmd.Flags().Float64("rate", config.DefaultRequestsPerSecond,
		"Outbound requests per second across all sources")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .telespotter in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown and --csv)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json and --csv)")
	cmd.Flags().Bool("csv", false,
		"Output CSV entity rows (mutually exclusive with --json and --markdown)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential and PII masking
	logger := seclog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, args, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

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

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg); err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.CSVReport, err = cmd.Flags().GetBool("csv")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadConfigFile resolves and applies the configuration file.
// An explicitly specified path must exist; the default search locations
// are optional.
func loadConfigFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		cfg.SourceOverrides = &config.File{}
		return nil
	}

	file, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if err := cfg.Apply(file); err != nil {
		return fmt.Errorf("invalid config file %s: %w", path, err)
	}
	cfg.SourceOverrides = file
	return nil
}

// resolveSources determines the session's source set from the
// configuration: the explicit list when given, otherwise every known
// source minus the ones disabled in the config file.
func resolveSources(cfg *config.Config) ([]model.Source, error) {
	all := make([]string, 0, len(model.AllSources()))
	for _, src := range model.AllSources() {
		all = append(all, string(src))
	}
	return model.ParseSources(cfg.EnabledSources(all))
}

// buildClients constructs one client per source over a shared fetcher,
// honoring per-source endpoint overrides from the config file.
func buildClients(cfg *config.Config, sources []model.Source) ([]client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(cfg.TaskTimeout),
		client.WithRequestsPerSecond(cfg.RequestsPerSecond),
		client.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.ProxyAddress != "" {
		opts = append(opts, client.WithSOCKS5Proxy(cfg.ProxyAddress))
	}
	if cfg.UserAgent != "" {
		opts = append(opts, client.WithUserAgent(cfg.UserAgent))
	}

	fetcher, err := client.NewFetcher(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	clients := make([]client.Client, 0, len(sources))
	for _, src := range sources {
		endpoint := ""
		if cfg.SourceOverrides != nil {
			endpoint = cfg.SourceOverrides.SourceOverride(string(src)).Endpoint
		}

		var c client.Client
		switch {
		case endpoint != "" && src.Kind() == model.KindSearchEngine:
			c, err = client.NewSearchEngineClient(src, fetcher, client.WithSearchEndpoint(endpoint))
		case endpoint != "":
			c, err = client.NewPeopleSearchClient(src, fetcher, client.WithPeopleBaseURL(endpoint))
		default:
			c, err = client.New(src, fetcher)
		}
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, nil
}

// runScan runs one search session per phone number argument.
func runScan(ctx context.Context, cfg *config.Config, args []string, logger *slog.Logger) error {
	if len(args) == 0 {
		return errors.New("no phone numbers provided (specify one or more as arguments)")
	}

	// Validate all numbers up front so a typo in the last argument does
	// not surface after minutes of searching.
	phones := make([]model.PhoneNumber, 0, len(args))
	for _, arg := range args {
		phone, err := model.NewPhoneNumber(arg)
		if err != nil {
			return fmt.Errorf("invalid phone number %q: %w", arg, err)
		}
		phones = append(phones, phone)
	}

	sources, err := resolveSources(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting scan",
		"numbers", len(phones),
		"sources", len(sources),
		"concurrency", cfg.Concurrency,
	)

	for _, phone := range phones {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := runSession(ctx, cfg, phone, sources, logger); err != nil {
			logger.Error("session failed", "error", err)
			fmt.Fprintf(os.Stderr, "Search error for %s: %v\n", phone.Display(), err)
		}
	}
	return nil
}

// runSession executes one search session and writes its report.
func runSession(ctx context.Context, cfg *config.Config, phone model.PhoneNumber, sources []model.Source, logger *slog.Logger) error {
	clients, err := buildClients(cfg, sources)
	if err != nil {
		return err
	}

	orch, err := session.New(uuid.NewString(), phone, clients,
		session.WithSink(progressSink(cfg.Verbose)),
		session.WithLogger(logger),
		session.WithConcurrency(cfg.Concurrency),
		session.WithTaskTimeout(cfg.TaskTimeout),
		session.WithMaxRetries(cfg.MaxRetries),
		session.WithRetryBackoff(cfg.RetryBackoff),
	)
	if err != nil {
		return err
	}

	fmt.Printf("Searching %s across %d sources...\n", phone.Display(), len(sources))
	start := time.Now()

	if err := orch.Start(ctx); err != nil {
		return err
	}

	// A signal cancels the context; propagate that to the session so
	// its tasks settle instead of running to their deadlines.
	go func() {
		<-ctx.Done()
		orch.Cancel()
	}()

	<-orch.Done()

	fmt.Printf("Search completed in %s\n\n", time.Since(start).Round(time.Millisecond))

	return outputReport(cfg, orch.Status())
}

// progressSink returns an event sink that narrates session progress on
// stderr. Quiet unless verbose.
func progressSink(verbose bool) session.EventSink {
	if !verbose {
		return session.NopSink{}
	}
	return session.SinkFunc(func(_ string, event model.Event) {
		switch event.Type {
		case model.EventProgress:
			fmt.Fprintf(os.Stderr, "[%3d%%] %s\n", event.Percent, event.Message)
		case model.EventEntity:
			fmt.Fprintf(os.Stderr, "  found %s: %s (%.2f)\n",
				event.Entity.Type, event.Entity.Display, event.Entity.Confidence)
		}
	})
}

// outputReport writes the session report in the requested format.
func outputReport(cfg *config.Config, state *model.SessionState) error {
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain harvested PII; keep them owner-readable.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	format := report.FormatText
	switch {
	case cfg.JSONReport:
		format = report.FormatJSON
	case cfg.MarkdownReport:
		format = report.FormatMarkdown
	case cfg.CSVReport:
		format = report.FormatCSV
	}

	_, err := report.ForFormat(format, output).Write(state)
	return err
}
