package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "telespotter"

	// DefaultConcurrency is the number of source tasks that run at
	// once. The source list is small, so a low bound keeps outbound
	// traffic polite without slowing sessions down noticeably.
	DefaultConcurrency = 4

	// DefaultTaskTimeout bounds one fetch attempt. People-search sites
	// are slow but anything past this is effectively down.
	DefaultTaskTimeout = 20 * time.Second

	// DefaultMaxRetries is how many extra attempts a transient fetch
	// failure earns.
	DefaultMaxRetries = 2

	// DefaultRetryBackoff is the pause between attempts.
	DefaultRetryBackoff = 500 * time.Millisecond

	// DefaultRetention is how long a finished session stays queryable
	// before the registry sweeps it.
	DefaultRetention = 30 * time.Minute

	// DefaultSweepInterval is how often the registry sweeper runs.
	DefaultSweepInterval = time.Minute

	// DefaultRequestsPerSecond is the shared outbound request rate
	// across all sources. One request per second stays under every
	// site's obvious rate triggers.
	DefaultRequestsPerSecond = 1.0

	// DefaultMaxBodySize limits the response body size read from a
	// source. Result pages are far smaller; the cap prevents memory
	// exhaustion from unexpected responses.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// DefaultListenAddress is where the HTTP API serves.
	DefaultListenAddress = ":8787"
)

// Config holds all configuration options for TeleSpotter.
// It is populated from defaults, then the optional config file, then
// CLI flags, and passed through the application via dependency
// injection rather than global state.
type Config struct {
	// Sources is the list of enabled source names. Empty means all
	// known sources.
	Sources []string

	// Concurrency is the number of source tasks run simultaneously
	// within one session.
	Concurrency int

	// TaskTimeout is the per-attempt fetch timeout.
	TaskTimeout time.Duration

	// MaxRetries is how many extra attempts a transient failure gets.
	MaxRetries int

	// RetryBackoff is the pause between fetch attempts.
	RetryBackoff time.Duration

	// Retention is how long finished sessions stay queryable.
	Retention time.Duration

	// SweepInterval is how often expired sessions are swept.
	SweepInterval time.Duration

	// RequestsPerSecond is the shared outbound request rate.
	RequestsPerSecond float64

	// ProxyAddress is an optional SOCKS5 proxy in "host:port" format.
	// When set, all source traffic routes through it.
	ProxyAddress string

	// UserAgent overrides the User-Agent header when non-empty.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int64

	// ListenAddress is the HTTP API listen address for serve mode.
	ListenAddress string

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport selects JSON report output for scan mode.
	// Mutually exclusive with MarkdownReport and CSVReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output for scan mode.
	MarkdownReport bool

	// CSVReport selects CSV report output for scan mode.
	CSVReport bool

	// ReportFile writes the report to this path instead of stdout.
	ReportFile string

	// ConfigFilePath is the config file path. Empty means search the
	// standard locations.
	ConfigFilePath string

	// SourceOverrides holds per-source settings loaded from the config
	// file.
	SourceOverrides *File
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Concurrency:       DefaultConcurrency,
		TaskTimeout:       DefaultTaskTimeout,
		MaxRetries:        DefaultMaxRetries,
		RetryBackoff:      DefaultRetryBackoff,
		Retention:         DefaultRetention,
		SweepInterval:     DefaultSweepInterval,
		RequestsPerSecond: DefaultRequestsPerSecond,
		MaxBodySize:       DefaultMaxBodySize,
		ListenAddress:     DefaultListenAddress,
	}
}

// XDGDataDir returns the XDG data directory for TeleSpotter.
// On Linux: ~/.local/share/telespotter
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for TeleSpotter.
// On Linux: ~/.config/telespotter
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for TeleSpotter.
// On Linux: ~/.cache/telespotter
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid. It returns the first
// problem found: fixing one error often makes the others irrelevant.
func (c *Config) Validate() error {
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.TaskTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxRetries < 0 {
		return ErrInvalidRetries
	}
	if c.RetryBackoff < 0 {
		return ErrInvalidBackoff
	}
	if c.Retention <= 0 {
		return ErrInvalidRetention
	}
	if c.RequestsPerSecond <= 0 {
		return ErrInvalidRate
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	formats := 0
	for _, set := range []bool{c.JSONReport, c.MarkdownReport, c.CSVReport} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}
	return nil
}
