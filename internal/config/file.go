package config

// SourceConfig holds per-source settings from the configuration file.
// This allows disabling a source or pointing it at a different endpoint
// (a mirror, a test double) without code changes.
type SourceConfig struct {
	// Disabled removes the source from the default set.
	Disabled bool `yaml:"disabled,omitempty"`

	// Endpoint overrides the source's base URL.
	Endpoint string `yaml:"endpoint,omitempty"`
}

// File represents the structure of the .telespotter configuration file.
type File struct {
	// Sources maps source names to their overrides.
	Sources map[string]SourceConfig `yaml:"sources,omitempty"`

	// Concurrency overrides the session concurrency bound when positive.
	Concurrency int `yaml:"concurrency,omitempty"`

	// TaskTimeout overrides the per-attempt fetch timeout. Duration
	// string, e.g. "20s".
	TaskTimeout string `yaml:"taskTimeout,omitempty"`

	// MaxRetries overrides the transient retry budget when positive.
	MaxRetries int `yaml:"maxRetries,omitempty"`

	// Retention overrides the finished-session retention window.
	// Duration string, e.g. "30m".
	Retention string `yaml:"retention,omitempty"`

	// RequestsPerSecond overrides the outbound request rate when
	// positive.
	RequestsPerSecond float64 `yaml:"requestsPerSecond,omitempty"`

	// ProxyAddress sets a SOCKS5 proxy in "host:port" format.
	ProxyAddress string `yaml:"proxyAddress,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// ListenAddress overrides the HTTP API listen address.
	ListenAddress string `yaml:"listenAddress,omitempty"`
}

// SourceOverride returns the overrides for a source name, or the zero
// value when none are configured.
func (cf *File) SourceOverride(name string) SourceConfig {
	if cf == nil || cf.Sources == nil {
		return SourceConfig{}
	}
	return cf.Sources[name]
}
