package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid indicates the configuration cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config represents the samwise and grind configuration.
type Config struct {
	Tracker   TrackerConfig   `yaml:"tracker"`
	Providers ProvidersConfig `yaml:"providers"`
	Store     StoreConfig     `yaml:"store"`
	Sync      SyncConfig      `yaml:"sync"`
	Report    ReportConfig    `yaml:"report"`
	Mailgun   MailgunConfig   `yaml:"mailgun"`
	Logging   LoggingConfig   `yaml:"logging"`
	Server    ServerConfig    `yaml:"server"`
}

// TrackerConfig names the repository being tracked.
type TrackerConfig struct {
	Provider string `yaml:"provider"` // github or gitlab
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	WebURL   string `yaml:"web_url"`
}

// ProvidersConfig holds issue tracker credentials.
type ProvidersConfig struct {
	GitHub GitHubConfig `yaml:"github"`
	GitLab GitLabConfig `yaml:"gitlab"`
}

// GitHubConfig holds GitHub-specific settings.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// GitLabConfig holds GitLab-specific settings.
type GitLabConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

// StoreConfig holds the snapshot store settings.
type StoreConfig struct {
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// SyncConfig controls the samwise poll loop.
type SyncConfig struct {
	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	Timezone            string `yaml:"timezone"`
	IncludePullRequests bool   `yaml:"include_pull_requests"`
}

// ReportConfig controls the grind digest.
type ReportConfig struct {
	WindowHours int    `yaml:"window_hours"`
	Subject     string `yaml:"subject"`
}

// MailgunConfig holds Mailgun delivery settings.
type MailgunConfig struct {
	APIKey  string `yaml:"api_key"`
	Domain  string `yaml:"domain"`
	From    string `yaml:"from"`
	BaseURL string `yaml:"base_url"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// ServerConfig holds the health/metrics HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // 0 disables the server
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Tracker: TrackerConfig{
			Provider: "github",
			WebURL:   "https://github.com",
		},
		Store: StoreConfig{
			RedisURL:  "redis://localhost:6379/0",
			KeyPrefix: "samwise",
		},
		Sync: SyncConfig{
			PollIntervalSeconds: 60,
			Timezone:            "UTC",
		},
		Report: ReportConfig{
			WindowHours: 24,
			Subject:     "Daily Grind",
		},
		Mailgun: MailgunConfig{
			BaseURL: "https://api.mailgun.net",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
		},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings both binaries need before they touch the network.
func (c *Config) Validate() error {
	if c.Tracker.Owner == "" || c.Tracker.Repo == "" {
		return fmt.Errorf("%w: tracker.owner and tracker.repo are required", ErrInvalid)
	}

	switch c.Tracker.Provider {
	case "github":
		if c.Providers.GitHub.Token == "" {
			return fmt.Errorf("%w: providers.github.token is required", ErrInvalid)
		}
	case "gitlab":
		if c.Providers.GitLab.Token == "" {
			return fmt.Errorf("%w: providers.gitlab.token is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown tracker.provider %q", ErrInvalid, c.Tracker.Provider)
	}

	if c.Sync.PollIntervalSeconds <= 0 {
		return fmt.Errorf("%w: sync.poll_interval_seconds must be positive", ErrInvalid)
	}
	if _, err := time.LoadLocation(c.Sync.Timezone); err != nil {
		return fmt.Errorf("%w: sync.timezone: %v", ErrInvalid, err)
	}
	if c.Report.WindowHours <= 0 {
		return fmt.Errorf("%w: report.window_hours must be positive", ErrInvalid)
	}

	return nil
}

// ValidateMail checks the settings needed to send the digest.
func (c *Config) ValidateMail() error {
	if c.Mailgun.APIKey == "" || c.Mailgun.Domain == "" || c.Mailgun.From == "" {
		return fmt.Errorf("%w: mailgun.api_key, mailgun.domain and mailgun.from are required", ErrInvalid)
	}
	return nil
}

// PollInterval returns the delay between sync passes.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Sync.PollIntervalSeconds) * time.Second
}

// ReportWindow returns the trailing activity window of the digest.
func (c *Config) ReportWindow() time.Duration {
	return time.Duration(c.Report.WindowHours) * time.Hour
}

// Location returns the time zone remarks are stamped in.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Sync.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
