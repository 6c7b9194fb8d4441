// Package config loads and validates the briefing agent's application
// configuration from a YAML file, with secrets sourced from environment
// variables. Operational knobs (cron schedule, timezone, timeouts, ports)
// are environment-driven and live in internal/infra/worker.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the YAML omits the corresponding fields.
const (
	DefaultFeedLimit     = 9
	DefaultEmailLimit    = 5
	DefaultSinceDays     = 1
	DefaultSnippetMaxLen = 150
	DefaultMailboxFolder = "INBOX"
	DefaultSMTPPort      = 587
	DefaultMaxTokens     = 1024
)

// FeedConfig describes one news feed source. Order in the YAML list is the
// fixed priority order used when concatenating fetched headlines.
type FeedConfig struct {
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
	Limit int    `yaml:"limit"`
}

// WeatherConfig describes the weather provider query target.
type WeatherConfig struct {
	City        string `yaml:"city"`
	CountryCode string `yaml:"country_code"`
	// APIKey may be left empty in the file and supplied via
	// OPENWEATHER_API_KEY instead.
	APIKey string `yaml:"api_key"`
}

// MailboxConfig describes the IMAP inbox to read unread mail from.
type MailboxConfig struct {
	// Host is the IMAP server address including port, e.g. "imap.gmail.com:993".
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	// Password may be left empty in the file and supplied via
	// MAILBOX_PASSWORD instead.
	Password      string `yaml:"password"`
	Folder        string `yaml:"folder"`
	SinceDays     int    `yaml:"since_days"`
	Limit         int    `yaml:"limit"`
	SnippetMaxLen int    `yaml:"snippet_max_len"`
}

// SMTPConfig describes the outbound mail session used for delivery.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	// Password may be left empty in the file and supplied via
	// SMTP_PASSWORD instead.
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// GenerationConfig selects the generation backend and its ordered model
// candidate list. Candidates are tried in order during model selection.
type GenerationConfig struct {
	// Backend is "claude", "openai" or "none".
	Backend string `yaml:"backend"`
	// Models is the ordered candidate list; empty uses backend defaults.
	Models    []string `yaml:"models"`
	MaxTokens int      `yaml:"max_tokens"`
}

// Config is the full application configuration.
type Config struct {
	Feeds      []FeedConfig     `yaml:"feeds"`
	Weather    WeatherConfig    `yaml:"weather"`
	Mailbox    MailboxConfig    `yaml:"mailbox"`
	SMTP       SMTPConfig       `yaml:"smtp"`
	Generation GenerationConfig `yaml:"generation"`
}

// DefaultModels returns the backend's default ordered candidate list, used
// when the YAML does not pin one.
func DefaultModels(backend string) []string {
	switch backend {
	case "claude":
		return []string{
			"claude-sonnet-4-5",
			"claude-3-7-sonnet-latest",
			"claude-3-5-haiku-latest",
		}
	case "openai":
		return []string{
			"gpt-4o",
			"gpt-4o-mini",
			"gpt-3.5-turbo",
		}
	default:
		return nil
	}
}

// Load reads, defaults, and validates the configuration at path. When the
// file does not exist, a commented template is written there and an error
// instructing the operator to fill it in is returned.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if werr := writeTemplate(path); werr != nil {
				return nil, fmt.Errorf("config file %s not found and template creation failed: %w", path, werr)
			}
			return nil, fmt.Errorf("config file %s not found; a template was created, please fill it in", path)
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills zero-valued fields with the documented defaults.
func (c *Config) applyDefaults() {
	for i := range c.Feeds {
		if c.Feeds[i].Limit <= 0 {
			c.Feeds[i].Limit = DefaultFeedLimit
		}
	}
	if c.Mailbox.Folder == "" {
		c.Mailbox.Folder = DefaultMailboxFolder
	}
	if c.Mailbox.SinceDays <= 0 {
		c.Mailbox.SinceDays = DefaultSinceDays
	}
	if c.Mailbox.Limit <= 0 {
		c.Mailbox.Limit = DefaultEmailLimit
	}
	if c.Mailbox.SnippetMaxLen <= 0 {
		c.Mailbox.SnippetMaxLen = DefaultSnippetMaxLen
	}
	if c.SMTP.Port <= 0 {
		c.SMTP.Port = DefaultSMTPPort
	}
	if c.Generation.Backend == "" {
		c.Generation.Backend = "claude"
	}
	if len(c.Generation.Models) == 0 {
		c.Generation.Models = DefaultModels(c.Generation.Backend)
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = DefaultMaxTokens
	}
}

// applyEnvOverrides lets environment variables supply secrets so they never
// need to live in the file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENWEATHER_API_KEY"); v != "" {
		c.Weather.APIKey = v
	}
	if v := os.Getenv("MAILBOX_PASSWORD"); v != "" {
		c.Mailbox.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.SMTP.Password = v
	}
}

// Validate checks the fields required for a run to start. Per-dependency
// reachability is the health probe's job, not validation's.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Feeds) == 0 {
		errs = append(errs, fmt.Errorf("at least one feed must be configured"))
	}
	for _, f := range c.Feeds {
		if f.Name == "" || f.URL == "" {
			errs = append(errs, fmt.Errorf("feed entries require both name and url"))
			break
		}
	}
	if c.SMTP.Host == "" {
		errs = append(errs, fmt.Errorf("smtp.host is required"))
	}
	if c.SMTP.From == "" || c.SMTP.To == "" {
		errs = append(errs, fmt.Errorf("smtp.from and smtp.to are required"))
	}
	switch c.Generation.Backend {
	case "claude", "openai", "none":
	default:
		errs = append(errs, fmt.Errorf("generation.backend must be claude, openai or none, got %q", c.Generation.Backend))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// writeTemplate writes a starter configuration for the operator to edit,
// mirroring the defaults documented above.
func writeTemplate(path string) error {
	template := Config{
		Feeds: []FeedConfig{
			{Name: "BBC", URL: "http://feeds.bbci.co.uk/news/rss.xml", Limit: DefaultFeedLimit},
			{Name: "Times of India", URL: "https://timesofindia.indiatimes.com/rssfeedstopstories.cms", Limit: DefaultFeedLimit},
		},
		Weather: WeatherConfig{City: "Delhi", CountryCode: "IN", APIKey: "your-openweather-api-key"},
		Mailbox: MailboxConfig{
			Host:          "imap.gmail.com:993",
			Username:      "your-address@gmail.com",
			Password:      "your-app-password",
			Folder:        DefaultMailboxFolder,
			SinceDays:     DefaultSinceDays,
			Limit:         DefaultEmailLimit,
			SnippetMaxLen: DefaultSnippetMaxLen,
		},
		SMTP: SMTPConfig{
			Host:     "smtp.gmail.com",
			Port:     DefaultSMTPPort,
			Username: "your-address@gmail.com",
			Password: "your-app-password",
			From:     "your-address@gmail.com",
			To:       "recipient@example.com",
		},
		Generation: GenerationConfig{Backend: "claude", MaxTokens: DefaultMaxTokens},
	}

	data, err := yaml.Marshal(&template)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
