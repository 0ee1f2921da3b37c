package config

import (
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/tenderned-notice/internal/domain"
	infraconfig "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/config"
	infrahttp "github.com/jonesrussell/north-cloud/tenderned-notice/internal/infrastructure/http"
)

// Default configuration values.
const (
	defaultBaseURL      = "https://www.tenderned.nl/papi/tenderned-rs-tns/v2"
	defaultTimeout      = 30 * time.Second
	defaultLogLevel     = "info"
	defaultLogFormat    = "console"
	defaultOutputFormat = OutputLog
)

// Output formats for the retrieved notice.
const (
	OutputLog   = "log"
	OutputTable = "table"
	OutputJSON  = "json"
)

// Config holds the application configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Logging LoggingConfig `yaml:"logging"`
	Output  OutputConfig  `yaml:"output"`
}

// APIConfig holds the TenderNed endpoint and credentials.
type APIConfig struct {
	BaseURL  string        `env:"TENDERNED_BASE_URL" yaml:"base_url"`
	Username string        `env:"API_USERNAME"       yaml:"-"`
	Password string        `env:"API_PASSWORD"       yaml:"-"`
	Timeout  time.Duration `env:"TENDERNED_TIMEOUT"  yaml:"timeout"`

	// Transport timeouts; zero keeps the HTTP client defaults.
	ResponseHeaderTimeout time.Duration `env:"TENDERNED_RESPONSE_HEADER_TIMEOUT" yaml:"response_header_timeout"`
	TLSHandshakeTimeout   time.Duration `env:"TENDERNED_TLS_HANDSHAKE_TIMEOUT"   yaml:"tls_handshake_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
}

// OutputConfig controls how results are reported.
type OutputConfig struct {
	Format      string `env:"OUTPUT_FORMAT" yaml:"format"`
	MetricsFile string `env:"METRICS_FILE"  yaml:"metrics_file"`
}

// Load loads configuration from a YAML file, applies defaults, then env overrides.
// Credentials are only ever read from the environment.
func Load(path string) (*Config, error) {
	cfg, loadErr := infraconfig.LoadWithDefaults(path, setDefaults)
	if loadErr != nil {
		return nil, fmt.Errorf("load config: %w", loadErr)
	}

	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return cfg, nil
}

// Validate checks everything except credentials, whose absence is reported at run time.
func (c *Config) Validate() error {
	if err := infraconfig.ValidateURL("api.base_url", c.API.BaseURL); err != nil {
		return err
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"api.timeout", c.API.Timeout},
		{"api.response_header_timeout", c.API.ResponseHeaderTimeout},
		{"api.tls_handshake_timeout", c.API.TLSHandshakeTimeout},
	}
	for _, t := range timeouts {
		if t.value < 0 {
			return &infraconfig.ValidationError{Field: t.field, Message: "must not be negative"}
		}
	}

	if err := infraconfig.ValidateLogLevel(c.Logging.Level); err != nil {
		return err
	}

	if err := infraconfig.ValidateLogFormat(c.Logging.Format); err != nil {
		return err
	}

	switch c.Output.Format {
	case OutputLog, OutputTable, OutputJSON:
	default:
		return &infraconfig.ValidationError{Field: "output.format", Message: "must be one of: log, table, json"}
	}

	return nil
}

// ClientConfig returns the HTTP client settings for the API session.
func (c *Config) ClientConfig() *infrahttp.ClientConfig {
	return &infrahttp.ClientConfig{
		Timeout:               c.API.Timeout,
		ResponseHeaderTimeout: c.API.ResponseHeaderTimeout,
		TLSHandshakeTimeout:   c.API.TLSHandshakeTimeout,
	}
}

// Credentials returns the API credentials.
func (c *Config) Credentials() domain.Credentials {
	return domain.Credentials{Username: c.API.Username, Password: c.API.Password}
}

func setDefaults(cfg *Config) {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaultBaseURL
	}

	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = defaultTimeout
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaultLogLevel
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaultLogFormat
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = defaultOutputFormat
	}
}

// NewDefault creates a config with all default values and no credentials.
func NewDefault() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}
