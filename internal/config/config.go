// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults for the sample deployment.
const (
	DefaultDatasetName = "chinook.db"
	DefaultDatasetURL  = "https://storage.googleapis.com/benchmarks-artifacts/chinook/Chinook.db"
	DefaultListenAddr  = ":8080"
	DefaultTopK        = 5
)

// Supported engines and agent providers.
const (
	EngineSQLite = "sqlite"
	EngineDuckDB = "duckdb"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// AgentConfig selects the language model behind the ask endpoint.
type AgentConfig struct {
	Provider        string `yaml:"provider"`
	Model           string `yaml:"model"`
	TopK            int    `yaml:"top_k"`
	OpenAIAPIKey    string `yaml:"openai_api_key"`
	AnthropicAPIKey string `yaml:"anthropic_api_key"`
}

// APIKey returns the key for the configured provider.
func (a *AgentConfig) APIKey() string {
	if a.Provider == ProviderAnthropic {
		return a.AnthropicAPIKey
	}
	return a.OpenAIAPIKey
}

// StorageConfig holds object-store credentials used when the dataset URL
// points at s3://, gs:// or azblob://. All fields are optional.
type StorageConfig struct {
	S3KeyID         string `yaml:"s3_key_id"`
	S3Secret        string `yaml:"s3_secret"`
	S3Region        string `yaml:"s3_region"`
	S3Endpoint      string `yaml:"s3_endpoint"`
	GCSKeyFile      string `yaml:"gcs_key_file"`
	AzureAccountKey string `yaml:"azure_account_key"`
}

// Config holds the configuration for the CLI and the HTTP server.
type Config struct {
	DatasetName  string        `yaml:"dataset_name"`  // local file name (default "chinook.db")
	DatasetURL   string        `yaml:"dataset_url"`   // fetched once when the file is absent
	FetchTimeout time.Duration `yaml:"fetch_timeout"` // zero means no bound
	Engine       string        `yaml:"engine"`        // sqlite (default) or duckdb
	ListenAddr   string        `yaml:"listen_addr"`   // HTTP listen address (default ":8080")
	LogLevel     string        `yaml:"log_level"`     // debug, info, warn, error (default "info")
	Env          string        `yaml:"env"`           // "development" (default) or "production"

	// CORS
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"` // default: ["*"]

	Agent   AgentConfig   `yaml:"agent"`
	Storage StorageConfig `yaml:"storage"`

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string `yaml:"-"`
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// Validate rejects values no component can run with.
func (c *Config) Validate() error {
	switch c.Engine {
	case EngineSQLite, EngineDuckDB:
	default:
		return fmt.Errorf("unknown engine %q (want %s or %s)", c.Engine, EngineSQLite, EngineDuckDB)
	}
	switch c.Agent.Provider {
	case ProviderOpenAI, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown agent provider %q (want %s or %s)", c.Agent.Provider, ProviderOpenAI, ProviderAnthropic)
	}
	if c.Agent.TopK <= 0 {
		return fmt.Errorf("agent top-k must be positive, got %d", c.Agent.TopK)
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("fetch timeout must not be negative, got %s", c.FetchTimeout)
	}
	if c.DatasetName == "" {
		return fmt.Errorf("dataset name is required")
	}
	if c.IsProduction() && len(c.CORSAllowedOrigins) == 1 && c.CORSAllowedOrigins[0] == "*" {
		return fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
	}
	return nil
}

// LoadFromEnv loads configuration from environment variables, layered over
// the YAML file named by CHINOOK_CONFIG when set.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv("CHINOOK_CONFIG"))
}

// Load reads the YAML file at path (skipped when empty), applies environment
// variables on top, fills defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)

	if cfg.Agent.APIKey() == "" {
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("no API key for agent provider %s; asking questions is disabled", cfg.Agent.Provider))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.DatasetName, "DATASET_NAME")
	setString(&cfg.DatasetURL, "DATASET_URL")
	setString(&cfg.Engine, "ENGINE")
	setString(&cfg.ListenAddr, "LISTEN_ADDR")
	setString(&cfg.LogLevel, "LOG_LEVEL")
	setString(&cfg.Env, "ENV")

	setString(&cfg.Agent.Provider, "AGENT_PROVIDER")
	setString(&cfg.Agent.Model, "AGENT_MODEL")
	setString(&cfg.Agent.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&cfg.Agent.AnthropicAPIKey, "ANTHROPIC_API_KEY")

	setString(&cfg.Storage.S3KeyID, "S3_KEY_ID")
	setString(&cfg.Storage.S3Secret, "S3_SECRET")
	setString(&cfg.Storage.S3Region, "S3_REGION")
	setString(&cfg.Storage.S3Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.GCSKeyFile, "GCS_KEY_FILE")
	setString(&cfg.Storage.AzureAccountKey, "AZURE_ACCOUNT_KEY")

	if v := os.Getenv("AGENT_TOP_K"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid AGENT_TOP_K %q: %w", v, err)
		}
		cfg.Agent.TopK = n
	}
	if v := os.Getenv("FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid FETCH_TIMEOUT %q: %w", v, err)
		}
		cfg.FetchTimeout = d
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.DatasetName == "" {
		cfg.DatasetName = DefaultDatasetName
	}
	if cfg.DatasetURL == "" {
		cfg.DatasetURL = DefaultDatasetURL
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineSQLite
	}
	cfg.Engine = strings.ToLower(cfg.Engine)
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = DefaultListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Agent.Provider == "" {
		cfg.Agent.Provider = ProviderOpenAI
	}
	cfg.Agent.Provider = strings.ToLower(cfg.Agent.Provider)
	if cfg.Agent.TopK == 0 {
		cfg.Agent.TopK = DefaultTopK
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the environment.
// Lines must be in KEY=VALUE format. Comments (#) and blank lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = stripQuotes(strings.TrimSpace(value))
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
