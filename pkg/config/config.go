package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Read API server configuration"`

	Store StoreConfig `yaml:"store" json:"store" jsonschema:"description=Record store configuration"`

	DataDir     string        `yaml:"data_dir" json:"data_dir" jsonschema:"default=data,description=Directory for the pull log and run reports"`
	SourcesFile string        `yaml:"sources_file" json:"sources_file" jsonschema:"default=data/sources.json,description=Feed sources grouped by category (JSON or YAML)"`
	Retention   time.Duration `yaml:"retention" json:"retention" jsonschema:"default=24h,description=Time a record stays visible after it was fetched"`

	Fetch FetchConfig `yaml:"fetch" json:"fetch" jsonschema:"description=Feed fetching configuration"`

	Classifier ClassifierConfig `yaml:"classifier" json:"classifier" jsonschema:"description=Classification providers configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Article text extraction configuration"`
}

// StoreConfig selects and configures the record store engine
type StoreConfig struct {
	Engine       string `yaml:"engine" json:"engine" jsonschema:"default=files,enum=files,enum=sqlite,description=Store engine"`
	ContentDir   string `yaml:"content_dir" json:"content_dir" jsonschema:"default=content,description=Root directory of the files engine"`
	DSN          string `yaml:"dsn" json:"dsn" jsonschema:"default=file:perspectives.db?cache=shared&mode=rwc&_txlock=immediate,description=SQLite connection string"`
	MaxOpenConns int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=4,description=Maximum number of open connections"`
}

// FetchConfig holds feed fetching settings
type FetchConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=10s,description=HTTP timeout per feed request"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=AI-Perspectives-Bot/1.0,description=User agent for feed requests"`
	Retries    int           `yaml:"retries" json:"retries" jsonschema:"default=3,minimum=1,description=Fetch attempts per feed"`
	RetryDelay time.Duration `yaml:"retry_delay" json:"retry_delay" jsonschema:"default=2s,description=Initial delay between fetch attempts"`
	Workers    int           `yaml:"workers" json:"workers" jsonschema:"default=3,minimum=1,description=Categories fetched concurrently"`
	Interval   time.Duration `yaml:"interval" json:"interval" jsonschema:"default=24h,description=Interval between scheduled runs reported as next fetch time"`
}

// ClassifierConfig holds provider chain settings
type ClassifierConfig struct {
	Pause  time.Duration  `yaml:"pause" json:"pause" jsonschema:"default=1s,description=Pause between classification calls"`
	OpenAI ProviderConfig `yaml:"openai" json:"openai" jsonschema:"description=Primary provider"`
	Claude ProviderConfig `yaml:"claude" json:"claude" jsonschema:"description=Secondary provider"`
}

// ProviderConfig holds settings of an OpenAI-compatible chat endpoint
type ProviderConfig struct {
	Endpoint    string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey      string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable) and provider is skipped if empty"`
	Model       string        `yaml:"model" json:"model" jsonschema:"description=Model name"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=50,description=Maximum tokens in response"`
	Temperature float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.1,description=Temperature for response generation"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
}

// ExtractionConfig holds content extraction settings
type ExtractionConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Extract article text for records without description"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per article"`
	UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=AI-Perspectives-Bot/1.0,description=User agent for HTTP requests"`
	MaxChars  int           `yaml:"max_chars" json:"max_chars" jsonschema:"default=1000,description=Extracted text passed to the classifier is cut to this size"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.setDefaults()

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		return nil, fmt.Errorf("verify config: %w", err)
	}

	return &cfg, nil
}

// Default returns configuration with all defaults set, used when no config file given
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	// server
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = 30 * time.Second
	}

	// store
	if c.Store.Engine == "" {
		c.Store.Engine = "files"
	}
	if c.Store.ContentDir == "" {
		c.Store.ContentDir = "content"
	}
	if c.Store.DSN == "" {
		c.Store.DSN = "file:perspectives.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if c.Store.MaxOpenConns == 0 {
		c.Store.MaxOpenConns = 4
	}

	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.SourcesFile == "" {
		c.SourcesFile = "data/sources.json"
	}
	if c.Retention == 0 {
		c.Retention = 24 * time.Hour
	}

	// fetch
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = 10 * time.Second
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = "AI-Perspectives-Bot/1.0"
	}
	if c.Fetch.Retries == 0 {
		c.Fetch.Retries = 3
	}
	if c.Fetch.RetryDelay == 0 {
		c.Fetch.RetryDelay = 2 * time.Second
	}
	if c.Fetch.Workers == 0 {
		c.Fetch.Workers = 3
	}
	if c.Fetch.Interval == 0 {
		c.Fetch.Interval = 24 * time.Hour
	}

	// classifier
	if c.Classifier.Pause == 0 {
		c.Classifier.Pause = time.Second
	}
	c.Classifier.OpenAI.setDefaults("https://api.openai.com/v1", "gpt-3.5-turbo")
	c.Classifier.Claude.setDefaults("https://api.anthropic.com/v1/", "claude-3-haiku-20240307")

	// extraction
	if c.Extraction.Timeout == 0 {
		c.Extraction.Timeout = 30 * time.Second
	}
	if c.Extraction.UserAgent == "" {
		c.Extraction.UserAgent = c.Fetch.UserAgent
	}
	if c.Extraction.MaxChars == 0 {
		c.Extraction.MaxChars = 1000
	}
}

func (p *ProviderConfig) setDefaults(endpoint, model string) {
	if p.Endpoint == "" {
		p.Endpoint = endpoint
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.MaxTokens == 0 {
		p.MaxTokens = 50
	}
	if p.Temperature == 0 {
		p.Temperature = 0.1
	}
	if p.Timeout == 0 {
		p.Timeout = 30 * time.Second
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	if cfg.Store.Engine != "files" && cfg.Store.Engine != "sqlite" {
		return fmt.Errorf("store.engine must be files or sqlite, got %q", cfg.Store.Engine)
	}
	if cfg.Retention < time.Minute {
		return fmt.Errorf("retention must be at least 1 minute")
	}
	if cfg.Fetch.Retries < 1 {
		return fmt.Errorf("fetch.retries must be at least 1")
	}
	if cfg.Fetch.Workers < 1 {
		return fmt.Errorf("fetch.workers must be at least 1")
	}
	if cfg.Classifier.Pause < 0 {
		return fmt.Errorf("classifier.pause must be non-negative")
	}

	for name, p := range map[string]ProviderConfig{"openai": cfg.Classifier.OpenAI, "claude": cfg.Classifier.Claude} {
		if p.Temperature < 0 || p.Temperature > 2 {
			return fmt.Errorf("classifier.%s.temperature must be between 0 and 2", name)
		}
		if p.MaxTokens < 1 {
			return fmt.Errorf("classifier.%s.max_tokens must be at least 1", name)
		}
	}

	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MaxChars < 0 {
			return fmt.Errorf("extraction max_chars must be non-negative")
		}
	}

	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}
