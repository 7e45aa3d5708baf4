package config

import (
	"os"
	"strconv"
	"time"

	"claimsql/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Warehouse   WarehouseConfig
	Bookkeeping BookkeepingConfig
	AI          AIConfig
	Server      ServerConfig
	Paths       PathConfig
	Pipeline    PipelineConfig
}

// WarehouseConfig holds claims-warehouse connection settings
type WarehouseConfig struct {
	URL string
}

// BookkeepingConfig holds the session/usage database settings. Bookkeeping is
// optional: an empty URL disables it.
type BookkeepingConfig struct {
	URL string
}

// AIConfig holds LLM related settings
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Seed        int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds file system paths for rule/lookup configuration and the
// report export directory.
type PathConfig struct {
	TablesConfig     string
	LookupConfig     string
	ReplacementsFile string
	ExportDir        string
	ExportFormat     string
}

// PipelineConfig holds per-run tunables
type PipelineConfig struct {
	RetrieveK      int
	RowCap         int
	PollInterval   time.Duration
	ExecuteTimeout time.Duration
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Warehouse: WarehouseConfig{
			URL: os.Getenv("WAREHOUSE_URL"),
		},
		Bookkeeping: BookkeepingConfig{
			URL: os.Getenv("BOOKKEEPING_URL"),
		},
		AI: AIConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-0513"),
			MaxTokens:   getEnvInt("OPENAI_MAX_TOKENS", 4096),
			Temperature: 0,
			Seed:        getEnvInt("OPENAI_SEED", 42),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Paths: PathConfig{
			TablesConfig:     getEnv("TABLES_CONFIG", "config/tables.yaml"),
			LookupConfig:     getEnv("LOOKUP_CONFIG", "config/lookup.yaml"),
			ReplacementsFile: getEnv("REPLACEMENTS_FILE", "config/replacements.yaml"),
			ExportDir:        getEnv("EXPORT_DIR", "reports"),
			ExportFormat:     getEnv("EXPORT_FORMAT", "csv"),
		},
		Pipeline: PipelineConfig{
			RetrieveK:      getEnvInt("RETRIEVE_K", 50),
			RowCap:         getEnvInt("ROW_CAP", 200000),
			PollInterval:   getEnvDuration("POLL_INTERVAL", 10*time.Second),
			ExecuteTimeout: getEnvDuration("EXECUTE_TIMEOUT", 30*time.Minute),
		},
	}

	if err := validate(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validate(c *Config) error {
	if c.Warehouse.URL == "" {
		return errors.ConfigError("WAREHOUSE_URL is required")
	}
	if c.AI.APIKey == "" {
		return errors.ConfigError("OPENAI_API_KEY is required")
	}
	if c.Pipeline.RowCap <= 0 {
		return errors.ConfigError("ROW_CAP must be positive")
	}
	if c.Pipeline.PollInterval <= 0 {
		return errors.ConfigError("POLL_INTERVAL must be positive")
	}
	if c.Pipeline.ExecuteTimeout <= 0 {
		return errors.ConfigError("EXECUTE_TIMEOUT must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
