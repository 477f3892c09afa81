package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all settings for the trading bot. It is built once at
// startup and passed by reference; nothing reads the environment after Load.
type Config struct {
	Port string

	// Binance USDT-M futures
	BinanceAPIKey    string
	BinanceAPISecret string
	BinanceTestnet   bool

	// OpenAI
	OpenAIAPIKey string
	OpenAIModel  string

	// Order log
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int

	// Symbols pushed on the websocket stream when the client does not ask
	// for a specific one.
	Symbols []string

	// Strategy defaults
	DefaultTimeInForce string
}

// fileConfig is the optional YAML config file (non-secret settings only).
type fileConfig struct {
	Port          string   `yaml:"port"`
	Testnet       *bool    `yaml:"testnet"`
	LogFile       string   `yaml:"log_file"`
	LogMaxSizeMB  int      `yaml:"log_max_size_mb"`
	LogMaxBackups int      `yaml:"log_max_backups"`
	Symbols       []string `yaml:"symbols"`
	OpenAIModel   string   `yaml:"openai_model"`
	TimeInForce   string   `yaml:"time_in_force"`
}

// Load reads environment variables (optionally via .env) and the optional
// YAML config file into Config. It returns an error when a required secret
// is missing so the process fails at startup, not at the first order.
func Load() (*Config, error) {
	// Ignore error so the app still starts when .env is missing.
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnv("PORT", "8080"),
		BinanceAPIKey:      os.Getenv("BINANCE_API_KEY"),
		BinanceAPISecret:   os.Getenv("BINANCE_API_SECRET"),
		BinanceTestnet:     getEnv("BINANCE_TESTNET", "true") == "true",
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		LogFile:            getEnv("LOG_FILE", "bot.log"),
		LogMaxSizeMB:       getEnvInt("LOG_MAX_SIZE_MB", 5),
		LogMaxBackups:      getEnvInt("LOG_MAX_BACKUPS", 5),
		Symbols:            splitAndTrim(getEnv("SYMBOLS", "BTCUSDT,ETHUSDT")),
		DefaultTimeInForce: getEnv("TIME_IN_FORCE", "GTC"),
	}

	if path := getEnv("CONFIG_FILE", "config.yaml"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFile overlays settings from a YAML file. Values already set through
// the environment win; a missing file is not an error.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	if os.Getenv("PORT") == "" && file.Port != "" {
		c.Port = file.Port
	}
	if os.Getenv("BINANCE_TESTNET") == "" && file.Testnet != nil {
		c.BinanceTestnet = *file.Testnet
	}
	if os.Getenv("LOG_FILE") == "" && file.LogFile != "" {
		c.LogFile = file.LogFile
	}
	if os.Getenv("LOG_MAX_SIZE_MB") == "" && file.LogMaxSizeMB > 0 {
		c.LogMaxSizeMB = file.LogMaxSizeMB
	}
	if os.Getenv("LOG_MAX_BACKUPS") == "" && file.LogMaxBackups > 0 {
		c.LogMaxBackups = file.LogMaxBackups
	}
	if os.Getenv("SYMBOLS") == "" && len(file.Symbols) > 0 {
		c.Symbols = file.Symbols
	}
	if os.Getenv("OPENAI_MODEL") == "" && file.OpenAIModel != "" {
		c.OpenAIModel = file.OpenAIModel
	}
	if os.Getenv("TIME_IN_FORCE") == "" && file.TimeInForce != "" {
		c.DefaultTimeInForce = file.TimeInForce
	}
	return nil
}

func (c *Config) validate() error {
	var missing []string
	if c.BinanceAPIKey == "" {
		missing = append(missing, "BINANCE_API_KEY")
	}
	if c.BinanceAPISecret == "" {
		missing = append(missing, "BINANCE_API_SECRET")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required secrets: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}
