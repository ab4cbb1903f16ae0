package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAPIURL is used when neither config nor onboarding names an API.
const DefaultAPIURL = "http://localhost:3000"

// Config holds the resolved application configuration.
type Config struct {
	DBPath            string        `mapstructure:"db"`
	APIURL            string        `mapstructure:"api_url"`
	PageSize          int           `mapstructure:"page_size"`
	LookaheadRows     int           `mapstructure:"lookahead_rows"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	LogLevel          string        `mapstructure:"log_level"`
	LogFile           string        `mapstructure:"log_file"`
	ConflictScope     string        `mapstructure:"conflict_scope"`
	Demo              bool          `mapstructure:"demo"`
	DemoAddr          string        `mapstructure:"demo_addr"`

	ConfigDir   string `mapstructure:"-"`
	ShowVersion bool   `mapstructure:"-"`
}

// ParseFlags parses command-line flags, .env files, TESOURA_* environment
// variables and config.yaml, in increasing order of precedence for flags.
func ParseFlags() (*Config, error) {
	// .env values never override variables already set.
	for _, f := range []string{".env", ".env.local"} {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	fs := flag.NewFlagSet("tesoura", flag.ContinueOnError)
	dbPath := fs.String("db", "", "Path to SQLite database file (default: ~/.tesoura/tesoura.db)")
	apiURL := fs.String("api", "", "Base URL of the barbershop API (or set TESOURA_API_URL)")
	demo := fs.Bool("demo", false, "Run against a built-in demo API")
	logLevel := fs.String("log-level", "", "Log level: debug, info, warn, error")
	scope := fs.String("conflict-scope", "", "Local scheduler conflict scope: global or date")
	showVersion := fs.Bool("version", false, "Print version and exit")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	configDir, err := resolveConfigDir(*dbPath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, configDir)
	v.SetEnvPrefix("TESOURA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Explicit flags win over every other source.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "db":
			v.Set("db", *dbPath)
		case "api":
			v.Set("api_url", *apiURL)
		case "demo":
			v.Set("demo", *demo)
		case "log-level":
			v.Set("log_level", *logLevel)
		case "conflict-scope":
			v.Set("conflict_scope", *scope)
		}
	})

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	config.ConfigDir = configDir
	config.ShowVersion = *showVersion
	if config.ShowVersion {
		return config, nil
	}

	settings, err := loadOnboardingSettings(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}

	if config.APIURL == "" && !config.Demo && shouldRunOnboarding(settings) {
		settings, err = runOnboarding(configDir, settings)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	if config.APIURL == "" {
		config.APIURL = settings.APIURL
		if settings.Demo {
			config.Demo = true
		}
	}
	if config.APIURL == "" && !config.Demo {
		config.APIURL = DefaultAPIURL
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func resolveConfigDir(dbPath string) (string, error) {
	if dbPath != "" {
		return filepath.Dir(dbPath), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir := filepath.Join(home, ".tesoura")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	v.SetDefault("db", filepath.Join(configDir, "tesoura.db"))
	v.SetDefault("api_url", "")
	v.SetDefault("page_size", 5)
	v.SetDefault("lookahead_rows", 4)
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("requests_per_second", 10)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", filepath.Join(configDir, "tesoura.log"))
	v.SetDefault("conflict_scope", "global")
	v.SetDefault("demo", false)
	v.SetDefault("demo_addr", "127.0.0.1:0")
}

func (c *Config) validate() error {
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	if c.LookaheadRows < 0 {
		return fmt.Errorf("lookahead_rows must not be negative, got %d", c.LookaheadRows)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %s", c.RequestTimeout)
	}
	if !c.Demo {
		if err := validateAPIURL(c.APIURL); err != nil {
			return err
		}
	}
	return nil
}
