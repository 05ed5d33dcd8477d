package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukerupert/labelbot/internal/shipping"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string
	LogLevel string
	Port     uint16
	Slack    SlackConfig
	Shipping ShippingConfig
	UsageLog UsageLogConfig
	Storage  StorageConfig
	Sentry   SentryConfig

	// Defaults fill in addresses and parcel fields the user leaves blank.
	Defaults shipping.Defaults

	// FlatRates are the quotes offered when Shipping.Provider is "flatrate".
	FlatRates []shipping.FlatRate
}

// SlackConfig holds the bot credentials and the slash command names it answers.
type SlackConfig struct {
	BotToken      string
	SigningSecret string

	// ReturnLabelCommand starts the label workflow (e.g. "/returnlabel").
	ReturnLabelCommand string

	// ParseAddressCommand replies with the parsed fields of its text (e.g. "/parseaddress").
	ParseAddressCommand string
}

// ShippingConfig selects and configures the rate/label provider.
type ShippingConfig struct {
	Provider       string // "easypost" or "flatrate"
	EasyPostAPIKey string
	Country        string

	// VerifyAddresses checks deliverability with EasyPost before rating.
	// Only used with the easypost provider.
	VerifyAddresses bool

	// DefaultsFile is an optional YAML file overlaying the env defaults.
	DefaultsFile string

	// LabelTimeout bounds the label document download.
	LabelTimeout time.Duration

	// MaxLabelBytes caps the size of a downloaded label document.
	MaxLabelBytes int64
}

// UsageLogConfig configures the command usage log file.
type UsageLogConfig struct {
	Path  string
	Limit int
}

// SentryConfig holds configuration for Sentry error tracking
type SentryConfig struct {
	DSN              string
	Enabled          bool
	Environment      string
	Release          string
	SampleRate       float64
	TracesSampleRate float64
	Debug            bool
}

type StorageConfig struct {
	Provider      string // "local", "r2" or "none"
	LocalPath     string
	LocalURL      string
	R2AccountID   string
	R2AccessKeyID string
	R2SecretKey   string
	R2BucketName  string
	R2PublicURL   string
	R2Endpoint    string
}

func NewConfig() (*Config, error) {
	// Try to load .env from current directory, then walk up to find it (max 2 levels)
	err := godotenv.Load()
	if err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	cfg := &Config{
		Env:      getEnv("ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Port:     getEnvInt("PORT", 3000),
		Slack: SlackConfig{
			BotToken:            getEnv("SLACK_BOT_TOKEN", ""),
			SigningSecret:       getEnv("SLACK_SIGNING_SECRET", ""),
			ReturnLabelCommand:  getEnv("SLACK_RETURN_LABEL_COMMAND", "/returnlabel"),
			ParseAddressCommand: getEnv("SLACK_PARSE_ADDRESS_COMMAND", "/parseaddress"),
		},
		Shipping: ShippingConfig{
			Provider:        getEnv("SHIPPING_PROVIDER", "easypost"),
			EasyPostAPIKey:  getEnv("EASYPOST_API_KEY", ""),
			Country:         getEnv("SHIPPING_COUNTRY", "US"),
			VerifyAddresses: getEnvBool("EASYPOST_VERIFY_ADDRESSES", true),
			DefaultsFile:    getEnv("SHIPPING_DEFAULTS_FILE", ""),
			LabelTimeout:    getEnvDuration("LABEL_DOWNLOAD_TIMEOUT", 30*time.Second),
			MaxLabelBytes:   int64(getEnvInt("LABEL_MAX_KB", 5120)) * 1024,
		},
		UsageLog: UsageLogConfig{
			Path:  getEnv("USAGE_LOG_PATH", "./data/usage.json"),
			Limit: int(getEnvInt("USAGE_LOG_LIMIT", 1000)),
		},
		Storage: StorageConfig{
			Provider:      getEnv("STORAGE_PROVIDER", "local"),
			LocalPath:     getEnv("LOCAL_STORAGE_PATH", "./data/labels"),
			LocalURL:      getEnv("LOCAL_STORAGE_URL", "/labels"),
			R2AccountID:   getEnv("R2_ACCOUNT_ID", ""),
			R2AccessKeyID: getEnv("R2_ACCESS_KEY_ID", ""),
			R2SecretKey:   getEnv("R2_SECRET_ACCESS_KEY", ""),
			R2BucketName:  getEnv("R2_BUCKET_NAME", ""),
			R2PublicURL:   getEnv("R2_PUBLIC_URL", ""),
			R2Endpoint:    getEnv("R2_ENDPOINT", ""),
		},
		Sentry: SentryConfig{
			DSN:              getEnv("SENTRY_DSN", ""),
			Enabled:          getEnvBool("SENTRY_ENABLED", false), // Disabled by default for development
			Environment:      getEnv("SENTRY_ENVIRONMENT", "development"),
			Release:          getEnv("SENTRY_RELEASE", ""),
			SampleRate:       getEnvFloat("SENTRY_SAMPLE_RATE", 1.0),
			TracesSampleRate: getEnvFloat("SENTRY_TRACES_SAMPLE_RATE", 0.0),
			Debug:            getEnvBool("SENTRY_DEBUG", false),
		},
		Defaults:  envDefaults(),
		FlatRates: defaultFlatRates(),
	}

	// Validate env
	validEnv := cfg.Env == "dev" || cfg.Env == "prod"
	if !validEnv {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	// Validate log level
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	if cfg.UsageLog.Limit <= 0 {
		cfg.UsageLog.Limit = 1000
	}

	if cfg.Shipping.DefaultsFile != "" {
		if err := cfg.LoadDefaultsFile(cfg.Shipping.DefaultsFile); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that must be present for the bot to serve requests.
// Missing Slack credentials are tolerated in dev so the CLI can run offline.
func (c *Config) Validate() error {
	switch c.Shipping.Provider {
	case "easypost":
		if c.Env == "prod" && c.Shipping.EasyPostAPIKey == "" {
			return fmt.Errorf("EASYPOST_API_KEY required when SHIPPING_PROVIDER=easypost in production")
		}
	case "flatrate":
	default:
		return fmt.Errorf("unknown SHIPPING_PROVIDER %q (want easypost or flatrate)", c.Shipping.Provider)
	}

	if c.Env == "prod" {
		if c.Slack.BotToken == "" {
			return fmt.Errorf("SLACK_BOT_TOKEN must be set in production environment")
		}
		if c.Slack.SigningSecret == "" {
			return fmt.Errorf("SLACK_SIGNING_SECRET must be set in production environment")
		}
	}

	for _, cmd := range []string{c.Slack.ReturnLabelCommand, c.Slack.ParseAddressCommand} {
		if !strings.HasPrefix(cmd, "/") {
			return fmt.Errorf("slash command %q must start with /", cmd)
		}
	}

	// Validate R2 configuration in production
	if c.Env == "prod" && c.Storage.Provider == "r2" {
		if c.Storage.R2AccountID == "" {
			return fmt.Errorf("R2_ACCOUNT_ID required when using R2 storage in production")
		}
		if c.Storage.R2AccessKeyID == "" || c.Storage.R2SecretKey == "" {
			return fmt.Errorf("R2 credentials required when using R2 storage in production")
		}
		if c.Storage.R2BucketName == "" {
			return fmt.Errorf("R2_BUCKET_NAME required when using R2 storage in production")
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue uint16) uint16 {
	if value := os.Getenv(key); value != "" {
		var intValue uint16
		if _, err := fmt.Sscanf(value, "%d", &intValue); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var floatValue float64
		if _, err := fmt.Sscanf(value, "%f", &floatValue); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
