package config

import (
	"strings"

	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration is the full service configuration, loaded once at startup.
type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Seed       SeedConfig       `mapstructure:"seed"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	PayPal     PayPalConfig     `mapstructure:"paypal"`
}

type DeploymentConfig struct {
	Mode string `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

// SeedConfig controls whether the in-memory stores are seeded with the
// demo fixture data at startup.
type SeedConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StripeConfig holds Stripe API credentials. The integration is disabled
// until a secret key is configured.
type StripeConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	PublishableKey string `mapstructure:"publishable_key"`
	SecretKey      string `mapstructure:"secret_key"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	Currency       string `mapstructure:"currency"`
}

// PayPalConfig holds PayPal REST credentials. Sandbox is the default
// environment.
type PayPalConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	Environment  string `mapstructure:"environment"`
	Currency     string `mapstructure:"currency"`
}

// NewConfig loads configuration from config files and environment
// variables. Environment variables use the BILLFLOW_ prefix with dots
// replaced by underscores, e.g. BILLFLOW_SERVER_ADDRESS.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	// Load .env first so the env bindings below can see it.
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("billflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
		// No config file is fine; defaults and env vars apply.
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", "api")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("seed.enabled", true)
	v.SetDefault("stripe.currency", types.DefaultCurrency)
	v.SetDefault("paypal.environment", "sandbox")
	v.SetDefault("paypal.currency", "USD")
}

// Validate checks the loaded configuration.
func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return ierr.WithError(err).
			WithHint("Configuration is invalid").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// GetDefaultConfig returns a configuration suitable for tests and scripts.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: "local"},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Seed:       SeedConfig{Enabled: false},
		Stripe:     StripeConfig{Currency: types.DefaultCurrency},
		PayPal:     PayPalConfig{Environment: "sandbox", Currency: "USD"},
	}
}
