package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the auth service configuration, parsed from environment
// variables. All secrets are injected here at startup; flow logic never reads
// ambient process state.
type Config struct {
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	ServerHost  string `env:"SERVER_HOST"  envDefault:"0.0.0.0"`
	ServerPort  int    `env:"SERVER_PORT"  envDefault:"8000"`
	FrontendURL string `env:"FRONTEND_URL"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"member_auth"`

	Token  TokenConfig  `envPrefix:"TOKEN_"`
	Google GoogleConfig `envPrefix:"GOOGLE_"`
	Consul ConsulConfig `envPrefix:"CONSUL_"`
}

// TokenConfig configures session-token signing.
type TokenConfig struct {
	Secret    string        `env:"SECRET"`
	ExpiresIn time.Duration `env:"EXPIRES_IN" envDefault:"168h"`
	Issuer    string        `env:"ISSUER"     envDefault:"member-auth-api"`
}

// GoogleConfig configures the Google OAuth provider.
type GoogleConfig struct {
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"`
}

// ConsulConfig configures service registration.
type ConsulConfig struct {
	Address     string `env:"ADDRESS"      envDefault:"127.0.0.1:8500"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"member-auth-api"`
}

// New creates a Config instance from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate service configuration")
	}

	return &cfg
}

// validate checks if the service configuration is valid.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.Secret == "" {
		return fmt.Errorf("missing TOKEN_SECRET environment variable")
	}
	if c.FrontendURL == "" {
		return fmt.Errorf("missing FRONTEND_URL environment variable")
	}
	if c.Google.ClientID == "" {
		return fmt.Errorf("missing GOOGLE_CLIENT_ID environment variable")
	}
	if c.Google.ClientSecret == "" {
		return fmt.Errorf("missing GOOGLE_CLIENT_SECRET environment variable")
	}
	if c.Google.RedirectURL == "" {
		return fmt.Errorf("missing GOOGLE_REDIRECT_URL environment variable")
	}

	return nil
}
