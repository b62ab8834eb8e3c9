package config

import (
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"America/Sao_Paulo"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Database struct {
		DSN string `env:"DATABASE_DSN"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"lab_gateway:lab_gateway"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled  bool   `env:"RABBITMQ_ENABLED"`
		URL      string `env:"RABBITMQ_URL"`
		Exchange string `env:"RABBITMQ_EXCHANGE" envDefault:"clinic.events"`
		Queue    string `env:"RABBITMQ_QUEUE" envDefault:"lab-gateway.rotation"`
	}

	Connection struct {
		ClientTTL        time.Duration `env:"CONNECTION_CLIENT_TTL" envDefault:"30m"`
		TokenTTL         time.Duration `env:"CONNECTION_TOKEN_TTL" envDefault:"55m"`
		ClientCacheSize  int           `env:"CONNECTION_CLIENT_CACHE_SIZE" envDefault:"512"`
		FailureThreshold int           `env:"USAGE_FAILURE_THRESHOLD" envDefault:"5"`
	}

	// Process-wide fallback credentials, used when an operation runs
	// without a tenant.
	Labmax struct {
		Endpoint string `env:"LABMAX_ENDPOINT"`
		LabCode  string `env:"LABMAX_LAB_CODE"`
		Password string `env:"LABMAX_PASSWORD"`
	}

	Biocentro struct {
		Endpoint string `env:"BIOCENTRO_ENDPOINT"`
		Username string `env:"BIOCENTRO_USERNAME"`
		Password string `env:"BIOCENTRO_PASSWORD"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}

// ProcessDefaults returns the fallback key/value configuration for one
// template, assembled from the process environment.
func (c *Config) ProcessDefaults(templateSlug string) map[string]string {
	switch templateSlug {
	case "labmax":
		return map[string]string{
			"endpoint_url": c.Labmax.Endpoint,
			"lab_code":     c.Labmax.LabCode,
			"password":     c.Labmax.Password,
		}
	case "biocentro":
		return map[string]string{
			"endpoint_url": c.Biocentro.Endpoint,
			"username":     c.Biocentro.Username,
			"password":     c.Biocentro.Password,
		}
	}
	return map[string]string{}
}
