package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	// DefaultSessionFee is a decimal SMP string, e.g. "20" or "0.5".
	DefaultSessionFee string `env:"DEFAULT_SESSION_FEE" envDefault:"20"`

	SessionSchedulerEnabled bool   `env:"SESSION_SCHEDULER_ENABLED" envDefault:"true"`
	SessionCron             string `env:"SESSION_CRON" envDefault:"0 0 * * *"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
