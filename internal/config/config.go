package config

import (
	"errors"
	"fmt"
	"net"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageRedis    = "redis"
	StoragePostgres = "postgres"
)

var ErrUnknownStorage = errors.New("unknown storage")

type Config struct {
	LogLevel string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Storage  string   `yaml:"storage" env:"STORAGE" env-default:"redis"`
	Redis    Redis    `yaml:"redis"`
	Postgres Postgres `yaml:"postgres"`
	Metrics  Metrics  `yaml:"metrics"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Postgres struct {
	DSN          string `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxOpenConns int    `yaml:"max-open-conns" env:"POSTGRES_MAX_OPEN_CONNS" env-default:"10"`
	MaxIdleConns int    `yaml:"max-idle-conns" env:"POSTGRES_MAX_IDLE_CONNS" env-default:"5"`
}

type Metrics struct {
	Namespace string `yaml:"namespace" env:"METRICS_NAMESPACE" env-default:"droptoken"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads the yaml file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch that.Storage {
	case StorageRedis, StoragePostgres:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}
}

func (that *Redis) GetRedisAddr() string {
	return net.JoinHostPort(that.Host, that.Port)
}
