// Package config предоставляет структуры и функции для парсинга и загрузки конфига
// веб-слоя FitFlow.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING"`
	MigrationsPath          string `yaml:"migrations_path" env-default:"./migrations"`
	GRPCHealthAddress       string `yaml:"grpc_health_address" env-default:":50051"`
	HTTPServer              `yaml:"http_server"`
	UpstreamAPI             `yaml:"upstream_api"`
	RedisConnection         `yaml:"redis_connection"`
	Session                 `yaml:"session"`
	RabbitMQ                `yaml:"rabbitmq"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// UpstreamAPI настройки клиента REST API FitFlow.
type UpstreamAPI struct {
	BaseURL         string        `yaml:"base_url" env:"FITFLOW_API_URL" env-default:"http://localhost:8000"`
	TimeoutUpstream time.Duration `yaml:"timeout" env-default:"10s"`
	// ConsistencySchedule моменты повторного чтения статуса плана, отсчитанные от записи.
	ConsistencySchedule []time.Duration `yaml:"consistency_schedule" env-default:"0s,500ms,1s"`
	HealthInterval      time.Duration   `yaml:"health_interval" env-default:"30s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	TimeoutRedis time.Duration `yaml:"timeoutredis"`
}

// Session настройки пользовательских сессий.
type Session struct {
	SessionTTL time.Duration `yaml:"ttl" env-default:"24h"`
	CookieName string        `yaml:"cookie_name" env-default:"fitflow_session"`
}

// RabbitMQ настройки публикации событий. Пустой URL отключает публикацию.
type RabbitMQ struct {
	URL        string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange   string        `yaml:"exchange" env-default:"fitflow"`
	RoutingKey string        `yaml:"routing_key" env-default:"foodlog.submitted"`
	Retries    int           `yaml:"retries" env-default:"5"`
	RetryDelay time.Duration `yaml:"retry_delay" env-default:"2s"`
}

// RateLimit параметры ограничения частоты запросов.
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"10"`
	Burst int     `yaml:"burst" env-default:"20"`
}

// Load читает конфиг из файла по пути path.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	if path == "" {
		return nil, fmt.Errorf("%s: config path is empty", op)
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс при ошибке.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"Storage: %t\n"+
			"HTTPServer:\n"+
			"  Address: %s\n"+
			"  Timeout: %s\n"+
			"  IdleTimeout: %s\n"+
			"UpstreamAPI:\n"+
			"  BaseURL: %s\n"+
			"  Timeout: %s\n"+
			"  ConsistencySchedule: %v\n"+
			"Redis:\n"+
			"  Addr: %s\n"+
			"  DB: %d\n"+
			"Session:\n"+
			"  TTL: %s\n"+
			"RabbitMQ: %t\n",
		c.Env,
		c.StorageConnectionString != "",
		c.AddressHTTP,
		c.TimeoutHTTP,
		c.IdleTimeout,
		c.BaseURL,
		c.TimeoutUpstream,
		c.ConsistencySchedule,
		c.AddressRedis,
		c.DB,
		c.SessionTTL,
		c.RabbitMQ.URL != "",
	)
}
