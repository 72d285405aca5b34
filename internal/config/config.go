// Package config loads application configuration from the environment.
// A .env file in the working directory, when present, is read first;
// variables already set in the process environment win over it.
package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.
type Config struct {
	Env            string // application environment (dev, test, prod)
	Port           string // HTTP port to listen on
	LogLevel       string // echo logger level: DEBUG, INFO, WARN, ERROR, OFF
	DBUser         string
	DBPass         string // empty allowed
	DBHost         string
	DBPort         string
	DBName         string
	JWTSecret      string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
	AMQPURL        string // RabbitMQ; empty disables order events
	OrderQueue     string
	OrderLogPath   string // where the consumer appends order events
	Redis          RedisConfig
	RateLimit      RateLimitConfig
	Cache          CacheConfig
}

// Load reads configuration values and returns a Config.  Missing
// required variables terminate the process.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config: .env ignored: %v", err)
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		LogLevel:       envStr("LOG_LEVEL", "INFO"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		AMQPURL:        amqpURL(),
		OrderQueue:     envStr("ORDER_QUEUE", "order.created"),
		OrderLogPath:   envStr("ORDER_LOG_PATH", "logs/orders.log"),
		Redis:          LoadRedisConfig(),
		RateLimit:      LoadRateLimitConfig(),
		Cache:          LoadCacheConfig(),
	}
}

func amqpURL() string {
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		return v
	}
	return os.Getenv("AMQP_URL")
}

// must retrieves the value of a required environment variable.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an int.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
