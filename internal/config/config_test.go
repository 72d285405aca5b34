package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	for k, v := range map[string]string{
		"APP_ENV": "test", "APP_PORT": "8080",
		"DB_USER": "app", "DB_HOST": "db", "DB_PORT": "3306", "DB_NAME": "airline",
		"JWT_SECRET": "x", "ACCESS_TOKEN_TTL_MIN": "15", "REFRESH_TOKEN_TTL_DAYS": "7", "BCRYPT_COST": "10",
	} {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://broker/")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, "amqp://broker/", cfg.AMQPURL)
	assert.Equal(t, "order.created", cfg.OrderQueue)
	assert.Equal(t, "logs/orders.log", cfg.OrderLogPath)
	assert.True(t, cfg.Cache.Methods["GET"])
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	setRequired(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_PORT=9999\nORDER_QUEUE=from-dotenv\n"), 0o600))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("ORDER_QUEUE", "")
	os.Unsetenv("ORDER_QUEUE")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "from-dotenv", cfg.OrderQueue)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	rl := LoadRateLimitConfig()
	assert.Equal(t, 1, rl.Capacity)
	assert.Equal(t, 10*time.Second, rl.TTL)
	assert.False(t, rl.Enabled)
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_TLS", "1")
	rc := LoadRedisConfig()
	assert.Equal(t, "cache:6380", rc.Addr)
	assert.True(t, rc.TLS)

	t.Setenv("REDIS_HOST", "r")
	t.Setenv("REDIS_PORT", "1")
	assert.Equal(t, "r:1", LoadRedisConfig().Addr)
}

func TestParseMethods(t *testing.T) {
	assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, parseMethods(" get, head ,"))
}
