package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "localhost:6379", config.RedisAddr)
	assert.Equal(t, 0, config.RedisDB)
	assert.Equal(t, 1, config.RedisStreamCount)
	assert.Equal(t, "localhost:11211", config.MemcacheAddr)
	assert.Equal(t, 3, config.Concurrency)
	assert.Equal(t, 1500*time.Millisecond, config.RequestDelay)
	assert.Equal(t, 50, config.MaxPages)
	assert.Equal(t, 7*24*time.Hour, config.StaleAfter)

	// Test with environment variables
	os.Setenv("REDIS_ADDR", "redis.example.com:6379")
	os.Setenv("REDIS_DB", "1")
	os.Setenv("DB_HOST", "db.example.com")
	os.Setenv("SCRAPE_CONCURRENCY", "5")
	os.Setenv("REQUEST_DELAY_MS", "250")
	os.Setenv("SUPERLIQUOR_URL", "https://example.com/superliquor")

	config = LoadConfig()
	assert.Equal(t, "redis.example.com:6379", config.RedisAddr)
	assert.Equal(t, 1, config.RedisDB)
	assert.Equal(t, "db.example.com", config.DBHost)
	assert.Equal(t, 5, config.Concurrency)
	assert.Equal(t, 250*time.Millisecond, config.RequestDelay)
	assert.Equal(t, "https://example.com/superliquor", config.SuperLiquorURL)

	// Clean up
	os.Unsetenv("REDIS_ADDR")
	os.Unsetenv("REDIS_DB")
	os.Unsetenv("DB_HOST")
	os.Unsetenv("SCRAPE_CONCURRENCY")
	os.Unsetenv("REQUEST_DELAY_MS")
	os.Unsetenv("SUPERLIQUOR_URL")
}

func TestGetDSN(t *testing.T) {
	config := LoadConfig()
	dsn := config.GetDSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "port=5432")
	assert.Contains(t, dsn, "dbname=liquorfy")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	config.Concurrency = 0
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.MaxPages = -1
	assert.Error(t, config.Validate())

	config = LoadConfig()
	config.RedisStreamCount = 0
	assert.Error(t, config.Validate())
}
