package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration (price change feed)
	RedisAddr            string
	RedisDB              int
	RedisStream          string
	RedisStreamCount     int
	RedisStreamMaxLength int
	FeedEnabled          bool

	// Memcache configuration (fetch block cache)
	MemcacheAddr string

	// Headless browser endpoint (ws:// devtools URL; empty = local chrome)
	ChromeWSURL string

	// Scrape behavior
	Concurrency     int
	RequestDelay    time.Duration
	MaxPages        int
	StaleAfter      time.Duration
	ScrapeSchedule  string
	SweepSchedule   string
	MetricsAddr     string

	// Base URLs for the retailer chains
	SuperLiquorURL   string
	LiquorlandURL    string
	BigBarrelURL     string
	BlackBullURL     string
	ThirstyLiquorURL string
	GlengarryURL     string
	LiquorCentreURL  string
	BottleOURL       string
	WhiskyGaloreURL  string
	VinoFinoURL      string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() *Config {
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	streamCount, _ := strconv.Atoi(getEnv("REDIS_STREAM_COUNT", "1"))
	streamMaxLen, _ := strconv.Atoi(getEnv("REDIS_STREAM_MAX_LENGTH", "1000"))
	concurrency, _ := strconv.Atoi(getEnv("SCRAPE_CONCURRENCY", "3"))
	delayMs, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "1500"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES", "50"))
	staleDays, _ := strconv.Atoi(getEnv("STALE_AFTER_DAYS", "7"))

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "liquorfy"),
		DBPassword: getEnv("DB_PASSWORD", "liquorfy"),
		DBName:     getEnv("DB_NAME", "liquorfy"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              redisDB,
		RedisStream:          getEnv("REDIS_STREAM", "pricechanges"),
		RedisStreamCount:     streamCount,
		RedisStreamMaxLength: streamMaxLen,
		FeedEnabled:          getEnv("FEED_ENABLED", "true") == "true",

		MemcacheAddr: getEnv("MEMCACHE_ADDR", "localhost:11211"),

		ChromeWSURL: getEnv("CHROME_WS_URL", ""),

		Concurrency:    concurrency,
		RequestDelay:   time.Duration(delayMs) * time.Millisecond,
		MaxPages:       maxPages,
		StaleAfter:     time.Duration(staleDays) * 24 * time.Hour,
		ScrapeSchedule: getEnv("SCRAPE_SCHEDULE", "0 3 * * *"),
		SweepSchedule:  getEnv("SWEEP_SCHEDULE", "0 * * * *"),
		MetricsAddr:    getEnv("METRICS_ADDR", ":9187"),

		SuperLiquorURL:   getEnv("SUPERLIQUOR_URL", "https://www.superliquor.co.nz"),
		LiquorlandURL:    getEnv("LIQUORLAND_URL", "https://www.liquorland.co.nz"),
		BigBarrelURL:     getEnv("BIGBARREL_URL", "https://www.bigbarrel.co.nz"),
		BlackBullURL:     getEnv("BLACKBULL_URL", "https://www.blackbullliquor.co.nz"),
		ThirstyLiquorURL: getEnv("THIRSTYLIQUOR_URL", "https://www.thirstyliquor.co.nz"),
		GlengarryURL:     getEnv("GLENGARRY_URL", "https://www.glengarrywines.co.nz"),
		LiquorCentreURL:  getEnv("LIQUORCENTRE_URL", "https://www.liquorcentre.co.nz"),
		BottleOURL:       getEnv("BOTTLEO_URL", "https://www.thebottleo.co.nz"),
		WhiskyGaloreURL:  getEnv("WHISKYGALORE_URL", "https://www.whiskygalore.co.nz"),
		VinoFinoURL:      getEnv("VINOFINO_URL", "https://www.vinofino.co.nz"),

		Environment: getEnv("LIQUORFY_ENVIRONMENT", "development"),
	}
}

// GetDSN composes the postgres connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("SCRAPE_CONCURRENCY must be at least 1, got %d", c.Concurrency)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1, got %d", c.MaxPages)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("REQUEST_DELAY_MS must not be negative")
	}
	if c.RedisStreamCount < 1 {
		return fmt.Errorf("REDIS_STREAM_COUNT must be at least 1, got %d", c.RedisStreamCount)
	}
	if c.DBName == "" {
		return fmt.Errorf("DB_NAME must not be empty")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
