package cmd

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr        string
	RedisPassword    string
	CacheTTL         time.Duration
	CacheTagsEnabled bool

	Environment string

	CourierPriority []string
	CourierBaseURLs map[string]string

	PollSchedule    string
	PollBatchSize   int
	PollConcurrency int
	PollCallTimeout time.Duration

	RateLimitPerSecond float64
}

// Production reports whether the service runs in the production environment,
// which tightens the tenant override transport requirements.
func (c Config) Production() bool {
	return strings.EqualFold(c.Environment, "production")
}

// PostgresDSN assembles the gorm connection string from the DB settings.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}
