package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database DatabaseConfig
	Redis    RedisConfig
	Outbox   OutboxConfig
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// OutboxConfig 重送掃描的營運參數。重試上限是維運決策，不是領域規則，
// 所以放在設定而不是常數。
type OutboxConfig struct {
	MaxRetries    int
	SweepInterval time.Duration
	BatchSize     int
	Retention     time.Duration
}

var AppConfig *Config

func LoadConfig() *Config {
	AppConfig = &Config{
		Database: GetDatabaseConfig(),
		Redis:    GetRedisConfig(),
		Outbox:   GetOutboxConfig(),
	}

	return AppConfig
}

func LoadTestConfig() *Config {
	testConfig := &DatabaseConfig{
		Host:     "localhost",
		Port:     "5433", // 測試 DB 用 5433 port
		User:     "postgres",
		Password: "postgres",
		DBName:   "test_db",
		SSLMode:  "disable",
	}

	testRedisConfig := RedisConfig{
		Host:     "localhost",
		Port:     "6380", // 測試 Redis 用 6380 port
		Password: "",
		DB:       1,
	}

	return &Config{
		Database: *testConfig,
		Redis:    testRedisConfig,
		Outbox: OutboxConfig{
			MaxRetries:    3,
			SweepInterval: 100 * time.Millisecond,
			BatchSize:     10,
			Retention:     time.Hour,
		},
	}
}

func GetDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "postgres"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
}

func GetRedisConfig() RedisConfig {
	db, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		panic(err)
	}

	return RedisConfig{
		Host:     getEnv("REDIS_HOST", "localhost"),
		Port:     getEnv("REDIS_PORT", "6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       db,
	}
}

func GetOutboxConfig() OutboxConfig {
	maxRetries, err := strconv.Atoi(getEnv("OUTBOX_MAX_RETRIES", "3"))
	if err != nil {
		panic(err)
	}

	sweepInterval, err := time.ParseDuration(getEnv("OUTBOX_SWEEP_INTERVAL", "5s"))
	if err != nil {
		panic(err)
	}

	batchSize, err := strconv.Atoi(getEnv("OUTBOX_BATCH_SIZE", "50"))
	if err != nil {
		panic(err)
	}

	// 已發布事實的保留期限，過期由 sweep 清除
	retention, err := time.ParseDuration(getEnv("OUTBOX_RETENTION", "168h"))
	if err != nil {
		panic(err)
	}

	return OutboxConfig{
		MaxRetries:    maxRetries,
		SweepInterval: sweepInterval,
		BatchSize:     batchSize,
		Retention:     retention,
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
