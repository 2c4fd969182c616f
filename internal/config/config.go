package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken string
	AdminIDs []int64
	Database DatabaseConfig
	Study    StudyConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// StudyConfig holds study loop tuning
type StudyConfig struct {
	PageSize          int
	StorageTimeout    time.Duration
	DefaultLanguageID int64
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	cfg := &Config{
		BotToken: os.Getenv("BOT_TOKEN"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "vocabbot"),
			User:     getEnv("DB_USER", "vocabbot"),
			Password: os.Getenv("DB_PASSWORD"),
		},
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	adminIDs, err := parseAdminIDs(os.Getenv("ADMIN_IDS"))
	if err != nil {
		return nil, err
	}
	cfg.AdminIDs = adminIDs

	pageSize, err := strconv.Atoi(getEnv("STUDY_PAGE_SIZE", "10"))
	if err != nil || pageSize < 1 {
		return nil, fmt.Errorf("STUDY_PAGE_SIZE must be a positive integer")
	}
	cfg.Study.PageSize = pageSize

	timeout, err := time.ParseDuration(getEnv("STORAGE_TIMEOUT", "5s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("STORAGE_TIMEOUT must be a positive duration")
	}
	cfg.Study.StorageTimeout = timeout

	langID, err := strconv.ParseInt(getEnv("DEFAULT_LANGUAGE_ID", "1"), 10, 64)
	if err != nil || langID < 1 {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE_ID must be a positive integer")
	}
	cfg.Study.DefaultLanguageID = langID

	return cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
	)
}

// parseAdminIDs parses a comma-separated list of Telegram user ids
func parseAdminIDs(raw string) ([]int64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_IDS contains invalid id %q", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
