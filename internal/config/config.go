package config

import (
	"fmt"
	"os"
	"strconv"

	"lstbot/internal/domain"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	BotToken             string
	Database             DatabaseConfig
	Clips                ClipsConfig
	DefaultLanguage      domain.Language
	MaxSequenceLength    int
	HistoryRetentionDays int
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

// ClipsConfig locates sign assets
type ClipsConfig struct {
	Dir      string // CLIPS_DIR, root of every clip file
	Manifest string // CATALOG_MANIFEST, optional animation manifest
	IdleClip string // IDLE_CLIP, optional clip sent when a sequence ends
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	// Validate required fields
	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	db, err := LoadDatabase()
	if err != nil {
		return nil, err
	}

	lang, err := domain.ParseLanguage(getEnv("DEFAULT_LANGUAGE", string(domain.PivotLanguage)))
	if err != nil {
		return nil, fmt.Errorf("DEFAULT_LANGUAGE: %w", err)
	}
	maxLen, err := getEnvInt("MAX_SEQUENCE_LENGTH", 50)
	if err != nil {
		return nil, err
	}
	retention, err := getEnvInt("HISTORY_RETENTION_DAYS", 60)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BotToken: botToken,
		Database: *db,
		Clips: ClipsConfig{
			Dir:      getEnv("CLIPS_DIR", "clips"),
			Manifest: os.Getenv("CATALOG_MANIFEST"),
			IdleClip: os.Getenv("IDLE_CLIP"),
		},
		DefaultLanguage:      lang,
		MaxSequenceLength:    maxLen,
		HistoryRetentionDays: retention,
	}

	return cfg, nil
}

// LoadDatabase reads only the database settings
func LoadDatabase() (*DatabaseConfig, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	db := &DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		Name:     getEnv("DB_NAME", "lstbot"),
		User:     getEnv("DB_USER", "lstbot"),
		Password: os.Getenv("DB_PASSWORD"),
	}
	if db.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required")
	}

	return db, nil
}

// DSN returns PostgreSQL connection string
func (c *Config) DSN() string {
	return c.Database.DSN()
}

// DSN returns PostgreSQL connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, value)
	}
	return n, nil
}
