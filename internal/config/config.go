package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	AppEnv        string `mapstructure:"APP_ENV"`
	Port          string `mapstructure:"PORT"`
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	// Storage backend: "json" for the embedded single-file document store,
	// "database" for GORM over sqlite/postgres (chosen by DATABASE_URL).
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JSONDBPath     string `mapstructure:"JSON_DB_PATH"`
	RedisURL       string `mapstructure:"REDIS_URL"`

	ClickCounterEnabled bool   `mapstructure:"CLICK_COUNTER_ENABLED"`
	LoggingEnabled      bool   `mapstructure:"LOGGING_ENABLED"`
	LogRetentionDays    int    `mapstructure:"LOG_RETENTION_DAYS"`
	LogDir              string `mapstructure:"LOG_DIR"`

	SessionSecret string `mapstructure:"SESSION_SECRET"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

func LoadConfig() (config Config, err error) {
	viper.SetDefault("APP_ENV", "local")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("STORAGE_BACKEND", "json")
	viper.SetDefault("DATABASE_URL", "postgres://qr:qr@localhost:5432/qr_redirector?sslmode=disable")
	viper.SetDefault("JSON_DB_PATH", "./data/qr-data.json")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CLICK_COUNTER_ENABLED", false)
	viper.SetDefault("LOGGING_ENABLED", false)
	viper.SetDefault("LOG_RETENTION_DAYS", 30)
	viper.SetDefault("LOG_DIR", "./logs")
	viper.SetDefault("SESSION_SECRET", "change-me-in-production-0123456789ab")
	viper.SetDefault("ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("ADMIN_PASSWORD", "admin")

	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	if err != nil {
		log.Printf("unable to decode into struct, %v", err)
		return
	}

	return
}
