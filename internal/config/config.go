package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	ServerAddr    string

	// ReminderScanInterval controls how often the reminder scheduler
	// checks for due reminders.
	ReminderScanInterval time.Duration
}

func Load() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "clearday")
	v.SetDefault("DB_PASSWORD", "clearday")
	v.SetDefault("DB_NAME", "clearday")
	v.SetDefault("REDIS_HOST", "")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_SECRET", "default-secret-key-change-me")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_ADDR", ":8080")
	v.SetDefault("REMINDER_SCAN_INTERVAL", "1m")

	interval := v.GetDuration("REMINDER_SCAN_INTERVAL")
	if interval <= 0 {
		interval = time.Minute
	}

	return &Config{
		DBDriver:             v.GetString("DB_DRIVER"),
		DBHost:               v.GetString("DB_HOST"),
		DBPort:               v.GetString("DB_PORT"),
		DBUser:               v.GetString("DB_USER"),
		DBPassword:           v.GetString("DB_PASSWORD"),
		DBName:               v.GetString("DB_NAME"),
		RedisHost:            v.GetString("REDIS_HOST"),
		RedisPort:            v.GetString("REDIS_PORT"),
		SessionSecret:        v.GetString("SESSION_SECRET"),
		GinMode:              v.GetString("GIN_MODE"),
		ServerAddr:           v.GetString("SERVER_ADDR"),
		ReminderScanInterval: interval,
	}
}
