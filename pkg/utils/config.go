package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Payment  PaymentConfig
	Booking  BookingConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type PaymentConfig struct {
	BaseURL     string
	APIKey      string
	ShortCode   string
	Passkey     string
	CallbackURL string
	Timeout     time.Duration
}

type BookingConfig struct {
	// AdmissionRetries is how many times an admission attempt is retried
	// after losing a concurrent reserve before reporting the event as full.
	AdmissionRetries    int
	DefaultMaxGroupSize int
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("PAYMENT_TIMEOUT_SECONDS", 30)
	viper.SetDefault("ADMISSION_RETRIES", 1)
	viper.SetDefault("DEFAULT_MAX_GROUP_SIZE", 10)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Payment: PaymentConfig{
			BaseURL:     viper.GetString("PAYMENT_BASE_URL"),
			APIKey:      viper.GetString("PAYMENT_API_KEY"),
			ShortCode:   viper.GetString("PAYMENT_SHORT_CODE"),
			Passkey:     viper.GetString("PAYMENT_PASSKEY"),
			CallbackURL: viper.GetString("PAYMENT_CALLBACK_URL"),
			Timeout:     time.Duration(viper.GetInt("PAYMENT_TIMEOUT_SECONDS")) * time.Second,
		},
		Booking: BookingConfig{
			AdmissionRetries:    viper.GetInt("ADMISSION_RETRIES"),
			DefaultMaxGroupSize: viper.GetInt("DEFAULT_MAX_GROUP_SIZE"),
		},
	}

	return config, nil
}
