package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Booking provider (Exely Channel Distribution API).
	ExelyBaseURL     string `mapstructure:"EXELY_BASE_URL"`
	ExelyAPIKey      string `mapstructure:"EXELY_API_KEY"`
	ExelyTimeoutSecs int    `mapstructure:"EXELY_TIMEOUT_SECS"`
	DefaultHotelCode string `mapstructure:"DEFAULT_HOTEL_CODE"`
	DefaultLanguage  string `mapstructure:"DEFAULT_LANGUAGE"`
	DefaultCurrency  string `mapstructure:"DEFAULT_CURRENCY"`

	// Reservation payment redirects and point of sale.
	SuccessURL        string `mapstructure:"SUCCESS_URL"`
	DeclineURL        string `mapstructure:"DECLINE_URL"`
	POSSourceURL      string `mapstructure:"POS_SOURCE_URL"`
	POSIntegrationKey string `mapstructure:"POS_INTEGRATION_KEY"`

	// Language model.
	GeminiAPIKey        string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel         string `mapstructure:"GEMINI_MODEL"`
	DialogHistoryLength int    `mapstructure:"DIALOG_HISTORY_LENGTH"`

	// Cache retention.
	OfferTTLMinutes     int `mapstructure:"OFFER_TTL_MINUTES"`
	HotelInfoTTLMinutes int `mapstructure:"HOTEL_INFO_TTL_MINUTES"`

	// Telegram transport (bot disabled when empty).
	TelegramBotToken string `mapstructure:"TELEGRAM_BOT_TOKEN"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("EXELY_BASE_URL", "https://ibe.hopenapi.com/api/SiteConnector")
	viper.SetDefault("EXELY_TIMEOUT_SECS", 30)
	viper.SetDefault("DEFAULT_LANGUAGE", "en-us")
	viper.SetDefault("DEFAULT_CURRENCY", "USD")
	viper.SetDefault("SUCCESS_URL", "")
	viper.SetDefault("DECLINE_URL", "")
	viper.SetDefault("POS_SOURCE_URL", "")
	viper.SetDefault("POS_INTEGRATION_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")
	viper.SetDefault("DIALOG_HISTORY_LENGTH", 30)
	viper.SetDefault("OFFER_TTL_MINUTES", 30)
	viper.SetDefault("HOTEL_INFO_TTL_MINUTES", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// ExelyTimeout returns the provider request timeout as a duration.
func ExelyTimeout() time.Duration {
	secs := AppConfig.ExelyTimeoutSecs
	if secs <= 0 {
		secs = 30
	}
	return time.Duration(secs) * time.Second
}

// OfferTTL returns how long cached booking options stay valid.
func OfferTTL() time.Duration {
	mins := AppConfig.OfferTTLMinutes
	if mins <= 0 {
		mins = 30
	}
	return time.Duration(mins) * time.Minute
}

// HotelInfoTTL returns how long cached hotel metadata stays valid.
func HotelInfoTTL() time.Duration {
	mins := AppConfig.HotelInfoTTLMinutes
	if mins <= 0 {
		mins = 60
	}
	return time.Duration(mins) * time.Minute
}
