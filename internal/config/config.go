package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// Config is read from the environment. Every knob has a default, so a
// bare `go run ./cmd/products` serves on :3000 with the memory backend.
type Config struct {
	Port   string `validate:"required"`
	APIKey string `validate:"required"`

	StoreBackend string `validate:"required,oneof=memory postgres"`
	DatabaseURL  string `validate:"required_if=StoreBackend postgres"`

	MetricsToken string

	WriteRateLimit         int `validate:"gte=0"`
	WriteRateWindowSeconds int `validate:"gte=1"`
}

func Load() (Config, error) {
	viper.SetDefault("PORT", "3000")
	viper.SetDefault("API_KEY", "123456")
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("METRICS_TOKEN", "")
	viper.SetDefault("WRITE_RATE_LIMIT", 0)
	viper.SetDefault("WRITE_RATE_WINDOW_SECONDS", 60)
	viper.AutomaticEnv()

	cfg := Config{
		Port:                   viper.GetString("PORT"),
		APIKey:                 viper.GetString("API_KEY"),
		StoreBackend:           viper.GetString("STORE_BACKEND"),
		DatabaseURL:            viper.GetString("DATABASE_URL"),
		MetricsToken:           viper.GetString("METRICS_TOKEN"),
		WriteRateLimit:         viper.GetInt("WRITE_RATE_LIMIT"),
		WriteRateWindowSeconds: viper.GetInt("WRITE_RATE_WINDOW_SECONDS"),
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
