package config

import (
	"log"

	"github.com/spf13/viper"
)

type StorageConfig struct {
	Dir     string `mapstructure:"dir"`
	BaseURL string `mapstructure:"base_url"`
}

type CanvasConfig struct {
	Width  float64 `mapstructure:"width"`
	Height float64 `mapstructure:"height"`
}

type Config struct {
	DatabaseURL string        `mapstructure:"database_url"`
	ServerPort  string        `mapstructure:"server_port"`
	JWTSecret   string        `mapstructure:"jwt_secret"`
	Storage     StorageConfig `mapstructure:"storage"`
	Canvas      CanvasConfig  `mapstructure:"canvas"`
}

// Load reads the configuration from a YAML file and returns a Config instance.
func Load() *Config {
	v := viper.New()

	// Look for config in the current directory and ./config
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.AddConfigPath("./config")
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %v", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		log.Fatalf("Error unmarshalling config: %v", err)
	}

	// Fallback defaults
	if config.ServerPort == "" {
		config.ServerPort = "8080"
	}

	if config.JWTSecret == "" {
		log.Fatal("JWT secret must be set in the config file")
	}

	if config.Storage.Dir == "" {
		config.Storage.Dir = "./media"
	}
	if config.Storage.BaseURL == "" {
		config.Storage.BaseURL = "/media"
	}

	// The canonical canvas used when a template omits its dimensions.
	if config.Canvas.Width <= 0 {
		config.Canvas.Width = 400
	}
	if config.Canvas.Height <= 0 {
		config.Canvas.Height = 600
	}

	return &config
}
