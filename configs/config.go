package configs

import (
	"errors"

	"github.com/UhaiMong/Bank-Manaagement/internal/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Seed struct {
		Enabled bool `mapstructure:"enabled"`
	} `mapstructure:"seed"`
}

var AppConfig Config

func LoadConfig() {
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("db.dsn", "host=localhost user=bank password=bank dbname=bank port=5432 sslmode=disable")
	viper.SetDefault("seed.enabled", false)

	viper.AutomaticEnv()

	var fileLookupError viper.ConfigFileNotFoundError
	if err := viper.ReadInConfig(); err != nil {
		if !errors.As(err, &fileLookupError) {
			logger.Log.Fatal("failed to read config", zap.Error(err))
		}
		logger.Log.Info("config file not found, using defaults and environment")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		logger.Log.Fatal("failed to unmarshal config", zap.Error(err))
	}
}
