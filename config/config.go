package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey                string `mapstructure:"secret_key"`
		RefreshSecretKey         string `mapstructure:"refresh_secret_key"`
		Algorithm                string `mapstructure:"algorithm"`
		AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes"`
		RefreshTokenExpireDays   int    `mapstructure:"refresh_token_expire_days"`
		RevokedTokensFile        string `mapstructure:"revoked_tokens_file"`
	} `mapstructure:"jwt"`
	Catalog struct {
		BaseURL         string `mapstructure:"base_url"`
		CacheTTLMinutes int    `mapstructure:"cache_ttl_minutes"`
	} `mapstructure:"catalog"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
