package config

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Redis    Redis
	Log      Log
}

type Server struct {
	Port    string
	GinMode string
}

// Database selects the gorm dialector. Driver is "sqlite" (Path is used) or
// "postgres" (Host..Name are used).
type Database struct {
	Driver       string
	Path         string
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	QueryTimeout time.Duration
}

// Redis is optional; an empty Addr disables the question cache.
type Redis struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type Log struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_PATH", "quiz_app.db")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_QUERY_TIMEOUT", "5s")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file, using environment only")
	}

	cfg := fromViper(v)
	log.Info().
		Str("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).
		Dur("query_timeout", cfg.Database.QueryTimeout).
		Bool("cache_enabled", cfg.Redis.Addr != "").
		Msg("Config loaded")
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	var config Config

	config.Server.Port = v.GetString("SERVER_PORT")
	config.Server.GinMode = v.GetString("GIN_MODE")

	config.Database.Driver = v.GetString("DATABASE_DRIVER")
	config.Database.Path = v.GetString("DATABASE_PATH")
	config.Database.Host = v.GetString("DATABASE_HOST")
	config.Database.Port = v.GetString("DATABASE_PORT")
	config.Database.User = v.GetString("DATABASE_USER")
	config.Database.Password = v.GetString("DATABASE_PASSWORD")
	config.Database.Name = v.GetString("DATABASE_NAME")
	config.Database.QueryTimeout = v.GetDuration("DATABASE_QUERY_TIMEOUT")
	if config.Database.QueryTimeout <= 0 {
		config.Database.QueryTimeout = 5 * time.Second
	}

	config.Redis.Addr = v.GetString("REDIS_ADDR")
	config.Redis.Password = v.GetString("REDIS_PASSWORD")
	config.Redis.DB = v.GetInt("REDIS_DB")
	config.Redis.TTL = v.GetDuration("CACHE_TTL")

	config.Log.Level = v.GetString("LOG_LEVEL")
	config.Log.Format = v.GetString("LOG_FORMAT")

	return &config
}
