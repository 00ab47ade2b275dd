package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	RedisAddr    string        `mapstructure:"redis_addr"`
	JWTSecret    string        `mapstructure:"jwt_secret"`
	ReadLimit    int64         `mapstructure:"read_limit"`
	PingPeriod   time.Duration `mapstructure:"ping_period"`
	PongWait     time.Duration `mapstructure:"pong_wait"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	SendBuffer   int           `mapstructure:"send_buffer"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	fileName := fmt.Sprintf("config/config.%s.yaml", env)

	v.SetConfigFile(fileName)
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("read_limit", 32768)
	v.SetDefault("ping_period", "30s")
	v.SetDefault("pong_wait", "60s")
	v.SetDefault("write_timeout", "10s")
	v.SetDefault("send_buffer", 256)

	// Secrets come from the environment, never from checked-in yaml.
	v.SetEnvPrefix("inkwell")
	v.AutomaticEnv()
	_ = v.BindEnv("jwt_secret", "INKWELL_JWT_SECRET", "JWT_SECRET")
	_ = v.BindEnv("redis_addr", "INKWELL_REDIS_ADDR", "REDIS_ADDR")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
