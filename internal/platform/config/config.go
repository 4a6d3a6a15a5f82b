package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

type HTTPConfig struct {
	Addr string
}

type GRPCConfig struct {
	Addr string
}

type AppConfig struct {
	ServiceName string
	Env         string
	LogLevel    string
	HTTP        HTTPConfig
	GRPC        GRPCConfig

	// ClientURL is the single origin allowed by CORS (credentials enabled).
	ClientURL    string
	CookieSecret string
	// StandInUser is the display name every request is attributed to.
	StandInUser string

	DatabaseURL string
	RedisURL    string
	NATSURL     string
	CacheTTL    time.Duration
}

func (c AppConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func Load() (AppConfig, error) {
	cfg := AppConfig{
		ServiceName:  env("SERVICE_NAME"),
		Env:          env("APP_ENV"),
		LogLevel:     env("LOG_LEVEL"),
		HTTP:         HTTPConfig{Addr: env("HTTP_ADDR")},
		GRPC:         GRPCConfig{Addr: env("GRPC_ADDR")},
		ClientURL:    env("CLIENT_URL"),
		CookieSecret: env("COOKIE_SECRET"),
		StandInUser:  env("STANDIN_USER_NAME"),
		DatabaseURL:  env("DATABASE_URL"),
		RedisURL:     env("REDIS_URL"),
		NATSURL:      env("NATS_URL"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "board"
	}
	if cfg.HTTP.Addr == "" {
		if port := env("PORT"); port != "" {
			cfg.HTTP.Addr = ":" + port
		} else {
			cfg.HTTP.Addr = ":8080"
		}
	}
	if cfg.GRPC.Addr == "" {
		cfg.GRPC.Addr = ":9090"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.StandInUser == "" {
		cfg.StandInUser = "Kyle"
	}
	cfg.CacheTTL = 60 * time.Second
	if v := env("CACHE_TTL_SEC"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return AppConfig{}, errors.New("CACHE_TTL_SEC must be a positive integer")
		}
		cfg.CacheTTL = time.Duration(n) * time.Second
	}
	if cfg.CookieSecret == "" {
		if cfg.IsProduction() {
			return AppConfig{}, errors.New("COOKIE_SECRET is required in production")
		}
		cfg.CookieSecret = "dev-cookie-secret"
	}
	return cfg, nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
