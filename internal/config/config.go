package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort      string
	BaseURL         string
	ShutdownTimeout time.Duration

	// Cookie
	CookieSecure bool
	CookieDomain string

	// CORS
	CORSAllowedOrigin string

	// Logging
	LogLevel slog.Level

	// Auth
	MinPasswordLength int
	AuthLatency       time.Duration

	// Rate Limit（req/min）
	RateLimitGeneral int
	RateLimitAuth    int
}

// Load は環境変数からConfigを読み込む。
// 値が不正な環境変数がある場合はまとめてエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	var invalid []string

	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:8080")
	shutdownTimeout, ok := getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second)
	if !ok || shutdownTimeout <= 0 {
		invalid = append(invalid, "SHUTDOWN_TIMEOUT")
	}
	cfg.ShutdownTimeout = shutdownTimeout
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	level, err := parseLogLevel(getEnvString("LOG_LEVEL", "info"))
	if err != nil {
		invalid = append(invalid, "LOG_LEVEL")
	}
	cfg.LogLevel = level

	minLen, ok := getEnvInt("AUTH_MIN_PASSWORD_LENGTH", 6)
	cfg.MinPasswordLength = minLen
	if !ok || minLen < 1 {
		invalid = append(invalid, "AUTH_MIN_PASSWORD_LENGTH")
	}

	latency, ok := getEnvDuration("AUTH_LATENCY", 1*time.Second)
	cfg.AuthLatency = latency
	if !ok || latency < 0 {
		invalid = append(invalid, "AUTH_LATENCY")
	}

	general, ok := getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitGeneral = general
	if !ok || general < 1 {
		invalid = append(invalid, "RATE_LIMIT_GENERAL")
	}

	authLimit, ok := getEnvInt("RATE_LIMIT_AUTH", 10)
	cfg.RateLimitAuth = authLimit
	if !ok || authLimit < 1 {
		invalid = append(invalid, "RATE_LIMIT_AUTH")
	}

	if len(invalid) > 0 {
		return nil, fmt.Errorf("invalid environment variables: %v", invalid)
	}

	return cfg, nil
}

// parseLogLevel はLOG_LEVELの値をslog.Levelに変換する。
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q: %w", s, err)
	}
	return level, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvInt は整数の環境変数を読む。未設定なら既定値を返し、解析できない場合はokがfalseになる。
func getEnvInt(key string, defaultVal int) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, true
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal, false
	}
	return i, true
}

func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, true
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal, false
	}
	return d, true
}
