package config

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BaseURL   string
	APIToken  string
	Timeout   time.Duration
	UserAgent string
	VerifyTLS bool

	Transport      string
	HTTPAddr       string
	HTTPPath       string
	HTTPAuthToken  string
	AllowedOrigins []string

	LogLevel  string
	PrettyLog bool

	// Optional YAML file with additional field presets.
	PresetsFile string

	// When RedisAddr is set the watch cursor store is backed by Redis
	// instead of process memory.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ServerName    string
	ServerVersion string
	Protocol      string
}

const (
	defaultBaseURL        = "https://api.raindrop.io/rest/v1"
	defaultTimeoutSeconds = 20
	defaultUserAgent      = "raindrop-mcp/0.1"
	defaultHTTPAddr       = ":8787"
	defaultHTTPPath       = "/mcp"
)

func Load() (Config, error) {
	token := strings.TrimSpace(os.Getenv("RAINDROP_TOKEN"))
	if token == "" {
		return Config{}, errors.New("RAINDROP_TOKEN is required")
	}

	baseRaw := strings.TrimSpace(os.Getenv("RAINDROP_BASE_URL"))
	if baseRaw == "" {
		baseRaw = defaultBaseURL
	}
	baseURL, err := url.Parse(baseRaw)
	if err != nil {
		return Config{}, fmt.Errorf("parse RAINDROP_BASE_URL: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return Config{}, errors.New("RAINDROP_BASE_URL must include scheme and host")
	}
	if err := validateScheme(baseURL); err != nil {
		return Config{}, err
	}

	timeoutSeconds, err := readIntEnv("RAINDROP_TIMEOUT_SECONDS", defaultTimeoutSeconds)
	if err != nil {
		return Config{}, err
	}
	if timeoutSeconds <= 0 {
		return Config{}, errors.New("RAINDROP_TIMEOUT_SECONDS must be > 0")
	}

	verifyTLS, err := readBoolEnv("RAINDROP_VERIFY_TLS", true)
	if err != nil {
		return Config{}, err
	}

	prettyLog, err := readBoolEnv("RAINDROP_PRETTY_LOG", false)
	if err != nil {
		return Config{}, err
	}

	redisDB, err := readIntEnv("RAINDROP_REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}

	userAgent := strings.TrimSpace(os.Getenv("RAINDROP_USER_AGENT"))
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	cfg := Config{
		BaseURL:        strings.TrimRight(baseURL.String(), "/"),
		APIToken:       token,
		Timeout:        time.Duration(timeoutSeconds) * time.Second,
		UserAgent:      userAgent,
		VerifyTLS:      verifyTLS,
		Transport:      strings.TrimSpace(os.Getenv("RAINDROP_TRANSPORT")),
		HTTPAddr:       getenv("RAINDROP_HTTP_ADDR", defaultHTTPAddr),
		HTTPPath:       getenv("RAINDROP_HTTP_PATH", defaultHTTPPath),
		HTTPAuthToken:  strings.TrimSpace(os.Getenv("RAINDROP_HTTP_AUTH_TOKEN")),
		AllowedOrigins: splitAndTrim(os.Getenv("RAINDROP_ALLOWED_ORIGINS")),
		LogLevel:       getenv("RAINDROP_LOG_LEVEL", "info"),
		PrettyLog:      prettyLog,
		PresetsFile:    strings.TrimSpace(os.Getenv("RAINDROP_PRESETS_FILE")),
		RedisAddr:      strings.TrimSpace(os.Getenv("RAINDROP_REDIS_ADDR")),
		RedisPassword:  os.Getenv("RAINDROP_REDIS_PASSWORD"),
		RedisDB:        redisDB,
		ServerName:     "raindrop-mcp",
		ServerVersion:  "0.1.0",
		Protocol:       "2025-06-18",
	}
	return cfg, nil
}

func NewHTTPClient(cfg Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12, InsecureSkipVerify: !cfg.VerifyTLS}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func readIntEnv(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return v, nil
}

func readBoolEnv(key string, fallback bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true/false", key)
	}
	return v, nil
}

func splitAndTrim(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func validateScheme(u *url.URL) error {
	if u.Scheme == "https" {
		return nil
	}
	if u.Scheme != "http" {
		return errors.New("RAINDROP_BASE_URL must use https (or http for localhost)")
	}
	host := strings.ToLower(u.Hostname())
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return nil
	}
	return errors.New("RAINDROP_BASE_URL must use https unless pointing to localhost")
}
