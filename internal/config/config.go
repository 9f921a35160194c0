// Package config loads the client configuration from environment
// variables, falling back to logged defaults.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

const (
	envAPIURL         = "NETBANK_API_URL"
	envHTTPTimeout    = "NETBANK_HTTP_TIMEOUT_SECONDS"
	envSessionTimeout = "NETBANK_SESSION_TIMEOUT_SECONDS"
	envSyncInterval   = "NETBANK_SYNC_INTERVAL_SECONDS"
	envNoticeTTL      = "NETBANK_NOTICE_TTL_SECONDS"

	defaultAPIURL                = "http://localhost:8080/api"
	defaultHTTPTimeoutSeconds    = 15
	defaultSessionTimeoutSeconds = 300
	defaultSyncIntervalSeconds   = 10
	defaultNoticeTTLSeconds      = 5
)

// Config holds everything the client needs to talk to the remote banking
// service and run a session.
type Config struct {
	APIURL         string
	HTTPTimeout    time.Duration
	SessionTimeout time.Duration
	SyncInterval   time.Duration
	NoticeTTL      time.Duration
}

// Load reads the configuration from the environment. Unset or malformed
// values fall back to defaults; the choice is logged either way.
func Load(logger *log.Logger) Config {
	apiURL := os.Getenv(envAPIURL)
	if apiURL == "" {
		apiURL = defaultAPIURL
		logger.Debug("using default API URL", "url", apiURL)
	} else {
		logger.Debug("using API URL from environment", "url", apiURL)
	}

	return Config{
		APIURL:         apiURL,
		HTTPTimeout:    secondsFromEnv(logger, envHTTPTimeout, defaultHTTPTimeoutSeconds),
		SessionTimeout: secondsFromEnv(logger, envSessionTimeout, defaultSessionTimeoutSeconds),
		SyncInterval:   secondsFromEnv(logger, envSyncInterval, defaultSyncIntervalSeconds),
		NoticeTTL:      secondsFromEnv(logger, envNoticeTTL, defaultNoticeTTLSeconds),
	}
}

func secondsFromEnv(logger *log.Logger, key string, fallback int) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return time.Duration(fallback) * time.Second
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		logger.Warn("invalid value, using default", "env", key, "value", raw, "default", fallback)
		return time.Duration(fallback) * time.Second
	}
	logger.Debug("using value from environment", "env", key, "seconds", seconds)
	return time.Duration(seconds) * time.Second
}
