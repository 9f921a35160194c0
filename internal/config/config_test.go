package config

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(envAPIURL, "")
	t.Setenv(envSessionTimeout, "")
	t.Setenv(envSyncInterval, "")
	t.Setenv(envNoticeTTL, "")
	t.Setenv(envHTTPTimeout, "")

	cfg := Load(testLogger())
	assert.Equal(t, "http://localhost:8080/api", cfg.APIURL)
	assert.Equal(t, 300*time.Second, cfg.SessionTimeout)
	assert.Equal(t, 10*time.Second, cfg.SyncInterval)
	assert.Equal(t, 5*time.Second, cfg.NoticeTTL)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(envAPIURL, "https://bank.example.com/api")
	t.Setenv(envSessionTimeout, "600")
	t.Setenv(envSyncInterval, "30")

	cfg := Load(testLogger())
	assert.Equal(t, "https://bank.example.com/api", cfg.APIURL)
	assert.Equal(t, 600*time.Second, cfg.SessionTimeout)
	assert.Equal(t, 30*time.Second, cfg.SyncInterval)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv(envSessionTimeout, "not-a-number")
	t.Setenv(envSyncInterval, "-5")

	cfg := Load(testLogger())
	assert.Equal(t, 300*time.Second, cfg.SessionTimeout)
	assert.Equal(t, 10*time.Second, cfg.SyncInterval)
}
