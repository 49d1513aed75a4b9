package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2beens/ormchart/internal/config"
)

const testConfig = `
[development]
port = 9200
log_level = "debug"
log_to_stdout = true
source = "file"
source_file_path = "./testdata/records.txt"
time_zone = "Europe/Berlin"
first_weekday = "Monday"
default_time_frame = "week"

[production]
host = "0.0.0.0"
port = 9100
logs_path = "/var/log/ormchart/service"
sentry_enabled = true
session_store = "redis"
session_ttl_minutes = 15
source = "postgres"
postgres_host = "db"
postgres_db_name = "gymstats"
mcp_enabled = true

[docker]
source = "ftp"
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse("dev", testConfig)
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Environment)
	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 9200, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogToStdout)
	assert.Equal(t, config.SourceFile, cfg.Source)
	assert.Equal(t, config.SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL())
	assert.Equal(t, time.Minute, cfg.SourceCacheTTL())
	assert.Equal(t, "week", cfg.DefaultTimeFrame)
	assert.Equal(t, "9101", cfg.PrometheusMetricsPort)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
	wd, err := cfg.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)

	cfg, err = config.Parse("production", testConfig)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.True(t, cfg.SentryEnabled)
	assert.True(t, cfg.MCPEnabled)
	assert.Equal(t, config.SessionStoreRedis, cfg.SessionStore)
	assert.Equal(t, 15*time.Minute, cfg.SessionTTL())
	assert.Equal(t, "5432", cfg.PostgresPort)
	assert.Equal(t, "month", cfg.DefaultTimeFrame)
	wd, err = cfg.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, wd)
}

func TestParse_Errors(t *testing.T) {
	_, err := config.Parse("staging", testConfig)
	assert.ErrorContains(t, err, "unknown env")

	_, err = config.Parse("docker", testConfig)
	assert.ErrorContains(t, err, "unknown source: ftp")

	_, err = config.Parse("dev", "[production]\nport = 1\n")
	assert.ErrorContains(t, err, "no config section")

	_, err = config.Parse("dev", "[development]\nsource = \"http\"\n")
	assert.ErrorContains(t, err, "source_url")

	_, err = config.Parse("dev", "[development]\nsource_file_path = \"x\"\nfirst_weekday = \"someday\"\n")
	assert.ErrorContains(t, err, "invalid first weekday")

	_, err = config.Parse("dev", "[development]\nsource_file_path = \"x\"\ntime_zone = \"Mars/Olympus\"\n")
	assert.ErrorContains(t, err, "load time zone")

	_, err = config.Parse("dev", "[development\n")
	assert.ErrorContains(t, err, "decode config")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o644))

	cfg, err := config.Load("development", path)
	require.NoError(t, err)
	assert.Equal(t, 9200, cfg.Port)

	_, err = config.Load("development", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
