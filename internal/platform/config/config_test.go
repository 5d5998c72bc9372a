package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, "prestacao-contas-theme", cfg.Web.ThemeStorageKey)
	assert.Equal(t, "dark", cfg.Web.DefaultTheme)
	assert.Equal(t, "none", cfg.Report.Archive.Driver)
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "8080"
  shutdown_timeout: "3s"
database:
  driver: "postgres"
  dsn: "host=db"
auth:
  access_ttl: "15m"
`)
	t.Setenv("PRESTACAO_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port, "env must win over the file")
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=db", cfg.Database.DSN)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "debug"},
			Database: DatabaseConfig{Driver: "sqlite", DSN: "x.db"},
			Web:      WebConfig{DefaultTheme: "system"},
			Report:   ReportConfig{Archive: ArchiveConfig{Driver: "none"}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := base()
		cfg.Database.Driver = "mysql"
		assert.Error(t, cfg.Validate())
	})

	t.Run("release needs a real secret", func(t *testing.T) {
		cfg := base()
		cfg.Server.Mode = "release"
		cfg.Auth.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("s3 needs a bucket", func(t *testing.T) {
		cfg := base()
		cfg.Report.Archive.Driver = "s3"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad theme", func(t *testing.T) {
		cfg := base()
		cfg.Web.DefaultTheme = "sepia"
		assert.Error(t, cfg.Validate())
	})
}
