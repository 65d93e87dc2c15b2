package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
source:
  backend: http
  endpoint: http://localhost:9090/availability
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "localhost", cfg.Database.Host)
				assert.Equal(t, "testdb", cfg.Database.Name)
				assert.Equal(t, "testuser", cfg.Database.User)
				assert.Equal(t, "http", cfg.Source.Backend)
				assert.Equal(t, "http://localhost:9090/availability", cfg.Source.Endpoint)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
source:
  backend: exec
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.Equal(t, "disable", cfg.Database.SSLMode)
				assert.Equal(t, 10, cfg.Database.PoolSize)
				assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
				assert.Equal(t, "ikea_client.js", cfg.Source.Command)
				assert.Equal(t, "ikea_stores.js", cfg.Source.StoresCmd)
				assert.InEpsilon(t, 2.0, cfg.Source.RateLimit.PerSecond, 0.001)
				assert.Equal(t, 5, cfg.Source.RateLimit.Burst)
				assert.Equal(t, 587, cfg.SMTP.Port)
				assert.Equal(t, 30*time.Minute, cfg.Schedule.CheckInterval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
  password: "${TEST_DB_PASSWORD}"
source:
  backend: exec
`,
			envVars: map[string]string{
				"TEST_DB_PASSWORD": "secret123",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "secret123", cfg.Database.Password)
			},
		},
		{
			name: "smtp from falls back to username",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
source:
  backend: exec
smtp:
  enabled: true
  host: mail.example.com
  username: alerts@example.com
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "alerts@example.com", cfg.SMTP.From)
			},
		},
		{
			name: "missing required database.host",
			yaml: `
database:
  name: testdb
  user: testuser
source:
  backend: exec
`,
			wantErr: "database.host is required",
		},
		{
			name: "http backend requires endpoint",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
source:
  backend: http
`,
			wantErr: "source.endpoint is required",
		},
		{
			name: "unknown source backend",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
source:
  backend: carrier-pigeon
`,
			wantErr: "source.backend must be one of",
		},
		{
			name: "smtp enabled requires host",
			yaml: `
database:
  host: localhost
  name: testdb
  user: testuser
source:
  backend: exec
smtp:
  enabled: true
`,
			wantErr: "smtp.host is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		Name:     "lagerkoll",
		User:     "app",
		Password: "pw",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 dbname=lagerkoll user=app password=pw sslmode=require",
		d.DSN(),
	)
}
