package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/plandb/dialect"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := Load("", WithEnvironment(map[string]string{}))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	d, err := cfg.Dialect()
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, d)
	assert.Equal(t, 180*24*time.Hour, cfg.Clean.Retention())
}

func TestLoadFileAndEnv(t *testing.T) {
	t.Parallel()
	path := writeFile(t, `
database:
  type: mysql
  slow_threshold: 250ms
  mysql:
    host: db.internal
    database: analytics
    user: plan
    password: secret
    params:
      wait_timeout: "600"
clean:
  retention_days: 30
log:
  format: json
`)
	cfg, err := Load(path, WithEnvironment(map[string]string{
		"PLAN_DB_MYSQL_PORT":        "3307",
		"PLAN_CLEAN_RETENTION_DAYS": "14",
		"PLAN_LOG_LEVEL":            "debug",
		"RETENTION_DAYS":            "1",
	}))
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.Database.Type)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.SlowThreshold)
	assert.Equal(t, "db.internal", cfg.Database.MySQL.Host)
	assert.Equal(t, 3307, cfg.Database.MySQL.Port, "environment overrides defaults")
	assert.Equal(t, 14, cfg.Clean.RetentionDays, "environment overrides the file")
	assert.Equal(t, time.Hour, cfg.Clean.Interval, "defaults survive a partial file")
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	dsn, err := cfg.DSN()
	require.NoError(t, err)
	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "db.internal:3307", parsed.Addr)
	assert.Equal(t, "analytics", parsed.DBName)
	assert.Equal(t, "plan", parsed.User)
	assert.Equal(t, "secret", parsed.Passwd)
	assert.Equal(t, "600", parsed.Params["wait_timeout"])
	assert.Equal(t, SessionTimeZone, parsed.Params["time_zone"])
}

func TestMySQLTimeZoneOverride(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Database.Type = "mysql"
	cfg.Database.MySQL.Host = "localhost"
	cfg.Database.MySQL.Port = 3306
	cfg.Database.MySQL.Params = map[string]string{"time_zone": "'SYSTEM'"}
	dsn, err := cfg.DSN()
	require.NoError(t, err)
	parsed, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.Equal(t, "'SYSTEM'", parsed.Params["time_zone"])
	assert.Len(t, cfg.Database.MySQL.Params, 1)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"), WithEnvironment(map[string]string{}))
	require.Error(t, err)

	_, err = Load(writeFile(t, "database: [unclosed"), WithEnvironment(map[string]string{}))
	require.Error(t, err)

	_, err = Load("", WithEnvironment(map[string]string{"PLAN_CLEAN_RETENTION_DAYS": "soon"}))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		modify func(*Config)
		want   []string
	}{
		{"defaults", func(*Config) {}, nil},
		{"unknown dialect", func(c *Config) { c.Database.Type = "postgres" }, []string{`unsupported dialect "postgres"`}},
		{"sqlite without file", func(c *Config) { c.Database.SQLite.File = "" }, []string{"database.sqlite.file"}},
		{"mysql", func(c *Config) {
			c.Database.Type = "mysql"
			c.Database.MySQL.Host = ""
			c.Database.MySQL.Port = 70000
			c.Database.MySQL.Database = ""
		}, []string{"database.mysql.host", "database.mysql.port 70000", "database.mysql.database"}},
		{"retention", func(c *Config) { c.Clean.RetentionDays = 0 }, []string{"clean.retention_days"}},
		{"interval", func(c *Config) { c.Clean.Interval = 0 }, []string{"clean.interval"}},
		{"log", func(c *Config) {
			c.Log.Level = "trace"
			c.Log.Format = "xml"
		}, []string{`log.level "trace"`, `log.format "xml"`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if len(tt.want) == 0 {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	t.Parallel()
	cfg := Default()
	cfg.Database.SQLite.File = "/var/lib/plan/plan.db"
	dsn, err := cfg.DSN()
	require.NoError(t, err)
	assert.Equal(t, "file:/var/lib/plan/plan.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dsn)
}
