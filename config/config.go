// Package config loads the settings of the persistence layer from a YAML
// file and PLAN_* environment variables, in that order of precedence from
// lowest to highest, over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-sql-driver/mysql"
	"gopkg.in/yaml.v3"

	"github.com/syssam/plandb/dialect"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PLAN_"

// Config is the complete configuration.
type Config struct {
	Database Database `yaml:"database" envPrefix:"DB_"`
	Clean    Clean    `yaml:"clean"    envPrefix:"CLEAN_"`
	Log      Log      `yaml:"log"      envPrefix:"LOG_"`
}

// Database selects and configures the backend.
type Database struct {
	// Type is "sqlite" or "mysql".
	Type   string `yaml:"type"   env:"TYPE"`
	SQLite SQLite `yaml:"sqlite" envPrefix:"SQLITE_"`
	MySQL  MySQL  `yaml:"mysql"  envPrefix:"MYSQL_"`
	// SlowThreshold is the duration above which a statement is logged as slow.
	SlowThreshold time.Duration `yaml:"slow_threshold" env:"SLOW_THRESHOLD"`
}

// SQLite configures the file backend.
type SQLite struct {
	File string `yaml:"file" env:"FILE"`
}

// MySQL configures the server backend.
type MySQL struct {
	Host     string            `yaml:"host"     env:"HOST"`
	Port     int               `yaml:"port"     env:"PORT"`
	Database string            `yaml:"database" env:"DATABASE"`
	User     string            `yaml:"user"     env:"USER"`
	Password string            `yaml:"password" env:"PASSWORD"`
	Params   map[string]string `yaml:"params"   env:"PARAMS"`
	// MaxConnections caps the pool. Zero leaves the driver default.
	MaxConnections  int           `yaml:"max_connections"   env:"MAX_CONNECTIONS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"CONN_MAX_LIFETIME"`
}

// Clean configures the retention task.
type Clean struct {
	RetentionDays int           `yaml:"retention_days" env:"RETENTION_DAYS"`
	Interval      time.Duration `yaml:"interval"       env:"INTERVAL"`
}

// Retention returns the retention period.
func (c Clean) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Log configures the logger built by the command.
type Log struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is text or json.
	Format string `yaml:"format" env:"FORMAT"`
}

// Default returns the built-in configuration: a SQLite file in the working
// directory.
func Default() Config {
	return Config{
		Database: Database{
			Type:          dialect.SQLiteName,
			SQLite:        SQLite{File: "plan.db"},
			MySQL:         MySQL{Host: "localhost", Port: 3306, Database: "plan", User: "root"},
			SlowThreshold: 100 * time.Millisecond,
		},
		Clean: Clean{RetentionDays: 180, Interval: time.Hour},
		Log:   Log{Level: "info", Format: "text"},
	}
}

// Option configures Load.
type Option func(*loader)

type loader struct {
	environ map[string]string
}

// WithEnvironment makes Load read variables from environ instead of the
// process environment.
func WithEnvironment(environ map[string]string) Option {
	return func(l *loader) {
		l.environ = environ
	}
}

// Load returns the defaults overridden by the YAML file at path, when path
// is not empty, and then by the environment. The result is validated.
func Load(path string, opts ...Option) (Config, error) {
	l := &loader{}
	for _, opt := range opts {
		opt(l)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := Parse(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	envOpts := env.Options{Prefix: EnvPrefix}
	if l.environ != nil {
		envOpts.Environment = l.environ
	}
	if err := env.ParseWithOptions(&cfg, envOpts); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML data over cfg. Keys absent from data keep their value.
func Parse(data []byte, cfg *Config) error {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	d, err := c.Dialect()
	if err != nil {
		errs = append(errs, err)
	}
	switch d {
	case dialect.SQLite:
		if c.Database.SQLite.File == "" {
			errs = append(errs, errors.New("database.sqlite.file is required"))
		}
	case dialect.MySQL:
		m := c.Database.MySQL
		if m.Host == "" {
			errs = append(errs, errors.New("database.mysql.host is required"))
		}
		if m.Port <= 0 || m.Port > 65535 {
			errs = append(errs, fmt.Errorf("database.mysql.port %d is out of range", m.Port))
		}
		if m.Database == "" {
			errs = append(errs, errors.New("database.mysql.database is required"))
		}
		if m.MaxConnections < 0 {
			errs = append(errs, errors.New("database.mysql.max_connections must not be negative"))
		}
	}
	if c.Database.SlowThreshold < 0 {
		errs = append(errs, errors.New("database.slow_threshold must not be negative"))
	}
	if c.Clean.RetentionDays <= 0 {
		errs = append(errs, fmt.Errorf("clean.retention_days must be positive, got %d", c.Clean.RetentionDays))
	}
	if c.Clean.Interval <= 0 {
		errs = append(errs, errors.New("clean.interval must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q is not one of text, json", c.Log.Format))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: invalid configuration: %w", err)
	}
	return nil
}

// Dialect returns the dialect named by Database.Type.
func (c Config) Dialect() (dialect.Dialect, error) {
	return dialect.Parse(c.Database.Type)
}

// SessionTimeZone is the MySQL session time_zone set unless Params names one.
const SessionTimeZone = "'+00:00'"

// DSN returns the data source name of the configured backend.
func (c Config) DSN() (string, error) {
	d, err := c.Dialect()
	if err != nil {
		return "", err
	}
	if d == dialect.SQLite {
		return "file:" + c.Database.SQLite.File + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", nil
	}
	m := c.Database.MySQL
	mc := mysql.NewConfig()
	mc.Net = "tcp"
	mc.Addr = m.Host + ":" + strconv.Itoa(m.Port)
	mc.DBName = m.Database
	mc.User = m.User
	mc.Passwd = m.Password
	// Date conversions round-trip only when the session zone has no DST.
	mc.Params = map[string]string{"time_zone": SessionTimeZone}
	for k, v := range m.Params {
		mc.Params[k] = v
	}
	return mc.FormatDSN(), nil
}
