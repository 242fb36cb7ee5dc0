package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/plandb/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yml")
	content := "database:\n  sqlite:\n    file: " + filepath.Join(dir, "plan.db") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "plandb "+Version+" (schema version 8)\n", out)
}

func TestSchema(t *testing.T) {
	out, err := execute(t, "schema", "--config", writeConfig(t), "--dialect", "mysql")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 14)
	assert.True(t, strings.HasPrefix(lines[0], "CREATE TABLE IF NOT EXISTS plan_version"))
	assert.Contains(t, out, "AUTO_INCREMENT")

	out, err = execute(t, "schema", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.NotContains(t, out, "AUTO_INCREMENT")

	_, err = execute(t, "schema", "--config", writeConfig(t), "--dialect", "oracle")
	require.Error(t, err)
}

func TestSetupAndClean(t *testing.T) {
	path := writeConfig(t)
	out, err := execute(t, "setup", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "schema version 8 of 8\n", out)

	out, err = execute(t, "clean", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "removed 0 tps samples, 0 ping samples, 0 cookies and 0 players\n", out)
}

func TestServeStopsWithContext(t *testing.T) {
	path := writeConfig(t)
	cfg, err := config.Load(path)
	require.NoError(t, err)
	cfg.Clean.Interval = 10 * time.Millisecond
	var logs bytes.Buffer
	a := &app{cfg: cfg, log: newLogger(config.Log{Level: "debug", Format: "json"}, &logs)}

	ctx, cancel := context.WithCancel(context.Background())
	db, err := a.open(ctx)
	require.NoError(t, err)
	defer db.Close()

	done := make(chan error, 1)
	go func() { done <- a.serve(ctx, db) }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
	assert.Contains(t, logs.String(), `"msg":"clean finished"`)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log := newLogger(config.Log{Level: "warn", Format: "json"}, &buf)
	log.Info("hidden")
	log.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
