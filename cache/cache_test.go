package cache

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/plandb/dialect"
	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/dialect/sqlschema"
	"github.com/syssam/plandb/tables"
)

func openDriver(t *testing.T) *sql.Driver {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "plan.db") + "?_pragma=foreign_keys(1)"
	drv, err := sql.Open(dialect.SQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = drv.Close() })
	require.NoError(t, sqlschema.CreateAll(context.Background(), drv, tables.Registry()))
	return drv
}

func countRows(t *testing.T, drv *sql.Driver, table string) int64 {
	t.Helper()
	n, err := sql.QueryOne(context.Background(), drv, sql.Select(table, "COUNT(1)").Statement(), sql.ScanInt64)
	require.NoError(t, err)
	return n
}

func TestSessionCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := openDriver(t)
	c := NewSessionCache(drv)

	player, server := uuid.New(), uuid.New()
	s := Session{Player: player, PlayerName: "Alice", Server: server, ServerName: "Lobby", Start: 1000}
	require.NoError(t, c.Start(ctx, s))
	assert.Equal(t, 1, c.Len())
	assert.EqualValues(t, 1, countRows(t, drv, tables.Users))
	assert.EqualValues(t, 1, countRows(t, drv, tables.Servers))

	// Restarting registers nothing twice.
	require.NoError(t, c.Start(ctx, s))
	assert.EqualValues(t, 1, countRows(t, drv, tables.Users))
	assert.EqualValues(t, 1, countRows(t, drv, tables.Servers))

	assert.True(t, c.Update(player, func(s *Session) {
		s.MobKills = 3
		s.AFKTime = 200
	}))
	assert.False(t, c.Update(uuid.New(), func(*Session) {}))

	got, ok := c.Get(player)
	require.True(t, ok)
	assert.Equal(t, 3, got.MobKills)

	ended, err := c.End(ctx, player, 5000)
	require.NoError(t, err)
	assert.Equal(t, "Alice", ended.PlayerName)
	assert.Zero(t, c.Len())

	type row struct{ start, end, afk, kills int64 }
	rows, err := sql.QueryAll(ctx, drv,
		sql.Select(tables.Sessions, tables.SessionsSessionStart, tables.SessionsSessionEnd, tables.SessionsAFKTime, tables.SessionsMobKills).Statement(),
		func(s sql.Scanner) (r row, err error) {
			err = s.Scan(&r.start, &r.end, &r.afk, &r.kills)
			return r, err
		})
	require.NoError(t, err)
	assert.Equal(t, []row{{1000, 5000, 200, 3}}, rows)

	_, err = c.End(ctx, player, 6000)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestSessionCacheClear(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := NewSessionCache(openDriver(t))
	server := uuid.New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, c.Start(ctx, Session{Player: uuid.New(), PlayerName: "p", Server: server, Start: 1}))
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, c.Len())
	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCookieStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := openDriver(t)
	_, err := drv.Execute(ctx, sql.Stmt("INSERT INTO plan_security (username, salted_pass_hash, permission_level) VALUES ('admin', 'hash', 0)"))
	require.NoError(t, err)

	clock := time.UnixMilli(1_000_000)
	now := func() time.Time { return clock }
	s := NewCookieStore(drv, WithTTL(time.Hour), WithClock(now))

	token, err := s.Issue(ctx, "admin")
	require.NoError(t, err)
	assert.Len(t, token, 64)
	user, ok := s.Check(token)
	assert.True(t, ok)
	assert.Equal(t, "admin", user)
	_, ok = s.Check("unknown")
	assert.False(t, ok)

	_, err = s.Issue(ctx, "nobody")
	require.Error(t, err)
	assert.True(t, sql.IsForeignKeyConstraintError(err))

	// A fresh store sees the stored cookie.
	other := NewCookieStore(drv, WithClock(now))
	require.NoError(t, other.Load(ctx))
	user, ok = other.Check(token)
	assert.True(t, ok)
	assert.Equal(t, "admin", user)

	s.Clear()
	assert.Zero(t, s.Len())
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Revoke(ctx, token))
	_, ok = s.Check(token)
	assert.False(t, ok)
	assert.Zero(t, countRows(t, drv, tables.Cookies))
}

func TestCookieExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	drv := openDriver(t)
	_, err := drv.Execute(ctx, sql.Stmt("INSERT INTO plan_security (username, salted_pass_hash, permission_level) VALUES ('admin', 'hash', 0)"))
	require.NoError(t, err)

	clock := time.UnixMilli(1_000_000)
	s := NewCookieStore(drv, WithTTL(time.Minute), WithClock(func() time.Time { return clock }))
	first, err := s.Issue(ctx, "admin")
	require.NoError(t, err)
	second, err := s.Issue(ctx, "admin")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	clock = clock.Add(2 * time.Minute)
	_, ok := s.Check(first)
	assert.False(t, ok)
	assert.Equal(t, 1, s.Len(), "the expired cookie is forgotten on check")

	require.NoError(t, s.Load(ctx))
	assert.Zero(t, s.Len(), "expired cookies are not loaded")

	require.NoError(t, s.RevokeUser(ctx, "admin"))
	assert.Zero(t, countRows(t, drv, tables.Cookies))
}
