package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/tables"
)

// ErrNoSession is returned when ending a session that was never started.
var ErrNoSession = errors.New("cache: no active session")

// Session is an ongoing play session. Times are epoch milliseconds.
type Session struct {
	Player     uuid.UUID
	PlayerName string
	Server     uuid.UUID
	ServerName string
	Start      int64
	MobKills   int
	Deaths     int
	AFKTime    int64
}

// SessionCache tracks the sessions of players currently online, keyed by
// player uuid.
type SessionCache struct {
	drv *sql.Driver

	mu     sync.RWMutex
	active map[uuid.UUID]Session
}

// NewSessionCache returns an empty cache persisting through drv.
func NewSessionCache(drv *sql.Driver) *SessionCache {
	return &SessionCache{drv: drv, active: make(map[uuid.UUID]Session)}
}

// Start registers the player and the server if they are not known yet and
// marks the session active. Starting a session for a player already online
// replaces the previous one.
func (c *SessionCache) Start(ctx context.Context, s Session) error {
	d := c.drv.Dialect()
	err := c.drv.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.Execute(ctx, sql.Stmt(
			sql.InsertIgnore(d, tables.Servers, tables.ServersUUID, tables.ServersName),
			s.Server.String(), s.ServerName,
		)); err != nil {
			return err
		}
		_, err := tx.Execute(ctx, sql.Stmt(
			sql.InsertIgnore(d, tables.Users, tables.UsersUUID, tables.UsersRegistered, tables.UsersName),
			s.Player.String(), s.Start, s.PlayerName,
		))
		return err
	})
	if err != nil {
		return fmt.Errorf("cache: start session of %s: %w", s.Player, err)
	}
	c.mu.Lock()
	c.active[s.Player] = s
	c.mu.Unlock()
	return nil
}

// End stores the session of player as ended at end and removes it from the
// cache. It returns ErrNoSession when the player has no active session. The
// session stays active when it cannot be stored.
func (c *SessionCache) End(ctx context.Context, player uuid.UUID, end int64) (Session, error) {
	s, ok := c.Get(player)
	if !ok {
		return Session{}, fmt.Errorf("%w for %s", ErrNoSession, player)
	}
	err := c.drv.Transaction(ctx, func(tx *sql.Tx) error {
		userID, err := sql.QueryOne(ctx, tx,
			sql.Select(tables.Users, tables.UsersID).Where(tables.UsersUUID+"=?").Statement(s.Player.String()),
			sql.ScanInt64)
		if err != nil {
			return fmt.Errorf("user: %w", err)
		}
		serverID, err := sql.QueryOne(ctx, tx,
			sql.Select(tables.Servers, tables.ServersID).Where(tables.ServersUUID+"=?").Statement(s.Server.String()),
			sql.ScanInt64)
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		_, err = tx.Execute(ctx, sql.Stmt(
			sql.Insert(tables.Sessions,
				tables.SessionsUserID,
				tables.SessionsServerID,
				tables.SessionsSessionStart,
				tables.SessionsSessionEnd,
				tables.SessionsMobKills,
				tables.SessionsDeaths,
				tables.SessionsAFKTime,
			),
			userID, serverID, s.Start, end, s.MobKills, s.Deaths, s.AFKTime,
		))
		return err
	})
	if err != nil {
		return Session{}, fmt.Errorf("cache: end session of %s: %w", player, err)
	}
	c.mu.Lock()
	if cur, ok := c.active[player]; ok && cur.Start == s.Start {
		delete(c.active, player)
	}
	c.mu.Unlock()
	return s, nil
}

// Update applies fn to the active session of player.
func (c *SessionCache) Update(player uuid.UUID, fn func(*Session)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.active[player]
	if !ok {
		return false
	}
	fn(&s)
	c.active[player] = s
	return true
}

// Get returns the active session of player.
func (c *SessionCache) Get(player uuid.UUID) (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.active[player]
	return s, ok
}

// Len returns the number of active sessions.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.active)
}

// Clear drops every active session without storing it.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	c.active = make(map[uuid.UUID]Session)
	c.mu.Unlock()
}
