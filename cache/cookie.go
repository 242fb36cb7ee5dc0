package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/syssam/plandb/dialect/sql"
	"github.com/syssam/plandb/tables"
)

// DefaultCookieTTL is how long an issued cookie stays valid.
const DefaultCookieTTL = 2 * time.Hour

// cookieBytes is the entropy of a cookie; its hex form fills plan_cookies.cookie.
const cookieBytes = 32

type cookie struct {
	username string
	expires  int64
}

// CookieStore maps web login cookies to web usernames.
type CookieStore struct {
	drv *sql.Driver
	ttl time.Duration
	now func() time.Time

	mu      sync.RWMutex
	cookies map[string]cookie
}

// CookieOption configures a CookieStore.
type CookieOption func(*CookieStore)

// WithTTL sets the lifetime of issued cookies.
func WithTTL(ttl time.Duration) CookieOption {
	return func(s *CookieStore) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) CookieOption {
	return func(s *CookieStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCookieStore returns an empty store persisting through drv.
func NewCookieStore(drv *sql.Driver, opts ...CookieOption) *CookieStore {
	s := &CookieStore{
		drv:     drv,
		ttl:     DefaultCookieTTL,
		now:     time.Now,
		cookies: make(map[string]cookie),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the content of the store with the unexpired cookies found
// in the database.
func (s *CookieStore) Load(ctx context.Context) error {
	stmt := sql.Select(tables.Cookies, tables.CookiesCookie, tables.CookiesWebUsername, tables.CookiesExpires).
		Where(tables.CookiesExpires + ">?").
		Statement(s.now().UnixMilli())
	loaded, err := sql.QueryMap(ctx, s.drv, stmt, func(sc sql.Scanner) (token string, c cookie, err error) {
		err = sc.Scan(&token, &c.username, &c.expires)
		return token, c, err
	})
	if err != nil {
		return fmt.Errorf("cache: load cookies: %w", err)
	}
	s.mu.Lock()
	s.cookies = loaded
	s.mu.Unlock()
	return nil
}

// Issue creates and stores a cookie for username. The web user must exist.
func (s *CookieStore) Issue(ctx context.Context, username string) (string, error) {
	b := make([]byte, cookieBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("cache: generate cookie: %w", err)
	}
	token := hex.EncodeToString(b)
	expires := s.now().Add(s.ttl).UnixMilli()
	_, err := s.drv.Execute(ctx, sql.Stmt(
		sql.Insert(tables.Cookies, tables.CookiesWebUsername, tables.CookiesCookie, tables.CookiesExpires),
		username, token, expires,
	))
	if err != nil {
		return "", fmt.Errorf("cache: issue cookie for %s: %w", username, err)
	}
	s.mu.Lock()
	s.cookies[token] = cookie{username: username, expires: expires}
	s.mu.Unlock()
	return token, nil
}

// Check returns the username owning token. Expired cookies are forgotten.
func (s *CookieStore) Check(token string) (string, bool) {
	s.mu.RLock()
	c, ok := s.cookies[token]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	if c.expires <= s.now().UnixMilli() {
		s.mu.Lock()
		delete(s.cookies, token)
		s.mu.Unlock()
		return "", false
	}
	return c.username, true
}

// Revoke removes token from the store and the database.
func (s *CookieStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.cookies, token)
	s.mu.Unlock()
	_, err := s.drv.Execute(ctx, sql.Delete(tables.Cookies).Where(tables.CookiesCookie+"=?").Statement(token))
	if err != nil {
		return fmt.Errorf("cache: revoke cookie: %w", err)
	}
	return nil
}

// RevokeUser removes every cookie of username.
func (s *CookieStore) RevokeUser(ctx context.Context, username string) error {
	s.mu.Lock()
	for token, c := range s.cookies {
		if c.username == username {
			delete(s.cookies, token)
		}
	}
	s.mu.Unlock()
	_, err := s.drv.Execute(ctx, sql.Delete(tables.Cookies).Where(tables.CookiesWebUsername+"=?").Statement(username))
	if err != nil {
		return fmt.Errorf("cache: revoke cookies of %s: %w", username, err)
	}
	return nil
}

// Len returns the number of cached cookies, expired ones included.
func (s *CookieStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cookies)
}

// Clear empties the store. Stored cookies are kept.
func (s *CookieStore) Clear() {
	s.mu.Lock()
	s.cookies = make(map[string]cookie)
	s.mu.Unlock()
}
