package zaptec

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allegro/bigcache/v3"
	_ "modernc.org/sqlite"
)

// TokenCache is the write-through store for serialized (and possibly
// encrypted) credentials. Get returns nil without an error on a miss.
// Entries live for the cache's own operational TTL, which is deliberately
// longer than any token lifetime; expiry is re-validated from the payload.
type TokenCache interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
}

const CacheTTL = 24 * time.Hour

// MemoryTokenCache keeps credentials in an in-process bigcache instance.
type MemoryTokenCache struct {
	cache *bigcache.BigCache
}

func NewMemoryTokenCache() (*MemoryTokenCache, error) {
	config := bigcache.DefaultConfig(CacheTTL)
	config.CleanWindow = 1 * time.Minute
	config.HardMaxCacheSize = 16

	cache, err := bigcache.New(context.Background(), config)
	if err != nil {
		return nil, err
	}
	return &MemoryTokenCache{cache: cache}, nil
}

func (c *MemoryTokenCache) Get(key string) ([]byte, error) {
	value, err := c.cache.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

func (c *MemoryTokenCache) Set(key string, value []byte) error {
	return c.cache.Set(key, value)
}

// FileTokenCache persists credentials in a SQLite database so they survive
// process restarts. Safe to share between processes; SQLite serializes the
// individual reads and writes.
type FileTokenCache struct {
	DB   *sql.DB
	Time Clock
}

func NewFileTokenCache(dbFile string) (*FileTokenCache, error) {
	db, err := sql.Open("sqlite", dbFile)
	if err != nil {
		return nil, err
	}
	// one connection: serializes writers and keeps :memory: databases visible
	db.SetMaxOpenConns(1)
	c := &FileTokenCache{
		DB:   db,
		Time: RealClock{},
	}
	if err := c.initDBStructure(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *FileTokenCache) initDBStructure() error {
	_, err := c.DB.Exec(`
create table if not exists token_cache(key text primary key, value blob, expires_at integer);
	`)
	return err
}

func (c *FileTokenCache) Get(key string) ([]byte, error) {
	row := c.DB.QueryRow("select value, expires_at from token_cache where key = ?", key)
	var value []byte
	var expiresAt int64
	if err := row.Scan(&value, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if c.Time.UTCNow().Unix() >= expiresAt {
		return nil, nil
	}
	return value, nil
}

func (c *FileTokenCache) Set(key string, value []byte) error {
	expiresAt := c.Time.UTCNow().Add(CacheTTL).Unix()
	_, err := c.DB.Exec("insert or replace into token_cache values(?, ?, ?)", key, value, expiresAt)
	return err
}

func (c *FileTokenCache) Close() error {
	return c.DB.Close()
}
