/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	applog "assetcanvas/internal/log"
)

// Cache is an on-disk LRU of fetched media bytes keyed by source URL.
// Total stored bytes are kept at or below the configured cap.
type Cache struct {
	db       *sql.DB
	path     string
	maxBytes int64

	mu   sync.Mutex
	tick int64
}

// OpenCache opens (creating if needed) the cache database at path.
// maxBytes <= 0 disables eviction.
func OpenCache(ctx context.Context, path string, maxBytes int64) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	l := applog.WithOperation(applog.WithComponent("media"), "cache_open").With(slog.String("path", path))
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	c := &Cache{db: db, path: path, maxBytes: maxBytes}
	if err := c.migrate(ctx); err != nil {
		l.Error("cache migrate failed", slog.Any("err", err))
		_ = db.Close()
		return nil, err
	}
	l.Debug("cache ready", slog.Int64("max_bytes", maxBytes))
	return c, nil
}

func (c *Cache) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS media (
			id           INTEGER PRIMARY KEY,
			url          TEXT    NOT NULL UNIQUE,
			blob         BLOB    NOT NULL,
			size         INTEGER NOT NULL DEFAULT 0,
			updated_at   TEXT    NOT NULL,
			last_access  INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE INDEX IF NOT EXISTS idx_media_access ON media(last_access);`,
	}
	for _, q := range stmts {
		if _, err := c.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate cache: %w", err)
		}
	}
	var last sql.NullInt64
	if err := c.db.QueryRowContext(ctx, `SELECT MAX(last_access) FROM media`).Scan(&last); err != nil {
		return fmt.Errorf("read access clock: %w", err)
	}
	c.tick = last.Int64
	return nil
}

// Path returns the database file location.
func (c *Cache) Path() string { return c.path }

// Close releases the database handle.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) nextTick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tick++
	return c.tick
}

// Get returns the cached bytes for key and marks the row as recently used.
// A miss returns (nil, false, nil).
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var blob []byte
	err := c.db.QueryRowContext(ctx, `SELECT blob FROM media WHERE url=?`, key).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query media: %w", err)
	}
	// touch
	_, _ = c.db.ExecContext(ctx, `UPDATE media SET last_access=? WHERE url=?`, c.nextTick(), key)
	return blob, true, nil
}

// Put upserts blob under key and evicts least recently used rows to fit the cap.
// Blobs larger than the cap are not stored.
func (c *Cache) Put(ctx context.Context, key string, blob []byte) error {
	if key == "" {
		return fmt.Errorf("cache key is empty")
	}
	if c.maxBytes > 0 && int64(len(blob)) > c.maxBytes {
		return nil
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.ExecContext(ctx, `INSERT INTO media(url,blob,size,updated_at,last_access)
		VALUES(?,?,?,?,?)
		ON CONFLICT(url) DO UPDATE SET blob=excluded.blob, size=excluded.size, updated_at=excluded.updated_at, last_access=excluded.last_access`,
		key, blob, len(blob), now, c.nextTick())
	if err != nil {
		return fmt.Errorf("upsert media: %w", err)
	}
	if c.maxBytes > 0 {
		return c.evictToFit(ctx, c.maxBytes)
	}
	return nil
}

// GetOrCreate returns cached bytes or produces them with gen and stores the result.
func (c *Cache) GetOrCreate(ctx context.Context, key string, gen func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, ok, err := c.Get(ctx, key); err != nil {
		return nil, err
	} else if ok {
		return b, nil
	}
	data, err := gen(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Put(ctx, key, data); err != nil {
		return nil, err
	}
	return data, nil
}

// evictToFit deletes least-recently-used rows until total size <= capBytes.
func (c *Cache) evictToFit(ctx context.Context, capBytes int64) error {
	total, err := c.TotalBytes(ctx)
	if err != nil {
		return err
	}
	if total <= capBytes {
		return nil
	}
	rows, err := c.db.QueryContext(ctx, `SELECT id, size FROM media ORDER BY last_access ASC`)
	if err != nil {
		return fmt.Errorf("select victims: %w", err)
	}
	toDelete := make([]any, 0, 16)
	cur := total
	for rows.Next() {
		var id, sz int64
		if err := rows.Scan(&id, &sz); err != nil {
			_ = rows.Close()
			return err
		}
		toDelete = append(toDelete, id)
		cur -= sz
		if cur <= capBytes {
			break
		}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	// close the cursor before writing
	if err := rows.Close(); err != nil {
		return err
	}
	if len(toDelete) == 0 {
		return nil
	}
	q := `DELETE FROM media WHERE id IN (?` + strings.Repeat(",?", len(toDelete)-1) + `)`
	if _, err := c.db.ExecContext(ctx, q, toDelete...); err != nil {
		return fmt.Errorf("evict delete: %w", err)
	}
	return nil
}

// TotalBytes returns the bytes currently held.
func (c *Cache) TotalBytes(ctx context.Context) (int64, error) {
	var total int64
	if err := c.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(size),0) FROM media`).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum media size: %w", err)
	}
	return total, nil
}
