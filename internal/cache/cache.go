// Package cache is the CLI's local persistence: the session refresh
// token and the wishlist, kept in a small SQLite file.
package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bookblitz/storefront/types"
	_ "modernc.org/sqlite"
)

const sessionTokenKey = "session_refresh_token"

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS wishlist (
	isbn     TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	added_at TIMESTAMP NOT NULL
);`

// Cache is a process-local store backed by SQLite.
type Cache struct {
	db *sql.DB
}

// Open opens (and if needed creates) the cache file at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// SessionToken returns the cached refresh token, empty when absent.
func (c *Cache) SessionToken() (string, error) {
	var value string
	err := c.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, sessionTokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// SaveSessionToken persists the refresh token, replacing any previous.
func (c *Cache) SaveSessionToken(token string) error {
	_, err := c.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		sessionTokenKey, token)
	return err
}

// ClearSessionToken drops the cached refresh token.
func (c *Cache) ClearSessionToken() error {
	_, err := c.db.Exec(`DELETE FROM kv WHERE key = ?`, sessionTokenKey)
	return err
}

// AddWishlist bookmarks a book; re-adding an ISBN updates its title.
func (c *Cache) AddWishlist(ctx context.Context, item types.WishlistItem) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO wishlist (isbn, title, added_at) VALUES (?, ?, ?)
		 ON CONFLICT(isbn) DO UPDATE SET title = excluded.title`,
		item.ISBN, item.Title, time.Now().UTC())
	return err
}

// RemoveWishlist drops a bookmark. Removing an absent ISBN is a no-op.
func (c *Cache) RemoveWishlist(ctx context.Context, isbn string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM wishlist WHERE isbn = ?`, isbn)
	return err
}

// Wishlist lists bookmarks, oldest first.
func (c *Cache) Wishlist(ctx context.Context) ([]types.WishlistItem, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT isbn, title FROM wishlist ORDER BY added_at, isbn`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []types.WishlistItem
	for rows.Next() {
		var item types.WishlistItem
		if err := rows.Scan(&item.ISBN, &item.Title); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
