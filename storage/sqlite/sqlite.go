// Package sqlite provides a SQLite storage backend using the pure-Go
// ncruces driver. The database runs embedded with WAL mode, so reads
// stay concurrent while the sync engine writes.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func init() {
	storage.RegisterFactory(storage.ProviderSQLite, func(_ storage.Config, providerCfg any, log *logger.Logger) (storage.Adapter, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("sqlite: expected *sqlite.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return NewAdapter(c, log)
	})
}

// Adapter implements storage.Adapter over a single SQLite table.
type Adapter struct {
	db    *sql.DB
	table string
	log   *logger.Logger
}

// NewAdapter opens (and if needed creates) the database file and the
// key-value table.
func NewAdapter(cfg *Config, log *logger.Logger) (*Adapter, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, fmt.Errorf("storage: create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("storage: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("storage: %s: %w", pragma, err)
		}
	}

	a := &Adapter{db: db, table: cfg.Table, log: log}
	if err := a.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Adapter) initSchema() error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`, a.table)
	if _, err := a.db.Exec(ddl); err != nil {
		return fmt.Errorf("storage: create table: %w", err)
	}
	return nil
}

// SetItem upserts the value for key.
func (a *Adapter) SetItem(ctx context.Context, key, value string) error {
	query := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`, a.table)
	if _, err := a.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("storage: upsert key: %w", err)
	}
	return nil
}

// GetItem returns the value for key, or ("", false, nil) when absent.
func (a *Adapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	query := fmt.Sprintf("SELECT value FROM %s WHERE key = ?", a.table)
	var value string
	err := a.db.QueryRowContext(ctx, query, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: select key: %w", err)
	}
	return value, true, nil
}

// RemoveItem deletes key. Removing a missing key is a no-op.
func (a *Adapter) RemoveItem(ctx context.Context, key string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE key = ?", a.table)
	if _, err := a.db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("storage: delete key: %w", err)
	}
	return nil
}

// Keys returns every stored key, sorted.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf("SELECT key FROM %s ORDER BY key", a.table)
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("storage: list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("storage: scan key: %w", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: iterate keys: %w", err)
	}
	return keys, nil
}

// Clear removes every row from the table.
func (a *Adapter) Clear(ctx context.Context) error {
	query := fmt.Sprintf("DELETE FROM %s", a.table)
	if _, err := a.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("storage: clear table: %w", err)
	}
	return nil
}

// Close checkpoints the WAL and closes the database.
func (a *Adapter) Close() error {
	if a.db == nil {
		return nil
	}
	if _, err := a.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		a.log.Warn("WAL checkpoint failed", map[string]interface{}{"error": err.Error()})
	}
	err := a.db.Close()
	a.db = nil
	if err != nil {
		return fmt.Errorf("storage: close database: %w", err)
	}
	return nil
}
