// Package file provides a filesystem storage backend. Each key is
// stored as its own JSON file under a base directory, so values
// survive restarts without any external service.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
)

func init() {
	storage.RegisterFactory(storage.ProviderFile, func(_ storage.Config, providerCfg any, log *logger.Logger) (storage.Adapter, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("file: expected *file.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return NewAdapter(c.BasePath, log)
	})
}

// record is the on-disk envelope. The original key is stored inside
// the file because the filename is a sanitized, lossy rendering of it.
type record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Adapter implements storage.Adapter over one JSON file per key.
type Adapter struct {
	basePath string
	log      *logger.Logger
}

// NewAdapter creates a file adapter rooted at basePath, creating the
// directory if needed. Files are written 0600 and the directory 0700
// since stored values may hold tenant data.
func NewAdapter(basePath string, log *logger.Logger) (*Adapter, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return nil, fmt.Errorf("storage: create base directory: %w", err)
	}
	return &Adapter{basePath: abs, log: log}, nil
}

// fileFor maps a key to its path. The sanitized key keeps filenames
// readable; the hash suffix keeps two keys that sanitize identically
// from colliding.
func (a *Adapter) fileFor(key string) string {
	h := fnv.New32a()
	h.Write([]byte(key))
	name := fmt.Sprintf("%s-%08x.json", util.SanitizeFilename(key), h.Sum32())
	return filepath.Join(a.basePath, name)
}

// SetItem writes the value to the key's file. The write goes through a
// temp file and rename so readers never observe a partial file.
func (a *Adapter) SetItem(_ context.Context, key, value string) error {
	data, err := json.Marshal(record{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("storage: encode record: %w", err)
	}

	path := a.fileFor(key)
	tmp, err := os.CreateTemp(a.basePath, ".write-*")
	if err != nil {
		return fmt.Errorf("storage: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: write record: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("storage: set file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("storage: rename into place: %w", err)
	}
	return nil
}

// GetItem reads the key's file. Missing files return ("", false, nil).
func (a *Adapter) GetItem(_ context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(a.fileFor(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: read record: %w", err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return "", false, fmt.Errorf("storage: decode record: %w", err)
	}
	if rec.Key != key {
		return "", false, nil
	}
	return rec.Value, true, nil
}

// RemoveItem deletes the key's file. Removing a missing key is a
// no-op.
func (a *Adapter) RemoveItem(_ context.Context, key string) error {
	err := os.Remove(a.fileFor(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove record: %w", err)
	}
	return nil
}

// Keys returns the original key of every record file, sorted for
// stable output. Files that fail to parse are skipped with a warning
// rather than failing the whole enumeration.
func (a *Adapter) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(a.basePath)
	if err != nil {
		return nil, fmt.Errorf("storage: list records: %w", err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.basePath, entry.Name()))
		if err != nil {
			continue
		}
		var rec record
		if err := json.Unmarshal(data, &rec); err != nil {
			a.log.Warn("Skipping unreadable record file", map[string]interface{}{
				"file":  entry.Name(),
				"error": err.Error(),
			})
			continue
		}
		keys = append(keys, rec.Key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Clear removes every record file under the base path.
func (a *Adapter) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(a.basePath)
	if err != nil {
		return fmt.Errorf("storage: list records: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(a.basePath, entry.Name())); err != nil {
			return fmt.Errorf("storage: remove record: %w", err)
		}
	}
	return nil
}

// Close is a no-op for the file adapter.
func (a *Adapter) Close() error {
	return nil
}
