package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/stronghold-go/stronghold/boxprovider"
)

// WriteFile encodes entries under key and atomically replaces the file at
// path: it writes to a sibling temp file and renames it over path, so a
// concurrent reader or a crash mid-write never observes a partial file.
func WriteFile(path string, key []byte, entries []ClientEntry) error {
	data, err := Encode(key, entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: write: create temp: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("snapshot: write: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)

		return fmt.Errorf("snapshot: write: sync: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("snapshot: write: close: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("snapshot: write: rename: %w", err)
	}

	return nil
}

// ReadFile loads and decodes the snapshot file at path.
func ReadFile(ctx context.Context, provider boxprovider.BoxProvider, path string, key []byte) ([]ClientEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}

	return Decode(ctx, provider, key, data)
}
