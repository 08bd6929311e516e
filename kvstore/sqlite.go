// Package kvstore implements the per-client, TTL'd byte-string cache: a map
// from arbitrary byte keys to byte values with an optional expiry,
// independent of any vault key. It is backed by an in-memory SQLite database
// so it can be serialized and restored as part of a client's snapshot
// payload the same way [vault.DbView] persists the vault container.
package kvstore

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"sync"

	"github.com/ladzaretti/migrate"

	// Package sqlite is a CGo-free port of SQLite/SQLite3.
	_ "modernc.org/sqlite"
)

var (
	//go:embed migrations/sqlite
	embedFS embed.FS

	embeddedMigrations = migrate.EmbeddedMigrations{
		FS:   embedFS,
		Path: "migrations/sqlite",
	}
)

const pragma = `
PRAGMA temp_store = MEMORY;
PRAGMA synchronous = EXTRA;
`

// Store is a TTL'd byte-string cache, independent of vault keys. It has its
// own lock, separate from a client's keystore and db locks. The zero value
// is not usable; construct one with [New].
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	conn *sql.Conn
}

func errf(format string, a ...any) error {
	return fmt.Errorf(format, a...)
}

// New opens an empty, in-memory [Store] with its schema migrated.
func New(ctx context.Context) (*Store, error) {
	return newStore(ctx, nil)
}

// NewFromSerialized restores a [Store] from a buffer produced by
// [Store.Serialize].
func NewFromSerialized(ctx context.Context, buf []byte) (*Store, error) {
	return newStore(ctx, buf)
}

func newStore(ctx context.Context, serialized []byte) (_ *Store, retErr error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, errf("kvstore: open: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = db.Close()
		}
	}()

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, errf("kvstore: conn: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = conn.Close()
		}
	}()

	if _, err := conn.ExecContext(ctx, pragma); err != nil {
		return nil, errf("kvstore: pragma: %w", err)
	}

	if serialized != nil {
		if err := Deserialize(conn, serialized); err != nil {
			return nil, errf("kvstore: deserialize: %w", err)
		}
	}

	m := migrate.New(conn, migrate.SQLiteDialect{})
	if _, err := m.Apply(embeddedMigrations); err != nil {
		return nil, errf("kvstore: migration: %w", err)
	}

	return &Store{db: db, conn: conn}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}

	return s.conn.Close()
}
