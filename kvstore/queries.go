package kvstore

import (
	"context"
	"database/sql"
	"errors"
)

const upsertEntry = `
	INSERT INTO
		entries (key, value, expires_at)
	VALUES
		(?, ?, ?)
	ON CONFLICT (key) DO UPDATE SET
		value      = excluded.value,
		expires_at = excluded.expires_at
`

func (s *Store) upsertEntry(ctx context.Context, key, value []byte, expiresAtUnixNano *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.ExecContext(ctx, upsertEntry, key, value, expiresAtUnixNano)
	return err
}

const selectEntry = `
	SELECT value, expires_at
	FROM entries
	WHERE key = ?
`

// ErrNotFound indicates that no entry exists for the given key.
var ErrNotFound = errors.New("kvstore: not found")

func (s *Store) selectEntry(ctx context.Context, key []byte) (value []byte, expiresAtUnixNano *int64, retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.conn.QueryRowContext(ctx, selectEntry, key)

	if err := row.Scan(&value, &expiresAtUnixNano); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrNotFound
		}

		return nil, nil, err
	}

	return value, expiresAtUnixNano, nil
}

const deleteEntry = `
	DELETE FROM entries WHERE key = ?
`

func (s *Store) deleteEntry(ctx context.Context, key []byte) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.conn.ExecContext(ctx, deleteEntry, key)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

const deleteAllEntries = `
	DELETE FROM entries
`

func (s *Store) deleteAllEntries(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.conn.ExecContext(ctx, deleteAllEntries)
	return err
}

const deleteExpiredEntries = `
	DELETE FROM entries WHERE expires_at IS NOT NULL AND expires_at <= ?
`

func (s *Store) deleteExpiredEntries(ctx context.Context, nowUnixNano int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.conn.ExecContext(ctx, deleteExpiredEntries, nowUnixNano)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}
