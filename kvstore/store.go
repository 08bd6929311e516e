package kvstore

import (
	"context"
	"time"
)

// Insert stores value under key with no expiry, replacing any existing
// entry.
func (s *Store) Insert(ctx context.Context, key, value []byte) error {
	return s.upsertEntry(ctx, key, value, nil)
}

// InsertWithTTL stores value under key, to be treated as absent once ttl
// elapses.
func (s *Store) InsertWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error {
	expiresAt := time.Now().Add(ttl).UnixNano()
	return s.upsertEntry(ctx, key, value, &expiresAt)
}

// Get returns the value stored under key. An expired entry is treated as
// absent and returns [ErrNotFound]; this implementation evicts it as a side
// effect of the lookup.
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	value, expiresAt, err := s.selectEntry(ctx, key)
	if err != nil {
		return nil, err
	}

	if expiresAt != nil && *expiresAt <= time.Now().UnixNano() {
		_, _ = s.deleteEntry(ctx, key)
		return nil, ErrNotFound
	}

	return value, nil
}

// Delete removes key, reporting whether an entry was actually present.
func (s *Store) Delete(ctx context.Context, key []byte) (bool, error) {
	n, err := s.deleteEntry(ctx, key)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// Clear drops every entry, expired or not.
func (s *Store) Clear(ctx context.Context) error {
	return s.deleteAllEntries(ctx)
}

// EvictExpired deletes every entry whose TTL has elapsed and returns the
// number removed. Callers are not required to invoke this: [Store.Get]
// already treats expired entries as absent and evicts them lazily.
func (s *Store) EvictExpired(ctx context.Context) (int64, error) {
	return s.deleteExpiredEntries(ctx, time.Now().UnixNano())
}
