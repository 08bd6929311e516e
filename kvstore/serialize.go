package kvstore

import (
	"database/sql"
	"fmt"

	"modernc.org/sqlite"
)

// Serialize returns a self-contained binary snapshot of the store's
// database, suitable for [NewFromSerialized] or embedding inside a client
// snapshot payload.
func (s *Store) Serialize() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var buf []byte

	err := s.conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite.Conn)
		if !ok {
			return fmt.Errorf("kvstore: serialize: unexpected driver conn type: %T", driverConn)
		}

		v, err := c.Serialize()
		if err != nil {
			return fmt.Errorf("kvstore: serialize: %w", err)
		}

		buf = v

		return nil
	})

	return buf, err
}

// Deserialize loads a serialized store database, produced by
// [Store.Serialize], into conn.
func Deserialize(conn *sql.Conn, buf []byte) error {
	return conn.Raw(func(driverConn any) error {
		c, ok := driverConn.(*sqlite.Conn)
		if !ok {
			return fmt.Errorf("kvstore: deserialize: unexpected driver conn type: %T", driverConn)
		}

		if err := c.Deserialize(buf); err != nil {
			return fmt.Errorf("kvstore: deserialize: %w", err)
		}

		return nil
	})
}
