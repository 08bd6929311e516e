package snapshot

import (
	"errors"
	"fmt"
)

// ErrInvalidFile is returned when a file's magic bytes do not match
// [magic].
var ErrInvalidFile = errors.New("snapshot: invalid file")

// ErrTruncated is returned when a file is shorter than the fixed header.
var ErrTruncated = errors.New("snapshot: truncated file")

// ErrUnsupportedVersion is returned when a file's version field does not
// match [version].
type ErrUnsupportedVersion struct {
	Expected [2]byte
	Found    [2]byte
}

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("snapshot: unsupported version %x, expected %x", e.Found, e.Expected)
}

// ErrDecryptFailed is returned when the AEAD tag fails to authenticate.
var ErrDecryptFailed = errors.New("snapshot: decrypt failed")
