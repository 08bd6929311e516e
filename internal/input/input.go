// Package input provides the prompt helpers strongholdctl uses to read a
// vault passphrase without echoing it to the terminal.
package input

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"golang.org/x/term"
)

// readPassword is indirected through a package var so tests can swap it for
// a fixed answer: term.ReadPassword needs a real terminal fd, which a
// pipe-backed test stdin isn't.
var readPassword = term.ReadPassword

// SetReadPasswordForTest overrides the function used to read a password
// from a file descriptor, returning a func to restore the previous one.
func SetReadPasswordForTest(f func(fd int) ([]byte, error)) (restore func()) {
	prev := readPassword
	readPassword = f

	return func() { readPassword = prev }
}

// PromptReadSecure prompts via w and securely reads a line from fd, without
// echoing it back.
func PromptReadSecure(w io.Writer, fd int, prompt string, a ...any) ([]byte, error) {
	fmt.Fprintf(w, prompt, a...)
	defer fmt.Fprintln(w)

	bs, err := readPassword(fd)
	if err != nil {
		return nil, fmt.Errorf("term read password: %w", err)
	}

	return bs, nil
}

// PromptPassphrase prompts once for an existing passphrase.
func PromptPassphrase(w io.Writer, fd int) ([]byte, error) {
	return PromptReadSecure(w, fd, "Enter passphrase: ")
}

// PromptNewPassphrase prompts for a new passphrase, re-prompting until it is
// at least minLen bytes, then asks for it to be retyped for confirmation. If
// the two entries differ it returns an error without prompting again.
func PromptNewPassphrase(w io.Writer, fd int, minLen int) ([]byte, error) {
	var pass []byte

	for len(pass) < minLen {
		p, err := PromptReadSecure(w, fd, "Enter new passphrase: ")
		if err != nil {
			return nil, fmt.Errorf("prompt new passphrase: %w", err)
		}

		pass = p

		if len(pass) < minLen {
			fmt.Fprintf(w, "Passphrase must be at least %d characters. Please try again.\n", minLen)
		}
	}

	pass2, err := PromptReadSecure(w, fd, "Retype passphrase: ")
	if err != nil {
		return nil, fmt.Errorf("prompt new passphrase: %w", err)
	}

	if slices.Compare(pass2, pass) != 0 {
		fmt.Fprintln(w, "Passphrases do not match. Please try again.")
		return nil, errors.New("prompt new passphrase: passphrases do not match")
	}

	return pass, nil
}

// IsPipedOrRedirected reports whether fi describes a non-terminal stream.
func IsPipedOrRedirected(fi os.FileInfo) bool {
	return (fi.Mode() & os.ModeCharDevice) == 0
}
