// Package clierror turns the sentinel errors surfaced by the stronghold
// facade into short, user-facing messages, the way strongholdctl reports
// every command failure.
package clierror

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stronghold-go/stronghold/client"
	"github.com/stronghold-go/stronghold/kvstore"
	"github.com/stronghold-go/stronghold/procedure"
	"github.com/stronghold-go/stronghold/snapshot"
	"github.com/stronghold-go/stronghold/stronghold"
	"github.com/stronghold-go/stronghold/vault"
)

const DefaultErrorExitCode = 1

var (
	// errHandler is the function used to handle cli errors.
	errHandler = FatalErrHandler

	// errWriter is used to output cli error messages.
	errWriter io.Writer = os.Stderr

	// debugMode enables always printing raw error values.
	debugMode bool
)

// SetErrorHandler overrides the default [FatalErrHandler] error handler.
func SetErrorHandler(f func(string, int)) { errHandler = f }

// ResetErrorHandler restores the default error handler.
func ResetErrorHandler() { errHandler = FatalErrHandler }

// SetErrWriter overrides the default error output writer [os.Stderr].
func SetErrWriter(w io.Writer) { errWriter = w }

// ResetErrWriter restores the default error output writer to [os.Stderr].
func ResetErrWriter() { errWriter = os.Stderr }

// DebugMode sets whether raw error values are also printed to stderr.
func DebugMode(enabled bool) { debugMode = enabled }

// FatalErrHandler prints msg and exits with code.
func FatalErrHandler(msg string, code int) {
	printError(msg)
	os.Exit(code) //nolint:revive // intentional exit after a fatal error.
}

func PrintErrHandler(msg string, _ int) { printError(msg) }

func printError(msg string) {
	if len(msg) == 0 {
		return
	}

	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}

	fmt.Fprint(errWriter, msg)
}

func debugPrint(err error) {
	if debugMode {
		fmt.Fprintf(errWriter, "DEBUG %+v\n", err)
	}
}

// ErrExit may be passed to Check to instruct it to output nothing but exit
// with status code 1.
var ErrExit = errors.New("exit")

// Check prints a user-friendly error message and invokes the configured
// error handler. With the default [FatalErrHandler], the program exits
// before Check returns.
func Check(err error) error {
	check(err, errHandler)
	return err
}

func check(err error, handleErr func(string, int)) {
	if err == nil {
		return
	}

	debugPrint(err)

	switch {
	case errors.Is(err, ErrExit):
		handleErr("", DefaultErrorExitCode)
	case errors.Is(err, client.ErrClientDataNotPresent):
		handleErr("strongholdctl: no client registered for that path\nUse 'create-client' first.", DefaultErrorExitCode)
	case errors.Is(err, client.ErrVaultMissing), errors.Is(err, vault.ErrVaultNotFound):
		handleErr("strongholdctl: vault has never been written to", DefaultErrorExitCode)
	case errors.Is(err, vault.ErrRecordNotFound):
		handleErr("strongholdctl: no such record", DefaultErrorExitCode)
	case errors.Is(err, vault.ErrDecryptFailed), errors.Is(err, snapshot.ErrDecryptFailed):
		handleErr("strongholdctl: decryption failed\nCheck the passphrase and try again.", DefaultErrorExitCode)
	case errors.Is(err, snapshot.ErrInvalidFile), errors.Is(err, snapshot.ErrTruncated):
		handleErr("strongholdctl: snapshot file is corrupt or not a stronghold snapshot", DefaultErrorExitCode)
	case errors.Is(err, stronghold.ErrSnapshotFileMissing):
		handleErr("strongholdctl: snapshot file not found\nUse 'commit' to create one.", DefaultErrorExitCode)
	case errors.Is(err, procedure.ErrVaultMissing), errors.Is(err, procedure.ErrRecordMissing):
		handleErr("strongholdctl: procedure referenced a vault or record that does not exist", DefaultErrorExitCode)
	case errors.Is(err, kvstore.ErrNotFound):
		handleErr("strongholdctl: key not found in store", DefaultErrorExitCode)
	default:
		msg := err.Error()
		if !strings.HasPrefix(msg, "strongholdctl: ") {
			msg = "strongholdctl: " + msg
		}

		handleErr(msg, DefaultErrorExitCode)
	}
}
