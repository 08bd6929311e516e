package cmd

import (
	"context"

	"github.com/stronghold-go/stronghold/ids"
)

// cmdContext builds the context each subcommand's single operation runs
// under. strongholdctl invocations are short-lived, so there is no
// cancellation signal to wire in beyond the process's own lifetime.
func cmdContext() context.Context {
	return context.Background()
}

// locationFor builds the [ids.Location] addressed by a vault path and
// record path pair of positional CLI arguments.
func locationFor(vaultPath, recordPath string) ids.Location {
	return ids.Generic([]byte(vaultPath), []byte(recordPath))
}
