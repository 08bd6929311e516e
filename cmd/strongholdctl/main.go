// Command strongholdctl drives a Stronghold facade directly against a local
// snapshot file: every invocation loads the snapshot if one exists, performs
// one operation, and commits the result back before exiting.
package main

import (
	"github.com/stronghold-go/stronghold/internal/cmd"
)

func main() {
	if err := cmd.MustInitialize(); err != nil {
		panic(err)
	}

	cmd.Execute()
}
