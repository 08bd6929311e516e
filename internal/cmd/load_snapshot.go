package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/internal/input"
)

func newLoadSnapshotCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "load-snapshot <client-path> <source-snapshot-path>",
		Short: "Merge one client out of another snapshot file into the current registry",
		Long:  "Unlike the automatic snapshot load every command performs against --snapshot, this loads only the single client addressed by <client-path> out of a different snapshot file, and merges it into the current registry.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := cmdContext()

			s, key, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			sourcePass, err := input.PromptReadSecure(streams.Out, int(os.Stdin.Fd()), "Enter source snapshot passphrase: ")
			if err != nil {
				return clierror.Check(fmt.Errorf("read source passphrase: %w", err))
			}

			sourceKey, err := snapshotKey(sourcePass, args[1])
			if err != nil {
				return clierror.Check(err)
			}

			if _, err := s.LoadClientFromSnapshot([]byte(args[0]), sourceKey, args[1]); err != nil {
				return clierror.Check(fmt.Errorf("load client from snapshot: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("client %s merged from %s\n", args[0], args[1])

			return nil
		},
	}

	return c, nil
}
