package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newCommitCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "commit",
		Short: "Write the current registry to the snapshot file",
		Long:  "Loads the existing snapshot (if any), then writes it straight back out. Useful to create the initial empty snapshot and its passphrase salt before any clients exist.",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := cmdContext()

			s, key, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("committed to %s\n", snapshotPath)

			return nil
		},
	}

	return c, nil
}
