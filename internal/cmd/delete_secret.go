package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newDeleteSecretCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "delete-secret <client-path> <vault-path> <record-path>",
		Short: "Revoke a record and immediately garbage-collect its vault",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := cmdContext()

			s, key, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			cl, err := s.GetClient([]byte(args[0]))
			if err != nil {
				return clierror.Check(err)
			}

			deleted, err := cl.Vault([]byte(args[1])).DeleteSecret([]byte(args[2]))
			if err != nil {
				return clierror.Check(fmt.Errorf("delete secret: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("deleted: %t\n", deleted)

			return nil
		},
	}

	return c, nil
}
