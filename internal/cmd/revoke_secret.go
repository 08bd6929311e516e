package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newRevokeSecretCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "revoke-secret <client-path> <vault-path> <record-path>",
		Short: "Logically delete a record, without reclaiming its log space",
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

			if err := cl.Vault([]byte(args[1])).RevokeSecret([]byte(args[2])); err != nil {
				return clierror.Check(fmt.Errorf("revoke secret: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("secret revoked\n")

			return nil
		},
	}

	return c, nil
}
