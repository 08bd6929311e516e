package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newVaultExistsCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "vault-exists <client-path> <vault-path>",
		Short: "Report whether a vault has been initialized",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := cmdContext()

			s, _, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			cl, err := s.GetClient([]byte(args[0]))
			if err != nil {
				return clierror.Check(err)
			}

			streams.Printf("%t\n", cl.VaultExists([]byte(args[1])))

			return nil
		},
	}

	return c, nil
}
