package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newCreateClientCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "create-client <path>",
		Short: "Register a new client namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := cmdContext()

			s, key, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			cl, err := s.CreateClient([]byte(args[0]))
			if err != nil {
				return clierror.Check(fmt.Errorf("create client: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("client %s registered (id %s)\n", args[0], cl.ID)

			return nil
		},
	}

	return c, nil
}
