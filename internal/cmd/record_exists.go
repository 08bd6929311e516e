package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/ids"
	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newRecordExistsCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "record-exists <client-path> <vault-path> <record-path>",
		Short: "Report whether a record is currently live",
		Args:  cobra.ExactArgs(3),
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

			loc := ids.Generic([]byte(args[1]), []byte(args[2]))
			exists := cl.RecordExists(loc)
			streams.Printf("%t\n", exists)

			return nil
		},
	}

	return c, nil
}
