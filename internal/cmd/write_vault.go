package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/internal/input"
	"github.com/stronghold-go/stronghold/procedure"
)

func newWriteVaultCmd() (*cobra.Command, error) {
	var stdin bool

	c := &cobra.Command{
		Use:   "write-vault <client-path> <vault-path> <record-path>",
		Short: "Write a raw byte string into a vault through the WriteVault procedure",
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

			var data []byte

			if stdin {
				data, err = io.ReadAll(streams.In)
				if err != nil {
					return clierror.Check(fmt.Errorf("read from stdin: %w", err))
				}
			} else {
				data, err = input.PromptReadSecure(streams.Out, int(os.Stdin.Fd()), "Enter data: ")
				if err != nil {
					return clierror.Check(fmt.Errorf("read data: %w", err))
				}
			}

			loc := locationFor(args[1], args[2])

			if _, err := cl.ExecuteProcedure(procedure.WriteVault{Data: data, Location: loc}); err != nil {
				return clierror.Check(fmt.Errorf("write vault: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("data written\n")

			return nil
		},
	}

	c.Flags().BoolVar(&stdin, "stdin", false, "Read the data from stdin instead of prompting")

	return c, nil
}
