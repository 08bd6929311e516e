package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/internal/input"
)

func newWriteSecretCmd() (*cobra.Command, error) {
	var stdin bool

	c := &cobra.Command{
		Use:   "write-secret <client-path> <vault-path> <record-path>",
		Short: "Seal and write a secret into a vault",
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
				data, err = input.PromptReadSecure(streams.Out, int(os.Stdin.Fd()), "Enter secret value: ")
				if err != nil {
					return clierror.Check(fmt.Errorf("read secret value: %w", err))
				}
			}

			if err := cl.Vault([]byte(args[1])).WriteSecret([]byte(args[2]), data); err != nil {
				return clierror.Check(fmt.Errorf("write secret: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("secret written\n")

			return nil
		},
	}

	c.Flags().BoolVar(&stdin, "stdin", false, "Read the secret value from stdin instead of prompting")

	return c, nil
}
