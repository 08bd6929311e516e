package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/procedure"
)

func newSignCmd() (*cobra.Command, error) {
	var msg string

	c := &cobra.Command{
		Use:   "sign <client-path> <private-key-vault-path> <private-key-record-path>",
		Short: "Sign a message with an Ed25519 private key stored in a vault",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			if msg == "" {
				return clierror.Check(fmt.Errorf("--msg is required"))
			}

			ctx := cmdContext()

			s, _, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			cl, err := s.GetClient([]byte(args[0]))
			if err != nil {
				return clierror.Check(err)
			}

			priv := locationFor(args[1], args[2])

			sig, err := cl.ExecuteProcedure(procedure.Ed25519Sign{PrivateKey: priv, Msg: []byte(msg)})
			if err != nil {
				return clierror.Check(fmt.Errorf("sign: %w", err))
			}

			streams.Printf("%s\n", base64.StdEncoding.EncodeToString(sig))

			return nil
		},
	}

	c.Flags().StringVar(&msg, "msg", "", "Message to sign")

	return c, nil
}
