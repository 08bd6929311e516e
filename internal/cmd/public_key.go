package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/procedure"
)

func newPublicKeyCmd() (*cobra.Command, error) {
	var keyType string

	c := &cobra.Command{
		Use:   "public-key <client-path> <private-key-vault-path> <private-key-record-path>",
		Short: "Derive and print the public key for a stored private key",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			ty, err := parseKeyType(keyType)
			if err != nil {
				return clierror.Check(err)
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

			pub, err := cl.ExecuteProcedure(procedure.PublicKey{Type: ty, PrivateKey: priv})
			if err != nil {
				return clierror.Check(fmt.Errorf("public key: %w", err))
			}

			streams.Printf("%s\n", base64.StdEncoding.EncodeToString(pub))

			return nil
		},
	}

	c.Flags().StringVar(&keyType, "type", "ed25519", "Key type: ed25519, x25519 or secp256k1_ecdsa")

	return c, nil
}
