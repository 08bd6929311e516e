package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/procedure"
)

func newGenerateKeyCmd() (*cobra.Command, error) {
	var keyType string

	c := &cobra.Command{
		Use:   "generate-key <client-path> <output-vault-path> <output-record-path>",
		Short: "Generate a fresh private key and write it into a vault",
		Args:  cobra.ExactArgs(3),
		RunE: func(_ *cobra.Command, args []string) error {
			ty, err := parseKeyType(keyType)
			if err != nil {
				return clierror.Check(err)
			}

			ctx := cmdContext()

			s, key, err := openFacade(ctx, streams, snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			cl, err := s.GetClient([]byte(args[0]))
			if err != nil {
				return clierror.Check(err)
			}

			output := locationFor(args[1], args[2])

			if _, err := cl.ExecuteProcedure(procedure.GenerateKey{Type: ty, Output: output}); err != nil {
				return clierror.Check(fmt.Errorf("generate key: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("key generated\n")

			return nil
		},
	}

	c.Flags().StringVar(&keyType, "type", "ed25519", "Key type: ed25519, x25519 or secp256k1_ecdsa")

	return c, nil
}

func parseKeyType(s string) (procedure.KeyType, error) {
	switch s {
	case "ed25519":
		return procedure.Ed25519, nil
	case "x25519":
		return procedure.X25519, nil
	case "secp256k1_ecdsa":
		return procedure.Secp256k1Ecdsa, nil
	default:
		return 0, fmt.Errorf("unknown key type %q", s)
	}
}
