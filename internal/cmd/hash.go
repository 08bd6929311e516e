package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
	"github.com/stronghold-go/stronghold/procedure"
)

func newHashCmd() (*cobra.Command, error) {
	var variant string

	c := &cobra.Command{
		Use:   "hash <client-path> <data-vault-path> <data-record-path> <output-vault-path> <output-record-path>",
		Short: "Digest the secret at one record and write the result to another",
		Args:  cobra.ExactArgs(5),
		RunE: func(_ *cobra.Command, args []string) error {
			v, err := parseSha2Variant(variant)
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

			data := locationFor(args[1], args[2])
			output := locationFor(args[3], args[4])

			digest, err := cl.ExecuteProcedure(procedure.Sha2Hash{Variant: v, Data: data, Output: output})
			if err != nil {
				return clierror.Check(fmt.Errorf("hash: %w", err))
			}

			if err := persist(s, snapshotPath, key); err != nil {
				return clierror.Check(err)
			}

			streams.Printf("%s\n", base64.StdEncoding.EncodeToString(digest))

			return nil
		},
	}

	c.Flags().StringVar(&variant, "variant", "sha256", "Digest variant: sha256 or sha512")

	return c, nil
}

func parseSha2Variant(s string) (procedure.Sha2Variant, error) {
	switch s {
	case "sha256":
		return procedure.Sha256, nil
	case "sha512":
		return procedure.Sha512, nil
	default:
		return 0, fmt.Errorf("unknown sha2 variant %q", s)
	}
}
