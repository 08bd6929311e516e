package cmd

import (
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/stronghold-go/stronghold/internal/clierror"
)

func newStatCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "stat",
		Short: "Print the snapshot file's location, size and age",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			fi, err := os.Stat(snapshotPath)
			if err != nil {
				return clierror.Check(err)
			}

			streams.Printf("%s\n", snapshotPath)
			streams.Printf("size: %s\n", humanize.Bytes(uint64(fi.Size())))
			streams.Printf("modified: %s\n", humanize.Time(fi.ModTime()))

			return nil
		},
	}

	return c, nil
}
