package cmd

import "github.com/spf13/cobra"

const strongholdctlVersion = "0.1.0"

func newVersionCmd() (*cobra.Command, error) {
	c := &cobra.Command{
		Use:   "version",
		Short: "Print the strongholdctl version",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			streams.Printf("strongholdctl %s\n", strongholdctlVersion)
			return nil
		},
	}

	return c, nil
}
