package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newOperationCentersCmd(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "operation-centers",
		Short: "List the TSCRED operation centers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reports, err := cli.newReporter(cmd.Context(), cli.cfg)
			if err != nil {
				return err
			}
			centers, err := reports.OperationCenters(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME")
			for _, c := range centers {
				fmt.Fprintf(tw, "%s\t%s\n", c.ID, c.Name)
			}
			return tw.Flush()
		},
	}
}
