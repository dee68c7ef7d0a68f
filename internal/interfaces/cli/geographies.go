package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/civicgrid/crosswalk/internal/domain/geography"
)

func newGeographiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "geographies",
		Short: "List the fixed geography vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATASET\tNAME COLUMN")
			for _, id := range geography.AllIDs() {
				info, _ := geography.Dataset(id)
				col := info.NameColumn
				if info.AltColumn != "" {
					col += " (or " + info.AltColumn + ")"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", id, info.Name, col)
			}
			return w.Flush()
		},
	}
}
