package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(rt *runtime) *cobra.Command {
	var (
		format  string
		details bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the saved search with the current selection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			c, closeStore, err := rt.controller(cmd.Context())
			if err != nil {
				return err
			}
			defer closeStore()

			v := c.View()
			if !v.HasSearched && format == formatTable {
				_, err := fmt.Fprintln(out(cmd), mutedStyle.Render("No saved search. Run `netcompare search` first."))
				return err
			}
			return printView(out(cmd), v, rt.catalog(), format, details)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	cmd.Flags().BoolVar(&details, "details", false, "list each offer's details and benefits")
	return cmd
}
